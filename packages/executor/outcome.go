package executor

import (
	"net/http"

	hhttp "github.com/abdul-hamid-achik/hitrelay/packages/http"
)

// Outcome classifies how an execution ended.
type Outcome string

const (
	OutcomeSuccess              Outcome = "Success"
	OutcomeAuthenticationFailed Outcome = "AuthenticationFailed"
	OutcomeAPIRequestFailed     Outcome = "ApiRequestFailed"
	OutcomeConnectionFailed     Outcome = "ConnectionFailed"
	OutcomeExecutionFailed      Outcome = "ExecutionFailed"
)

// Error titles carried in failure bodies.
const (
	ErrAuthenticationFailed = "Authentication Failed"
	ErrAPIRequestFailed     = "API Request Failed"
	ErrConnectionFailed     = "Connection Failed"
	ErrExecutionFailed      = "Failed to execute request"

	ConnectionFailedDetails = "Could not connect to the server. The service might be down or the URL might be incorrect."
)

// AuthenticationSuggestions are returned with every 401 and 403.
var AuthenticationSuggestions = []string{
	"Check if the authentication token/key is correct and complete",
	"Verify the token has not expired",
	"Ensure the token has the necessary permissions",
	"Verify you are using the correct authentication method",
}

// ExecutionSuggestions are returned with transport failures other than a
// refused connection.
var ExecutionSuggestions = []string{
	"Verify the URL is correct and accessible",
	"Check if all required headers are properly formatted",
	"Verify the HTTP method is supported",
	"Ensure the request body is properly formatted (if applicable)",
	"Check your network connection",
}

// AuthenticationFailedBody is the body for 401 and 403 responses.
type AuthenticationFailedBody struct {
	Error       string   `json:"error"`
	Status      int      `json:"status"`
	StatusText  string   `json:"statusText"`
	Details     any      `json:"details"`
	Suggestions []string `json:"suggestions"`
}

// APIRequestFailedBody is the body for any other status >= 400.
type APIRequestFailedBody struct {
	Error      string `json:"error"`
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
	Details    any    `json:"details"`
}

// ConnectionFailedBody is the body when the remote refused the connection.
type ConnectionFailedBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Code    string `json:"code"`
}

// ExecutionFailedBody is the body for every other transport failure.
type ExecutionFailedBody struct {
	Error       string   `json:"error"`
	Details     string   `json:"details"`
	Code        string   `json:"code"`
	Suggestions []string `json:"suggestions"`
}

// Result is what a caller gets back from an execution.
type Result struct {
	StatusCode int     `json:"statusCode"`
	Body       any     `json:"body"`
	Outcome    Outcome `json:"-"`
}

// Classify maps a completed exchange or a transport failure to a Result.
// It performs no I/O. When err is non-nil resp is ignored.
func Classify(resp *hhttp.Response, err error) Result {
	if err != nil || resp == nil {
		return classifyTransportError(err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Result{
			StatusCode: resp.StatusCode,
			Outcome:    OutcomeAuthenticationFailed,
			Body: AuthenticationFailedBody{
				Error:       ErrAuthenticationFailed,
				Status:      resp.StatusCode,
				StatusText:  resp.StatusText(),
				Details:     resp.Payload(),
				Suggestions: append([]string(nil), AuthenticationSuggestions...),
			},
		}
	case resp.StatusCode >= 400:
		return Result{
			StatusCode: resp.StatusCode,
			Outcome:    OutcomeAPIRequestFailed,
			Body: APIRequestFailedBody{
				Error:      ErrAPIRequestFailed,
				Status:     resp.StatusCode,
				StatusText: resp.StatusText(),
				Details:    resp.Payload(),
			},
		}
	}

	return Result{
		StatusCode: resp.StatusCode,
		Outcome:    OutcomeSuccess,
		Body:       resp.Payload(),
	}
}

func classifyTransportError(err error) Result {
	code := hhttp.ErrorCode(err)
	if hhttp.IsConnectionRefused(err) {
		return Result{
			StatusCode: http.StatusInternalServerError,
			Outcome:    OutcomeConnectionFailed,
			Body: ConnectionFailedBody{
				Error:   ErrConnectionFailed,
				Details: ConnectionFailedDetails,
				Code:    code,
			},
		}
	}

	details := "no response received"
	if err != nil {
		details = err.Error()
	} else {
		code = hhttp.CodeNetwork
	}

	return Result{
		StatusCode: http.StatusInternalServerError,
		Outcome:    OutcomeExecutionFailed,
		Body: ExecutionFailedBody{
			Error:       ErrExecutionFailed,
			Details:     details,
			Code:        code,
			Suggestions: append([]string(nil), ExecutionSuggestions...),
		},
	}
}
