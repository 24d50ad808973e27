package http

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

type Response struct {
	URL        string
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

// StatusText returns the reason phrase sent by the server, e.g. "Not Found".
func (r *Response) StatusText() string {
	text := strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode))
	return strings.TrimSpace(text)
}

// Payload returns the decoded response body: JSON bodies are returned as
// json.RawMessage so they are re-emitted verbatim, anything else as a string.
func (r *Response) Payload() any {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) > 0 && gjson.ValidBytes(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(r.Body)
}

// HasPayload reports whether the response carried a meaningful payload.
// Empty bodies and JSON null, false, 0 and "" count as no payload.
func (r *Response) HasPayload() bool {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 {
		return false
	}
	if !gjson.ValidBytes(trimmed) {
		return true
	}

	result := gjson.ParseBytes(trimmed)
	switch result.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return result.Num != 0
	case gjson.String:
		return result.Str != ""
	}
	return true
}
