package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitrelay/packages/execlog"
	"github.com/abdul-hamid-achik/hitrelay/packages/executor"
	hhttp "github.com/abdul-hamid-achik/hitrelay/packages/http"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	execQueryFlags  []string
	execHeaderFlags []string
	execBodyFlag    string
	execNoRecord    bool
)

var execCmd = &cobra.Command{
	Use:   "exec <method> <url>",
	Short: "Execute a single request and print the classified result",
	Long: `Execute one request the same way POST /execute does and print the result.

Examples:
  hitrelay exec GET https://api.example.com/items -q limit=5
  hitrelay exec POST https://api.example.com/items -H "Authorization: Bearer abc" --body '{"name":"x"}'`,
	Args: cobra.ExactArgs(2),
	RunE: execCommand,
}

func init() {
	execCmd.Flags().StringArrayVarP(&execQueryFlags, "query", "q", nil, "Query parameter as key=value (repeatable, order kept)")
	execCmd.Flags().StringArrayVarP(&execHeaderFlags, "header", "H", nil, "Header as \"Name: value\" (repeatable)")
	execCmd.Flags().StringVarP(&execBodyFlag, "body", "b", "", "Request body; JSON values are sent as JSON, anything else as text")
	execCmd.Flags().BoolVar(&execNoRecord, "no-record", false, "Do not write an execution log record")
}

func execCommand(cmd *cobra.Command, args []string) error {
	code, err := runExec(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	if code != ExitSuccess {
		os.Exit(code)
	}
	return nil
}

func runExec(cmd *cobra.Command, method, url string) (int, error) {
	desc, err := buildDescription(method, url, execQueryFlags, execHeaderFlags, execBodyFlag)
	if err != nil {
		return ExitUsageError, err
	}

	var recorder executor.Recorder
	if !execNoRecord {
		b, err := openBackend(cfg)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return ExitStoreError, nil
		}
		defer b.Close()
		recorder = execlog.NewRecorder(b.store)
	}

	result, execID := executor.New(newClient(cfg), recorder).Execute(context.Background(), desc)

	if err := printResult(cmd, result, execID); err != nil {
		return ExitUsageError, err
	}
	return exitCodeFor(result.Outcome), nil
}

func exitCodeFor(outcome executor.Outcome) int {
	switch outcome {
	case executor.OutcomeConnectionFailed, executor.OutcomeExecutionFailed:
		return ExitNetworkError
	case executor.OutcomeAuthenticationFailed, executor.OutcomeAPIRequestFailed:
		return ExitRequestFailure
	}
	return ExitSuccess
}

func buildDescription(method, url string, queries, headers []string, body string) (executor.Description, error) {
	desc := executor.Description{
		Method:  method,
		URL:     url,
		Headers: make(map[string]string),
	}

	for _, q := range queries {
		key, value, ok := strings.Cut(q, "=")
		if !ok {
			return desc, fmt.Errorf("invalid query parameter %q, expected key=value", q)
		}
		desc.QueryParams = append(desc.QueryParams, hhttp.QueryParam{Key: key, Value: value})
	}

	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return desc, fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
		}
		desc.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if body != "" {
		if json.Valid([]byte(body)) {
			desc.Body = json.RawMessage(body)
		} else {
			encoded, err := json.Marshal(body)
			if err != nil {
				return desc, err
			}
			desc.Body = encoded
		}
	}

	return desc, nil
}

func printResult(cmd *cobra.Command, result executor.Result, execID string) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	status := fmt.Sprintf("%d", result.StatusCode)
	switch {
	case result.Outcome == executor.OutcomeSuccess:
		status = green(status)
	case result.StatusCode >= 500:
		status = red(status)
	default:
		status = yellow(status)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s  %s\n", bold(string(result.Outcome)), status, execID)

	body, err := json.MarshalIndent(result.Body, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(out, string(body))
	return nil
}
