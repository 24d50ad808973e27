package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdul-hamid-achik/hitrelay/packages/core/config"
	"github.com/abdul-hamid-achik/hitrelay/packages/executor"
	hhttp "github.com/abdul-hamid-achik/hitrelay/packages/http"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDescription(t *testing.T) {
	desc, err := buildDescription("post", "http://api.test/items",
		[]string{"limit=5", "q=a=b"},
		[]string{"Authorization: Bearer abc", "X-Empty:"},
		`{"name":"x"}`)

	require.NoError(t, err)
	assert.Equal(t, "post", desc.Method)
	assert.Equal(t, hhttp.QueryParams{{Key: "limit", Value: "5"}, {Key: "q", Value: "a=b"}}, desc.QueryParams)
	assert.Equal(t, map[string]string{"Authorization": "Bearer abc", "X-Empty": ""}, desc.Headers)
	assert.JSONEq(t, `{"name":"x"}`, string(desc.Body))
}

func TestBuildDescription_TextBody(t *testing.T) {
	desc, err := buildDescription("POST", "http://api.test", nil, nil, "plain text")

	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`"plain text"`), desc.Body)
}

func TestBuildDescription_Invalid(t *testing.T) {
	_, err := buildDescription("GET", "http://api.test", []string{"novalue"}, nil, "")
	assert.Error(t, err)

	_, err = buildDescription("GET", "http://api.test", nil, []string{"no-colon"}, "")
	assert.Error(t, err)
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCodeFor(executor.OutcomeSuccess))
	assert.Equal(t, ExitRequestFailure, exitCodeFor(executor.OutcomeAuthenticationFailed))
	assert.Equal(t, ExitRequestFailure, exitCodeFor(executor.OutcomeAPIRequestFailed))
	assert.Equal(t, ExitNetworkError, exitCodeFor(executor.OutcomeConnectionFailed))
	assert.Equal(t, ExitNetworkError, exitCodeFor(executor.OutcomeExecutionFailed))
}

func TestRunExec_NoRecord(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "limit=5", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	cfg = config.DefaultConfig()
	execQueryFlags = []string{"limit=5"}
	execHeaderFlags = nil
	execBodyFlag = ""
	execNoRecord = true
	t.Cleanup(func() {
		execQueryFlags = nil
		execNoRecord = false
	})

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)

	code, err := runExec(c, "GET", upstream.URL)

	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), "Success")
	assert.Contains(t, out.String(), `"ok": true`)
}
