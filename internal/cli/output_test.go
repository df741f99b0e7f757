package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/results"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("MALFORMED_INPUT", "File format is not correct.", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "MALFORMED_INPUT", resp.Error.Code)
	assert.Equal(t, "File format is not correct.", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"file": "people.ttl", "line": "42"}
	err := formatter.Error("MALFORMED_QUERY", "syntax error", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Imported 2 triples")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Imported 2 triples")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("MALFORMED_INPUT", "File format is not correct.", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [MALFORMED_INPUT]")
	assert.Contains(t, buf.String(), "File format is not correct.")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"file": "people.ttl"}
	err := formatter.Error("MALFORMED_INPUT", "File format is not correct.", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [MALFORMED_INPUT]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Processing %s", "people.ttl")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Processing people.ttl")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status: "ok",
		Data:   map[string]int{"count": 42},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded.Status)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "IO_ERROR",
		Message: "could not read document",
		Details: []string{"connection reset"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "IO_ERROR", decoded.Code)
	assert.Equal(t, "could not read document", decoded.Message)
}

func TestOutputFormatter_TextTable(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Table(&results.Table{
		Columns: []string{"s", "name"},
		Rows:    [][]string{{"ex:alice", "Alice"}, {"ex:bob", ""}},
	})
	require.NoError(t, err)
	assert.Equal(t, "s" + strings.Repeat(" ", 9) + "name\n" +
		"ex:alice  Alice\n" +
		"ex:bob    \n" +
		"(2 rows)\n", buf.String())
}

func TestOutputFormatter_JSONTable(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Table(&results.Table{Columns: []string{"s"}, Rows: [][]string{{"ex:a"}}}))

	var resp struct {
		Status string        `json:"status"`
		Data   results.Table `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, results.Table{Columns: []string{"s"}, Rows: [][]string{{"ex:a"}}}, resp.Data)
}

func TestOutputFormatter_Fail(t *testing.T) {
	cause := graph.NewError(graph.ErrCodeNetwork, "Unknown or unresponsive host: example.invalid", nil)

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		formatter := &OutputFormatter{Format: "json", Writer: buf}
		err := formatter.Fail("remote query failed", cause)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.True(t, graph.IsNetworkError(err))

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "NETWORK_ERROR", resp.Error.Code)
	})

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		formatter := &OutputFormatter{Format: "text", Writer: buf}
		err := formatter.Fail("remote query failed", cause)
		assert.Empty(t, buf.String())
		assert.Equal(t, "remote query failed: NETWORK_ERROR: Unknown or unresponsive host: example.invalid", err.Error())
	})

	t.Run("exit errors pass through", func(t *testing.T) {
		formatter := &OutputFormatter{Format: "json", Writer: &bytes.Buffer{}}
		err := formatter.Fail("x", NewExitError(ExitCommandError, "bad flags"))
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}
