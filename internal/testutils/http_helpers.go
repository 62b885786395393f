package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/slate-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateTestServer creates a httptest server with the given handler.
// Automatically registers cleanup via t.Cleanup() so callers don't need to manually close the server.
func CreateTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// ExecuteRawRequest sends body verbatim with a JSON content type.
// The response body is closed automatically when the test ends.
func ExecuteRawRequest(t *testing.T, server *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err, "Failed to create request")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Request failed")
	t.Cleanup(func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	})

	return resp
}

// ExecuteJSONRequest marshals body and sends it.
func ExecuteJSONRequest(t *testing.T, server *httptest.Server, method, path string, body interface{}) *http.Response {
	t.Helper()

	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err, "Failed to marshal request body")

	return ExecuteRawRequest(t, server, method, path, string(bodyBytes))
}

// DecodeJSON reads the response body into v.
func DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	require.NoError(t, json.Unmarshal(body, v), "Failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse checks that a response carries the expected status code
// and an error message containing expectedErrorMsgPart.
func AssertErrorResponse(
	t *testing.T,
	resp *http.Response,
	expectedStatus int,
	expectedErrorMsgPart string,
) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode,
		"Expected status code %d but got %d", expectedStatus, resp.StatusCode)

	var errResp shared.ErrorResponse
	DecodeJSON(t, resp, &errResp)

	assert.Contains(t, errResp.Error, expectedErrorMsgPart,
		"Error message should contain '%s' but got '%s'", expectedErrorMsgPart, errResp.Error)
}
