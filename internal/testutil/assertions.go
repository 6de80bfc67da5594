package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// ErrorBody is the JSON body of every failed request
type ErrorBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// AssertErrorResponse verifies the status and error kind of a failed request
func AssertErrorResponse(t *testing.T, resp *http.Response, kind domain.Kind) {
	t.Helper()

	assert.Equal(t, kind.Status(), resp.StatusCode, "unexpected status code")

	var body ErrorBody
	AssertJSONResponse(t, resp, &body)
	assert.Equal(t, string(kind), body.Name, "unexpected error kind: %s", body.Message)
	assert.NotEmpty(t, body.Message)
}

// AssertErrorKind checks that err carries the given kind
func AssertErrorKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, domain.KindOf(err), "unexpected error: %v", err)
}
