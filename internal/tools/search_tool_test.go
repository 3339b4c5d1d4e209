// In file: internal/tools/search_tool_test.go
package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// newFakeSearchServer serves a canned Custom Search API response and records
// the query parameters of the last request.
func newFakeSearchServer(t *testing.T, body string) (*httptest.Server, *map[string]string) {
	t.Helper()
	seen := make(map[string]string)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for key, values := range r.URL.Query() {
			seen[key] = values[0]
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

func newTestSearchTool(t *testing.T, server *httptest.Server) *SearchTool {
	t.Helper()
	tool, err := NewSearchTool(context.Background(), "test-key", "test-cx", 5,
		option.WithEndpoint(server.URL))
	require.NoError(t, err)
	return tool
}

func TestNewSearchTool_Validation(t *testing.T) {
	_, err := NewSearchTool(context.Background(), "", "cx", 5)
	assert.ErrorContains(t, err, "API key")

	_, err = NewSearchTool(context.Background(), "key", "", 5)
	assert.ErrorContains(t, err, "engine id")
}

func TestSearchTool_Execute(t *testing.T) {
	server, seen := newFakeSearchServer(t, `{
		"items": [
			{"title": "Go", "link": "https://go.dev", "snippet": "The Go programming language", "displayLink": "go.dev"},
			{"title": "Go docs", "link": "https://go.dev/doc", "snippet": "Documentation"}
		]
	}`)
	tool := newTestSearchTool(t, server)

	out, err := tool.Execute(`{"query": "golang"}`)
	require.NoError(t, err)

	var results []searchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "Go", results[0].Title)
	assert.Equal(t, "https://go.dev", results[0].Link)
	assert.Equal(t, "The Go programming language", results[0].Snippet)

	assert.Equal(t, "golang", (*seen)["q"])
	assert.Equal(t, "test-cx", (*seen)["cx"])
	assert.Equal(t, "5", (*seen)["num"])
}

func TestSearchTool_Execute_ZeroHitsIsNotAnError(t *testing.T) {
	server, _ := newFakeSearchServer(t, `{}`)
	tool := newTestSearchTool(t, server)

	out, err := tool.Execute(`{"query": "no such thing"}`)
	require.NoError(t, err)

	var results []searchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Empty(t, results)
}

func TestSearchTool_Execute_NumResultsOverride(t *testing.T) {
	server, seen := newFakeSearchServer(t, `{}`)
	tool := newTestSearchTool(t, server)

	_, err := tool.Execute(`{"query": "golang", "num_results": 3}`)
	require.NoError(t, err)
	assert.Equal(t, "3", (*seen)["num"])

	// Out-of-range requests fall back to the configured default.
	_, err = tool.Execute(`{"query": "golang", "num_results": 50}`)
	require.NoError(t, err)
	assert.Equal(t, "5", (*seen)["num"])
}

func TestSearchTool_Execute_BadArguments(t *testing.T) {
	server, _ := newFakeSearchServer(t, `{}`)
	tool := newTestSearchTool(t, server)

	_, err := tool.Execute(`not json`)
	assert.Error(t, err)

	_, err = tool.Execute(`{"query": ""}`)
	assert.ErrorContains(t, err, "query cannot be empty")
}
