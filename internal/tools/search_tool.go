// In file: internal/tools/search_tool.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// --- Web Search Tool Implementation ---

const defaultResultCount = 5

// SearchTool performs web searches through the Google Custom Search API.
// It holds the configured service client and the search engine id (cx).
type SearchTool struct {
	service     *customsearch.Service
	engineID    string
	resultCount int64
}

// Statically verify that SearchTool implements the ToolExecutor interface.
var _ ToolExecutor = (*SearchTool)(nil)

// searchResult is the fixed shape returned for every hit, regardless of what
// extra metadata the API includes.
type searchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// NewSearchTool creates a configured search tool. Extra client options are
// accepted so tests can point the service at a fake endpoint.
func NewSearchTool(ctx context.Context, apiKey, engineID string, resultCount int64, opts ...option.ClientOption) (*SearchTool, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google search API key cannot be empty")
	}
	if engineID == "" {
		return nil, fmt.Errorf("google custom search engine id cannot be empty")
	}
	if resultCount <= 0 {
		resultCount = defaultResultCount
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}

	return &SearchTool{
		service:     service,
		engineID:    engineID,
		resultCount: resultCount,
	}, nil
}

// Definition describes the tool to the model.
func (st *SearchTool) Definition() Tool {
	return NewFunctionTool(
		"web_search",
		"Search the web for current information on a topic.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"query": {
					Type:        "string",
					Description: "The search query to look up.",
				},
				"num_results": {
					Type:        "integer",
					Description: "How many results to return (1-10). Defaults to 5.",
				},
			},
			Required: []string{"query"},
		},
	)
}

// Execute runs the search and renders the hits as a JSON list of
// {title, link, snippet}. A query with zero hits returns an empty list, not
// an error; network and quota failures surface as errors for the manager to
// wrap.
func (st *SearchTool) Execute(arguments string) (string, error) {
	var args struct {
		Query      string `json:"query"`
		NumResults int64  `json:"num_results"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments for web search: %w", err)
	}
	if args.Query == "" {
		return "", fmt.Errorf("search query cannot be empty")
	}

	count := st.resultCount
	if args.NumResults > 0 && args.NumResults <= 10 {
		count = args.NumResults
	}

	resp, err := st.service.Cse.List().
		Q(args.Query).
		Cx(st.engineID).
		Num(count).
		Do()
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}

	results := make([]searchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, searchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode search results: %w", err)
	}
	return string(payload), nil
}
