// In file: internal/llm/router.go
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/dileep-u-k/groq-assistant/internal/logging"
)

// RoutingDecision is the router's verdict for one user turn. It is computed
// once, consumed by the conversation loop, and not retained.
type RoutingDecision struct {
	NeedsSearch    bool
	NeedsCalculate bool
}

// NeedsTool reports whether any tool was suggested.
func (d RoutingDecision) NeedsTool() bool {
	return d.NeedsSearch || d.NeedsCalculate
}

// SuggestedTools lists the routed tool names, search first. The first entry
// is treated as the primary tool when forcing usage.
func (d RoutingDecision) SuggestedTools() []string {
	var names []string
	if d.NeedsSearch {
		names = append(names, "web_search")
	}
	if d.NeedsCalculate {
		names = append(names, "calculate")
	}
	return names
}

func (d RoutingDecision) String() string {
	if !d.NeedsTool() {
		return "no_tool"
	}
	return strings.Join(d.SuggestedTools(), ", ")
}

// RouterConfig configures the routing model call.
type RouterConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// QueryRouter pre-classifies user queries with a cheap, fast model before
// the primary model is called. Its only job is deciding whether the search
// or calculate tools are likely relevant.
type QueryRouter struct {
	client LLMClient
	config RouterConfig
	logger *logging.Logger
}

func NewQueryRouter(client LLMClient, config RouterConfig, logger *logging.Logger) *QueryRouter {
	return &QueryRouter{
		client: client,
		config: config,
		logger: logger,
	}
}

const routingSystemPrompt = "You are a routing assistant that decides which tools are needed to answer user queries."

const routingPromptTemplate = `Given the following user query, determine if any tools are needed to answer it.

Available tools:
1. CALCULATE: For mathematical calculations and arithmetic
2. WEB_SEARCH: For current information, facts, news, or data that requires searching the web

For each query, respond with one of:
- "TOOL: CALCULATE" if a calculation tool is needed
- "TOOL: WEB_SEARCH" if a web search tool is needed for current information
- "TOOL: WEB_SEARCH, CALCULATE" if both tools might be needed
- "NO TOOL" if no tools are needed and you can answer from your knowledge

User query: "%s"

Response (ONLY respond with one of the allowed formats above):`

// Route classifies the query. Any failure of the routing call fails open to
// a no-tool decision: the turn must proceed as plain conversation rather
// than abort, and the failure is logged explicitly.
func (r *QueryRouter) Route(ctx context.Context, query string) RoutingDecision {
	r.logger.Debugf("routing query: %s", logging.Truncate(query, 200))

	messages := []Message{
		{Role: RoleSystem, Content: routingSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(routingPromptTemplate, query)},
	}

	temperature := r.config.Temperature
	config := &GenerationConfig{
		Model:       r.config.Model,
		Temperature: &temperature,
		MaxTokens:   r.config.MaxTokens,
	}

	result, err := r.client.Generate(ctx, messages, config, nil)
	if err != nil {
		r.logger.Errorf("routing call failed, defaulting to no tool: %v", err)
		return RoutingDecision{}
	}

	return parseRoutingDecision(result.Content)
}

// parseRoutingDecision reads the routing model's literal answer. The reply
// formats are prompt-enforced, so containment checks on the upper-cased
// text are enough; anything unrecognized means no tool.
func parseRoutingDecision(raw string) RoutingDecision {
	verdict := strings.ToUpper(strings.TrimSpace(raw))
	return RoutingDecision{
		NeedsSearch:    strings.Contains(verdict, "WEB_SEARCH"),
		NeedsCalculate: strings.Contains(verdict, "CALCULATE"),
	}
}
