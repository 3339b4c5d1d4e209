// In file: internal/llm/router_test.go
package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/groq-assistant/internal/tools"
)

// fakeClient answers every Generate call with a fixed result or error.
type fakeClient struct {
	result       *GenerationResult
	err          error
	lastMessages []Message
	lastConfig   *GenerationConfig
}

var _ LLMClient = (*fakeClient)(nil)

func (f *fakeClient) Generate(ctx context.Context, messages []Message, config *GenerationConfig, availableTools []tools.Tool) (*GenerationResult, error) {
	f.lastMessages = messages
	f.lastConfig = config
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeClient) GenerateStream(ctx context.Context, messages []Message, config *GenerationConfig, availableTools []tools.Tool) (<-chan *StreamingResult, error) {
	return nil, errors.New("not implemented")
}

func TestParseRoutingDecision(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want RoutingDecision
	}{
		{"calculate", "TOOL: CALCULATE", RoutingDecision{NeedsCalculate: true}},
		{"web search", "TOOL: WEB_SEARCH", RoutingDecision{NeedsSearch: true}},
		{"both", "TOOL: WEB_SEARCH, CALCULATE", RoutingDecision{NeedsSearch: true, NeedsCalculate: true}},
		{"no tool", "NO TOOL", RoutingDecision{}},
		{"lowercase reply", "tool: web_search", RoutingDecision{NeedsSearch: true}},
		{"surrounding chatter", `The answer is "TOOL: CALCULATE".`, RoutingDecision{NeedsCalculate: true}},
		{"unrecognized", "I think maybe you should just answer", RoutingDecision{}},
		{"empty", "", RoutingDecision{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRoutingDecision(tt.raw))
		})
	}
}

func TestRoutingDecision_SuggestedTools(t *testing.T) {
	assert.Nil(t, RoutingDecision{}.SuggestedTools())
	assert.Equal(t, []string{"calculate"}, RoutingDecision{NeedsCalculate: true}.SuggestedTools())
	// Search always comes first; it is the primary tool when both are routed.
	assert.Equal(t, []string{"web_search", "calculate"},
		RoutingDecision{NeedsSearch: true, NeedsCalculate: true}.SuggestedTools())

	assert.Equal(t, "no_tool", RoutingDecision{}.String())
	assert.Equal(t, "web_search, calculate", RoutingDecision{NeedsSearch: true, NeedsCalculate: true}.String())
}

func TestQueryRouter_Route(t *testing.T) {
	config := RouterConfig{Model: "llama-3.1-8b-instant", Temperature: 0, MaxTokens: 20}

	t.Run("uses the routing model without tools", func(t *testing.T) {
		client := &fakeClient{result: &GenerationResult{Content: "TOOL: WEB_SEARCH"}}
		router := NewQueryRouter(client, config, nil)

		decision := router.Route(context.Background(), "who won the match yesterday?")
		assert.True(t, decision.NeedsSearch)
		assert.False(t, decision.NeedsCalculate)

		require.NotNil(t, client.lastConfig)
		assert.Equal(t, "llama-3.1-8b-instant", client.lastConfig.Model)
		require.Len(t, client.lastMessages, 2)
		assert.Equal(t, RoleSystem, client.lastMessages[0].Role)
		assert.Contains(t, client.lastMessages[1].Content, "who won the match yesterday?")
	})

	t.Run("fails open to no tool", func(t *testing.T) {
		client := &fakeClient{err: errors.New("rate limited")}
		router := NewQueryRouter(client, config, nil)

		decision := router.Route(context.Background(), "what is 2+2?")
		assert.False(t, decision.NeedsTool())
	})
}
