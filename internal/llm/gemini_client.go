// In file: internal/llm/gemini_client.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dileep-u-k/groq-assistant/internal/tools"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient is the alternate provider client, backed by Google's Gemini
// SDK. It lets the assistant run against gemini-* models with the same
// conversation and tool semantics as the Groq client.
type GeminiClient struct {
	model *genai.GenerativeModel
}

var _ LLMClient = (*GeminiClient)(nil)

func NewGeminiClient(apiKey, modelID string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{model: client.GenerativeModel(modelID)}, nil
}

// Generate performs a blocking request against the Gemini API.
func (c *GeminiClient) Generate(
	ctx context.Context,
	messages []Message,
	config *GenerationConfig,
	availableTools []tools.Tool,
) (*GenerationResult, error) {
	c.configureModel(config, availableTools)
	chat := c.model.StartChat()
	chat.History = toGeminiHistory(messages)

	last := messages[len(messages)-1]
	resp, err := chat.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return parseGeminiResponse(resp)
}

// GenerateStream performs a streaming request against the Gemini API.
func (c *GeminiClient) GenerateStream(
	ctx context.Context,
	messages []Message,
	config *GenerationConfig,
	availableTools []tools.Tool,
) (<-chan *StreamingResult, error) {
	c.configureModel(config, availableTools)
	chat := c.model.StartChat()
	chat.History = toGeminiHistory(messages)
	last := messages[len(messages)-1]

	outChan := make(chan *StreamingResult)
	go func() {
		defer close(outChan)
		iter := chat.SendMessageStream(ctx, genai.Text(last.Content))
		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				outChan <- &StreamingResult{Err: fmt.Errorf("gemini stream error: %w", err)}
				return
			}
			if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
				continue
			}
			var sb strings.Builder
			for _, part := range resp.Candidates[0].Content.Parts {
				if txt, ok := part.(genai.Text); ok {
					sb.WriteString(string(txt))
				}
			}
			outChan <- &StreamingResult{ContentDelta: sb.String()}
		}
	}()
	return outChan, nil
}

// configureModel applies generation settings through the SDK's setters and
// attaches tool declarations. A forced tool becomes a function-calling
// config restricted to that one function, which is Gemini's equivalent of
// the OpenAI tool_choice object.
func (c *GeminiClient) configureModel(config *GenerationConfig, availableTools []tools.Tool) {
	maxTokens := 4096
	if config != nil {
		if config.Temperature != nil {
			c.model.SetTemperature(*config.Temperature)
		}
		if config.TopP != nil {
			c.model.SetTopP(*config.TopP)
		}
		if config.MaxTokens > 0 {
			maxTokens = config.MaxTokens
		}
	}
	c.model.SetMaxOutputTokens(int32(maxTokens))

	if len(availableTools) == 0 {
		c.model.Tools = nil
		c.model.ToolConfig = nil
		return
	}

	c.model.Tools = toGeminiTools(availableTools)
	if config != nil && config.ForceTool != "" {
		c.model.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingAny,
				AllowedFunctionNames: []string{config.ForceTool},
			},
		}
	} else {
		c.model.ToolConfig = nil
	}
}

func toGeminiTools(defs []tools.Tool) []*genai.Tool {
	var geminiTools []*genai.Tool
	for _, t := range defs {
		geminiTools = append(geminiTools, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  toGeminiSchema(t.Function.Parameters),
			}},
		})
	}
	return geminiTools
}

func toGeminiSchema(s tools.JSONSchema) *genai.Schema {
	schema := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Type {
	case "object":
		schema.Type = genai.TypeObject
	case "string":
		schema.Type = genai.TypeString
	case "number":
		schema.Type = genai.TypeNumber
	case "integer":
		schema.Type = genai.TypeInteger
	case "boolean":
		schema.Type = genai.TypeBoolean
	}
	if s.Properties != nil {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			schema.Properties[name] = toGeminiSchema(*prop)
		}
	}
	return schema
}

// toGeminiHistory maps the conversation onto Gemini's two-role chat model.
// Tool results have no native role in this SDK's chat history, so they are
// folded in as user-side function output text; the final prompt is excluded
// because SendMessage carries it.
func toGeminiHistory(messages []Message) []*genai.Content {
	var history []*genai.Content
	for _, msg := range messages[:len(messages)-1] {
		role := "user"
		content := msg.Content
		switch msg.Role {
		case RoleAssistant:
			role = "model"
		case RoleTool:
			content = fmt.Sprintf("[tool result] %s", msg.Content)
		}
		if content == "" {
			continue
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(content)},
		})
	}
	return history
}

func parseGeminiResponse(resp *genai.GenerateContentResponse) (*GenerationResult, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("no content returned from Gemini")
	}

	var sb strings.Builder
	var toolCalls []*tools.ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			sb.WriteString(string(v))
		case genai.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				continue
			}
			toolCalls = append(toolCalls, &tools.ToolCall{
				ID:   fmt.Sprintf("gemini-toolcall-%s", v.Name),
				Type: tools.ToolTypeFunction,
				Function: tools.ToolCallFunction{
					Name:      v.Name,
					Arguments: string(args),
				},
			})
		}
	}

	result := &GenerationResult{
		Content:   strings.TrimSpace(sb.String()),
		ToolCalls: toolCalls,
	}
	if resp.UsageMetadata != nil {
		result.Usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.Usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.Usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return result, nil
}
