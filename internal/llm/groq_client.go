// In file: internal/llm/groq_client.go
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dileep-u-k/groq-assistant/internal/api"
	"github.com/dileep-u-k/groq-assistant/internal/tools"
)

const groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// groqRequest is the top-level payload for Groq's OpenAI-compatible
// chat-completions endpoint.
type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Tools       []groqTool    `json:"tools,omitempty"`
	ToolChoice  interface{}   `json:"tool_choice,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
	MaxTokens   int           `json:"max_completion_tokens,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
	TopP        *float32      `json:"top_p,omitempty"`
}

type groqMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []tools.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type groqTool struct {
	Type     string         `json:"type"`
	Function tools.Function `json:"function"`
}

// groqToolChoice is the object form of tool_choice used to pin the model to
// one specific function.
type groqToolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type groqResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
	Usage api.Usage `json:"usage"`
}

type groqStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content   string           `json:"content"`
			ToolCalls []tools.ToolCall `json:"tool_calls"`
		} `json:"delta"`
	} `json:"choices"`
}

// GroqClient talks to Groq's chat-completions API. Groq exposes the OpenAI
// wire format, so the payload structures above mirror that spec.
type GroqClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Statically verify that GroqClient implements the LLMClient interface.
var _ LLMClient = (*GroqClient)(nil)

// NewGroqClient creates a configured client for the Groq API.
func NewGroqClient(apiKey string) (*GroqClient, error) {
	if apiKey == "" {
		return nil, errors.New("groq API key cannot be empty")
	}
	return &GroqClient{
		apiKey:  apiKey,
		baseURL: groqAPIURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

// Generate performs a standard, blocking request to the Groq API.
func (c *GroqClient) Generate(
	ctx context.Context,
	messages []Message,
	config *GenerationConfig,
	availableTools []tools.Tool,
) (*GenerationResult, error) {
	payload, err := c.buildRequestPayload(messages, config, availableTools, false)
	if err != nil {
		return nil, fmt.Errorf("failed to build groq request payload: %w", err)
	}

	respBody, err := c.doRequest(ctx, payload)
	if err != nil {
		return nil, err
	}

	return parseGroqResponse(respBody)
}

// GenerateStream performs a streaming request to the Groq API.
func (c *GroqClient) GenerateStream(
	ctx context.Context,
	messages []Message,
	config *GenerationConfig,
	availableTools []tools.Tool,
) (<-chan *StreamingResult, error) {
	payload, err := c.buildRequestPayload(messages, config, availableTools, true)
	if err != nil {
		return nil, fmt.Errorf("failed to build groq stream payload: %w", err)
	}

	respBody, err := c.doRequestStream(ctx, payload)
	if err != nil {
		return nil, err
	}

	outChan := make(chan *StreamingResult)
	go c.processStream(respBody, outChan)
	return outChan, nil
}

// buildRequestPayload converts the internal message and tool formats into
// Groq's wire format.
func (c *GroqClient) buildRequestPayload(messages []Message, config *GenerationConfig, availableTools []tools.Tool, stream bool) (*bytes.Buffer, error) {
	req := groqRequest{
		Model:    config.Model,
		Messages: toGroqMessages(messages),
		Tools:    toGroqTools(availableTools),
		Stream:   stream,
	}

	if config.MaxTokens > 0 {
		req.MaxTokens = config.MaxTokens
	}
	if config.Temperature != nil {
		req.Temperature = config.Temperature
	}
	if config.TopP != nil {
		req.TopP = config.TopP
	}

	// tool_choice is only valid when tools are attached. The router may pin
	// the model to one specific function; otherwise the model chooses.
	if len(req.Tools) > 0 {
		if config.ForceTool != "" {
			choice := groqToolChoice{Type: tools.ToolTypeFunction}
			choice.Function.Name = config.ForceTool
			req.ToolChoice = choice
		} else {
			req.ToolChoice = "auto"
		}
	}

	payloadBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}
	return bytes.NewBuffer(payloadBytes), nil
}

// doRequest performs the HTTP call with retries for non-streaming requests.
// Client errors (4xx) are not retried; everything else backs off and tries
// again up to maxRetries.
func (c *GroqClient) doRequest(ctx context.Context, payload *bytes.Buffer) ([]byte, error) {
	var lastErr error
	delay := initialRetryDelay

	for i := 0; i < maxRetries; i++ {
		req, err := c.createRequest(ctx, bytes.NewReader(payload.Bytes()))
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", i+1, maxRetries, err)
			time.Sleep(delay)
			delay *= 2
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		lastErr = fmt.Errorf("groq API error (attempt %d/%d): status %d, body: %s", i+1, maxRetries, resp.StatusCode, string(body))

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, lastErr
		}

		time.Sleep(delay)
		delay *= 2
	}
	return nil, lastErr
}

// doRequestStream prepares and executes the HTTP request for streaming.
func (c *GroqClient) doRequestStream(ctx context.Context, payload *bytes.Buffer) (io.ReadCloser, error) {
	req, err := c.createRequest(ctx, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to start stream request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("groq API stream error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return resp.Body, nil
}

func (c *GroqClient) createRequest(ctx context.Context, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

// processStream reads the Server-Sent Events stream and forwards chunks.
func (c *GroqClient) processStream(body io.ReadCloser, outChan chan<- *StreamingResult) {
	defer body.Close()
	defer close(outChan)

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return
		}

		var chunk groqStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			outChan <- &StreamingResult{Err: fmt.Errorf("error unmarshalling stream chunk: %w", err)}
			return
		}

		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		result := &StreamingResult{ContentDelta: delta.Content}
		if len(delta.ToolCalls) > 0 {
			tc := delta.ToolCalls[0]
			result.ToolCallChunk = &tools.ToolCall{
				ID:   tc.ID,
				Type: tools.ToolTypeFunction,
				Function: tools.ToolCallFunction{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
		outChan <- result
	}

	if err := scanner.Err(); err != nil {
		outChan <- &StreamingResult{Err: fmt.Errorf("error reading stream: %w", err)}
	}
}

func toGroqMessages(messages []Message) []groqMessage {
	groqMsgs := make([]groqMessage, 0, len(messages))
	for _, msg := range messages {
		m := groqMessage{Role: string(msg.Role), Content: msg.Content}

		switch msg.Role {
		case RoleTool:
			m.ToolCallID = msg.ToolCallID
		case RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				m.ToolCalls = make([]tools.ToolCall, len(msg.ToolCalls))
				for i, tc := range msg.ToolCalls {
					m.ToolCalls[i] = *tc
				}
			}
		}
		groqMsgs = append(groqMsgs, m)
	}
	return groqMsgs
}

func toGroqTools(availableTools []tools.Tool) []groqTool {
	if len(availableTools) == 0 {
		return nil
	}
	groqTools := make([]groqTool, 0, len(availableTools))
	for _, tool := range availableTools {
		groqTools = append(groqTools, groqTool{
			Type:     tools.ToolTypeFunction,
			Function: tool.Function,
		})
	}
	return groqTools
}

func parseGroqResponse(body []byte) (*GenerationResult, error) {
	var groqResp groqResponse
	if err := json.Unmarshal(body, &groqResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal groq response: %w", err)
	}
	if len(groqResp.Choices) == 0 {
		return nil, errors.New("no choices returned from Groq")
	}

	choice := groqResp.Choices[0]
	result := &GenerationResult{
		Content: choice.Message.Content,
		Usage:   groqResp.Usage,
	}

	if len(choice.Message.ToolCalls) > 0 {
		result.ToolCalls = make([]*tools.ToolCall, 0, len(choice.Message.ToolCalls))
		for _, tc := range choice.Message.ToolCalls {
			result.ToolCalls = append(result.ToolCalls, &tools.ToolCall{
				ID:   tc.ID,
				Type: tools.ToolTypeFunction,
				Function: tools.ToolCallFunction{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
	}

	return result, nil
}
