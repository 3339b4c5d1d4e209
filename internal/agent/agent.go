// In file: internal/agent/agent.go

// Package agent implements the conversation loop: route the query, call the
// primary model, detect and execute tool calls, feed results back, and
// return the final answer. One turn is fully processed before the next is
// accepted; there is no concurrency here by design.
package agent

import (
	"context"
	"fmt"

	"github.com/dileep-u-k/groq-assistant/internal/api"
	"github.com/dileep-u-k/groq-assistant/internal/cache"
	"github.com/dileep-u-k/groq-assistant/internal/llm"
	"github.com/dileep-u-k/groq-assistant/internal/logging"
	"github.com/dileep-u-k/groq-assistant/internal/tools"
)

// systemPrompt steers the model toward the structured tool-call mechanism.
// The text-pattern detector exists precisely because models do not always
// comply with this.
const systemPrompt = `You are a helpful AI assistant with web search and calculation capabilities.

IMPORTANT: When you need current information or facts, use the web_search function by calling it properly, NOT by writing it as text.
DO NOT write things like '<function=web_search>' or 'I'll use web_search' in your response.
Instead, use the provided function calling mechanism to actually invoke the tool.

Similarly, for calculations, use the calculate function properly through function calling.

Remember:
- For current information: Use web_search function
- For calculations: Use calculate function
- For questions you can answer from your knowledge: Just respond directly`

const degradedFirstCallMessage = "I encountered an error processing your request. Please try again."
const degradedSecondCallMessage = "I encountered an error processing the tool results. Please try again."

// Config holds the per-call generation settings for the conversation loop.
type Config struct {
	// PrimaryModel handles turns where a tool was routed.
	PrimaryModel string
	// GeneralModel handles plain conversational turns.
	GeneralModel string
	Temperature  float32
	MaxTokens    int
}

// TurnResult is what one completed user turn produces.
type TurnResult struct {
	Content   string
	ModelUsed string
	Usage     api.Usage
	// Feedback carries user-visible progress lines ("Routing decision: ...")
	// printed by the CLI between the question and the answer.
	Feedback []string
	// Cached is true when the answer came from the response cache.
	Cached bool
}

// Agent owns the conversation history and orchestrates a turn. The history
// is append-only: user input, assistant tool calls, tool results, and final
// answers are added in order and never rewritten.
type Agent struct {
	client   llm.LLMClient
	router   *llm.QueryRouter
	detector *llm.ToolCallDetector
	tools    *tools.Manager
	cache    *cache.ResponseCache
	logger   *logging.Logger
	config   Config

	history []llm.Message
}

// New creates an agent with a history seeded by the system prompt. The
// response cache may be nil, in which case every lookup misses.
func New(client llm.LLMClient, router *llm.QueryRouter, detector *llm.ToolCallDetector, toolManager *tools.Manager, responseCache *cache.ResponseCache, logger *logging.Logger, config Config) *Agent {
	return &Agent{
		client:   client,
		router:   router,
		detector: detector,
		tools:    toolManager,
		cache:    responseCache,
		logger:   logger,
		config:   config,
		history:  []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}},
	}
}

// HistoryLen returns the current number of history records.
func (a *Agent) HistoryLen() int {
	return len(a.history)
}

// RunTurn processes one user input to completion. It never returns an error
// for upstream failures; those degrade into an apologetic answer so the
// loop can continue.
func (a *Agent) RunTurn(ctx context.Context, input string) *TurnResult {
	a.logger.Infof("USER INPUT: %s", input)
	a.logger.Separator()

	result := &TurnResult{}

	firstTurn := len(a.history) == 1
	a.history = append(a.history, llm.Message{Role: llm.RoleUser, Content: input})
	a.logConversationState()

	// Only the first turn of a session is cacheable; later turns depend on
	// conversation state.
	if firstTurn {
		if cached, ok := a.cache.Check(ctx, input); ok {
			a.logger.Infof("response cache HIT")
			result.Feedback = append(result.Feedback, "Response cache hit")
			result.Content = cached.Content
			result.ModelUsed = cached.ModelUsed
			result.Usage = cached.Usage
			result.Cached = true
			a.history = append(a.history, llm.Message{Role: llm.RoleAssistant, Content: cached.Content})
			return result
		}
	}

	decision := a.router.Route(ctx, input)
	result.Feedback = append(result.Feedback, fmt.Sprintf("Routing decision: %s", decision))
	a.logger.Infof("routing decision: %s", decision)

	modelID := a.config.GeneralModel
	if decision.NeedsTool() {
		modelID = a.config.PrimaryModel
	}
	result.ModelUsed = modelID

	temperature := a.config.Temperature
	firstConfig := &llm.GenerationConfig{
		Model:       modelID,
		Temperature: &temperature,
		MaxTokens:   a.config.MaxTokens,
	}
	if suggested := decision.SuggestedTools(); len(suggested) == 1 {
		firstConfig.ForceTool = suggested[0]
		result.Feedback = append(result.Feedback, fmt.Sprintf("Directing model to use %s", suggested[0]))
		a.logger.Infof("directing model to use %s", suggested[0])
	}

	// Tool schemas ride along only when routing suggested a tool. A no-tool
	// turn is plain conversation; the detector still guards against the
	// model inventing a textual tool call anyway.
	var definitions []tools.Tool
	if decision.NeedsTool() {
		definitions = a.tools.Definitions()
	}
	a.logModelRequest(modelID, definitions, firstConfig.ForceTool)

	first, err := a.client.Generate(ctx, a.history, firstConfig, definitions)
	if err != nil {
		a.logger.Errorf("first model call failed: %v", err)
		result.Feedback = append(result.Feedback, fmt.Sprintf("Error in API call: %v", err))
		result.Content = degradedFirstCallMessage
		return result
	}
	result.Usage.Add(first.Usage)
	a.logModelResponse(modelID, first)

	switch {
	case len(first.ToolCalls) > 0:
		a.runStructuredToolCalls(ctx, first, result)

	case a.detectAndRunTextToolCall(ctx, first.Content, result):
		// handled inside; feedback and second call already done.

	case decision.NeedsTool():
		a.forceToolUsage(ctx, decision, input, first.Content, result)

	default:
		a.history = append(a.history, llm.Message{Role: llm.RoleAssistant, Content: first.Content})
		result.Content = first.Content
		a.logger.Infof("ASSISTANT RESPONSE: %s", logging.Truncate(first.Content, 500))
		a.logger.Separator()
	}

	if firstTurn && !result.Cached && result.Content != degradedFirstCallMessage && result.Content != degradedSecondCallMessage {
		a.cache.Store(ctx, input, &api.CachedTurn{
			Content:   result.Content,
			ModelUsed: result.ModelUsed,
			Usage:     result.Usage,
		})
	}

	return result
}

// runStructuredToolCalls executes every tool call from a single model turn,
// records each result in history, and issues the follow-up call. Exactly
// one round: follow-up responses are taken as final text even if they try
// to call tools again.
func (a *Agent) runStructuredToolCalls(ctx context.Context, first *llm.GenerationResult, result *TurnResult) {
	a.history = append(a.history, llm.Message{
		Role:      llm.RoleAssistant,
		Content:   first.Content,
		ToolCalls: first.ToolCalls,
	})

	for _, call := range first.ToolCalls {
		a.appendFeedbackForCall(result, call.Function.Name, call.Function.Arguments, "")
		toolResult := a.tools.Execute(call.Function.Name, call.Function.Arguments)
		a.logToolUsage(toolResult, call.Function.Arguments)
		a.history = append(a.history, llm.Message{
			Role:       llm.RoleTool,
			ToolCallID: call.ID,
			Content:    toolResult.Content,
		})
	}

	a.finishWithSecondCall(ctx, result)
}

// detectAndRunTextToolCall is the regex fallback path. When the model wrote
// a tool invocation as prose, the text is converted into a proper tool-call
// message (the prose itself never enters history) and executed. Returns
// false when no textual call was found.
func (a *Agent) detectAndRunTextToolCall(ctx context.Context, content string, result *TurnResult) bool {
	detected := a.detector.Detect(content)
	if detected == nil {
		return false
	}

	a.logger.Debugf("detected text-based tool call: %s from %q", detected.ToolName, logging.Truncate(detected.OriginalText, 200))
	a.appendFeedbackForCall(result, detected.ToolName, detected.Arguments, "via text pattern")
	result.Feedback = append(result.Feedback, "Converting text pattern to proper tool call")

	callID := fmt.Sprintf("manual_%s_call", detected.ToolName)
	a.executeAsToolCall(callID, detected.ToolName, detected.Arguments)
	a.finishWithSecondCall(ctx, result)
	return true
}

// forceToolUsage handles the case where routing suggested tools but the
// model used none, structured or textual. Only web_search can be forced
// (with the raw user query); an expression for calculate cannot be
// synthesized safely, so that case falls back to the plain answer.
func (a *Agent) forceToolUsage(ctx context.Context, decision llm.RoutingDecision, input, content string, result *TurnResult) {
	primary := decision.SuggestedTools()[0]
	if primary != "web_search" {
		result.Feedback = append(result.Feedback, "Could not force calculator usage without a valid expression")
		a.logger.Infof("could not force calculator usage without a valid expression")
		a.history = append(a.history, llm.Message{Role: llm.RoleAssistant, Content: content})
		result.Content = content
		return
	}

	result.Feedback = append(result.Feedback, "Suggested tools were not used. Forcing tool usage...")
	result.Feedback = append(result.Feedback, fmt.Sprintf("Forcing WebSearch, query is %q", input))
	a.logger.Infof("forcing web_search with query %q", input)

	args := fmt.Sprintf(`{"query": %q}`, input)
	a.executeAsToolCall("forced_web_search_call", "web_search", args)
	a.finishWithSecondCall(ctx, result)
}

// executeAsToolCall synthesizes an assistant tool-call message, runs the
// tool, and appends the result — the same history shape a structured call
// produces.
func (a *Agent) executeAsToolCall(callID, toolName, arguments string) {
	a.history = append(a.history, llm.Message{
		Role: llm.RoleAssistant,
		ToolCalls: []*tools.ToolCall{{
			ID:   callID,
			Type: tools.ToolTypeFunction,
			Function: tools.ToolCallFunction{
				Name:      toolName,
				Arguments: arguments,
			},
		}},
	})

	toolResult := a.tools.Execute(toolName, arguments)
	a.logToolUsage(toolResult, arguments)
	a.history = append(a.history, llm.Message{
		Role:       llm.RoleTool,
		ToolCallID: callID,
		Content:    toolResult.Content,
	})
}

// finishWithSecondCall issues the follow-up model call over the augmented
// history and appends the final answer. Every tool result is already in
// history before this runs.
func (a *Agent) finishWithSecondCall(ctx context.Context, result *TurnResult) {
	a.logger.Debugf("making second model call with tool results")

	temperature := a.config.Temperature
	config := &llm.GenerationConfig{
		Model:       a.config.PrimaryModel,
		Temperature: &temperature,
		MaxTokens:   a.config.MaxTokens,
	}
	result.ModelUsed = a.config.PrimaryModel

	second, err := a.client.Generate(ctx, a.history, config, nil)
	if err != nil {
		a.logger.Errorf("second model call failed: %v", err)
		result.Feedback = append(result.Feedback, fmt.Sprintf("Error in second API call: %v", err))
		result.Content = degradedSecondCallMessage
		return
	}
	result.Usage.Add(second.Usage)

	a.history = append(a.history, llm.Message{Role: llm.RoleAssistant, Content: second.Content})
	result.Content = second.Content
	a.logger.Infof("ASSISTANT RESPONSE: %s", logging.Truncate(second.Content, 500))
	a.logger.Separator()
}

// --- logging helpers ---

func (a *Agent) appendFeedbackForCall(result *TurnResult, toolName, arguments, suffix string) {
	label := "tool"
	switch toolName {
	case "web_search":
		label = "WebSearch"
	case "calculate":
		label = "Calculator"
	}
	line := fmt.Sprintf("Assistant is using %s", label)
	if suffix != "" {
		line += " " + suffix
	}
	line += fmt.Sprintf(", arguments: %s", arguments)
	result.Feedback = append(result.Feedback, line)
	a.logger.Infof("%s", line)
}

func (a *Agent) logModelRequest(modelID string, definitions []tools.Tool, forceTool string) {
	a.logger.Debugf("REQUEST TO MODEL: %s", modelID)
	for _, msg := range a.history {
		content := msg.Content
		if content == "" && len(msg.ToolCalls) > 0 {
			content = fmt.Sprintf("[TOOL CALLS: %d]", len(msg.ToolCalls))
		}
		a.logger.Debugf("  [%s]: %s", msg.Role, logging.Truncate(content, 500))
	}
	for _, def := range definitions {
		a.logger.Debugf("  tool: %s - %s", def.Function.Name, def.Function.Description)
	}
	if forceTool != "" {
		a.logger.Debugf("  tool_choice: %s", forceTool)
	}
	a.logger.Separator()
}

func (a *Agent) logModelResponse(modelID string, result *llm.GenerationResult) {
	a.logger.Debugf("RESPONSE FROM MODEL: %s", modelID)
	a.logger.Debugf("  content: %s", logging.Truncate(result.Content, 500))
	for _, call := range result.ToolCalls {
		a.logger.Debugf("  tool call: %s(%s)", call.Function.Name, logging.Truncate(call.Function.Arguments, 200))
	}
	a.logger.Separator()
}

func (a *Agent) logToolUsage(result tools.ToolResult, arguments string) {
	a.logger.Debugf("TOOL EXECUTION: %s", result.ToolName)
	a.logger.Debugf("  arguments: %s", logging.Truncate(arguments, 500))
	a.logger.Debugf("  status: %s", result.Status)
	a.logger.Debugf("  result: %s", logging.Truncate(result.Content, 500))
	a.logger.Separator()
}

func (a *Agent) logConversationState() {
	a.logger.Debugf("CURRENT CONVERSATION STATE:")
	for i, msg := range a.history {
		content := msg.Content
		if content == "" && len(msg.ToolCalls) > 0 {
			content = fmt.Sprintf("[TOOL CALLS: %d]", len(msg.ToolCalls))
		}
		a.logger.Debugf("  %d. [%s]: %s", i, msg.Role, logging.Truncate(content, 500))
	}
	a.logger.Separator()
}
