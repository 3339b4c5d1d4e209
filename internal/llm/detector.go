// In file: internal/llm/detector.go
package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models sometimes write a tool invocation as plain prose instead of using
// the structured tool-call mechanism ("<function=web_search ...>", "Let me
// calculate ..."). The detector is the best-effort secondary path that
// recognizes those and converts them into proper calls. It only ever runs
// after the structured path came up empty, and a miss is not an error.

// DetectedToolCall is a tool invocation recovered from free-form text.
type DetectedToolCall struct {
	ToolName     string
	Arguments    string // JSON object string, as a structured call would carry
	OriginalText string
}

var (
	// Explicit invocation formats, checked in order. Each captures a tool
	// name and an argument blob.
	functionBracketRe = regexp.MustCompile(`(?is)<function=(\w+)\s+\[(.*?)\]`)
	functionBraceRe   = regexp.MustCompile(`(?is)<function=(\w+)\s+(\{.*?\})>`)
	functionWordRe    = regexp.MustCompile(`(?is)function\s+(\w+)\(([^)]*)\)`)
	bareCallRe        = regexp.MustCompile(`(?is)(\w+)\(([^)]*)\)`)
	toolTagRe         = regexp.MustCompile(`(?is)<tool:(\w+)[^>]*>([^<]*)</tool>`)
	usingToolRe       = regexp.MustCompile(`(?is)Using (\w+) to (?:search|query|calculate) (?:for )?"([^"]*)"`)
	letMeUseRe        = regexp.MustCompile(`(?is)Let me use (\w+)[^\n]+"([^"]+)"`)

	// Conversational phrasings with a fixed tool.
	illSearchRe       = regexp.MustCompile(`(?i)I'll search (?:for|about) ["']([^"']+)["']`)
	letMeVerbRe       = regexp.MustCompile(`(?i)Let me (search|calculate) ["']([^"']+)["']`)
	searchIndicatorRe = regexp.MustCompile(`(?i)(?:I (?:need to|should|will) search for|Let me search for|I would need to look up) (.*?)[.\n]`)

	// Argument extraction from the captured blob.
	queryArgRe  = regexp.MustCompile(`"query":\s*"([^"]+)"`)
	exprArgRe   = regexp.MustCompile(`"expression":\s*"([^"]+)"`)
	quotedArgRe = regexp.MustCompile(`"([^"]+)"`)
)

// toolNameAliases maps model-invented variations onto registered names.
var toolNameAliases = map[string]string{
	"websearch":    "web_search",
	"search":       "web_search",
	"googlesearch": "web_search",
	"calc":         "calculate",
	"calculator":   "calculate",
}

// ToolCallDetector scans assistant text for tool invocations written as
// prose. Only calls naming a registered tool are reported.
type ToolCallDetector struct {
	known map[string]bool
}

func NewToolCallDetector(knownTools ...string) *ToolCallDetector {
	known := make(map[string]bool, len(knownTools))
	for _, name := range knownTools {
		known[name] = true
	}
	return &ToolCallDetector{known: known}
}

// Detect returns the first recognizable tool call in text, or nil.
func (d *ToolCallDetector) Detect(text string) *DetectedToolCall {
	if text == "" {
		return nil
	}

	for _, re := range []*regexp.Regexp{
		functionBracketRe,
		functionBraceRe,
		functionWordRe,
		bareCallRe,
		toolTagRe,
		usingToolRe,
		letMeUseRe,
	} {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if call := d.resolveNamedMatch(match); call != nil {
			return call
		}
	}

	if match := illSearchRe.FindStringSubmatch(text); match != nil {
		return d.buildCall("web_search", match[1], match[0])
	}

	if match := letMeVerbRe.FindStringSubmatch(text); match != nil {
		name := "web_search"
		if strings.EqualFold(match[1], "calculate") {
			name = "calculate"
		}
		return d.buildCall(name, match[2], match[0])
	}

	// Weakest signal last: a stated intent to search with no quoted query.
	if match := searchIndicatorRe.FindStringSubmatch(text); match != nil {
		return d.buildCall("web_search", strings.Trim(strings.TrimSpace(match[1]), `"'`), match[0])
	}

	return nil
}

// resolveNamedMatch handles patterns that capture an arbitrary tool name and
// an argument blob. Unknown names are skipped so that e.g. "f(x)" prose does
// not trigger a call.
func (d *ToolCallDetector) resolveNamedMatch(match []string) *DetectedToolCall {
	name := strings.ToLower(match[1])
	if alias, ok := toolNameAliases[name]; ok {
		name = alias
	}
	if !d.known[name] {
		return nil
	}
	return d.buildCall(name, extractArgument(name, match[2]), match[0])
}

// extractArgument pulls the single string argument out of whatever format
// the model produced: a proper JSON field, any quoted string, or the raw
// blob with decoration stripped.
func extractArgument(toolName, blob string) string {
	keyed := quotedArgRe
	switch toolName {
	case "web_search":
		keyed = queryArgRe
	case "calculate":
		keyed = exprArgRe
	}
	if m := keyed.FindStringSubmatch(blob); m != nil {
		return m[1]
	}
	if m := quotedArgRe.FindStringSubmatch(blob); m != nil {
		return m[1]
	}
	return strings.Trim(strings.TrimSpace(blob), `"'{}[] `)
}

func (d *ToolCallDetector) buildCall(toolName, value, original string) *DetectedToolCall {
	if value == "" {
		return nil
	}
	key := "query"
	if toolName == "calculate" {
		key = "expression"
	}
	args, _ := json.Marshal(map[string]string{key: value})
	return &DetectedToolCall{
		ToolName:     toolName,
		Arguments:    string(args),
		OriginalText: original,
	}
}
