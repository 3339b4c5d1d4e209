// In file: internal/api/types.go

// Package api holds the shared value types exchanged between the assistant's
// components: token accounting and the cached shape of a finished turn.
package api

import "time"

// Usage holds token statistics for one or more model calls.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another usage record into this one. A turn with a tool
// call makes two model calls, so usage is summed across them.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// CachedTurn is the serialized form of a completed turn stored in the
// response cache.
type CachedTurn struct {
	Content   string    `json:"content"`
	ModelUsed string    `json:"model_used"`
	Usage     Usage     `json:"usage"`
	CachedAt  time.Time `json:"cached_at"`
}
