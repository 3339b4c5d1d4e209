// In file: internal/version/version.go

// Package version centralizes component version strings used in cache keys.
// Bumping a component's version invalidates every cached response that was
// produced by the old logic, because the version string is part of the key.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComponentVersions holds the versions of the logical parts whose changes
// should invalidate cached responses. Increment manually before deploying a
// change to that component.
var ComponentVersions = struct {
	// Tools covers the tool implementations (search, calculator).
	Tools string
	// PromptLogic covers the system prompt and routing prompt templates.
	PromptLogic string
}{
	Tools:       "v1.0",
	PromptLogic: "v1.0",
}

// GenerateVersionedCacheKey builds a stable cache key from a prefix, a hash
// of the prompt, and the current component versions.
//
// Example: "llmcache:a1b2c3d4...:tv1.0_pv1.0"
func GenerateVersionedCacheKey(prefix, prompt string) string {
	hasher := sha256.New()
	hasher.Write([]byte(prompt))
	promptHash := hex.EncodeToString(hasher.Sum(nil))

	versionString := fmt.Sprintf("t%s_p%s", ComponentVersions.Tools, ComponentVersions.PromptLogic)
	return fmt.Sprintf("%s:%s:%s", prefix, promptHash, versionString)
}
