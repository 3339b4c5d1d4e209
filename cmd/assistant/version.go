// In file: cmd/assistant/version.go
package main

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X main.version=v1.2.3 -X main.gitCommit=$(git rev-parse --short HEAD)"
var (
	version   = "dev"
	gitCommit = "unknown"
)

// buildVersion is the single string printed in the startup banner.
func buildVersion() string {
	return fmt.Sprintf("%s (%s)", version, gitCommit)
}
