// In file: cmd/assistant/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dileep-u-k/groq-assistant/internal/agent"
	"github.com/dileep-u-k/groq-assistant/internal/cache"
	"github.com/dileep-u-k/groq-assistant/internal/llm"
	"github.com/dileep-u-k/groq-assistant/internal/logging"
	"github.com/dileep-u-k/groq-assistant/internal/tools"
)

// main is the entry point for the application. Its primary role is the
// "Composition Root": it loads configuration, initializes all services,
// injects dependencies, and runs the interactive loop.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 Starting Groq Assistant | Version: %s", buildVersion())

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	// 2. INITIALIZE SERVICES
	logger, err := logging.New(cfg.LogDir, os.Stderr)
	if err != nil {
		log.Fatalf("❌ FATAL: Could not open log files: %v", err)
	}
	defer logger.Close()

	ctx := context.Background()

	primaryClient, err := initializeClient(cfg, cfg.PrimaryModel)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}
	routerClient, err := initializeClient(cfg, cfg.RouterConfig.Model)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	toolManager, err := initializeToolManager(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	var responseCache *cache.ResponseCache
	if cfg.RedisAddr != "" {
		responseCache, err = cache.New(ctx, cfg.RedisAddr, cfg.CacheTTL, logger)
		if err != nil {
			log.Printf("WARNING: Response cache disabled: %v", err)
		} else {
			defer responseCache.Close()
			log.Println("✅ Response cache connected.")
		}
	}

	router := llm.NewQueryRouter(routerClient, cfg.RouterConfig, logger)
	detector := llm.NewToolCallDetector(toolNames(toolManager)...)

	assistant := agent.New(primaryClient, router, detector, toolManager, responseCache, logger, agent.Config{
		PrimaryModel: cfg.PrimaryModel,
		GeneralModel: cfg.GeneralModel,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
	})
	log.Println("✅ All services initialized.")
	log.Printf("📝 Session log: %s", logger.SessionPath())

	// 3. RUN THE INTERACTIVE LOOP
	runInteractiveLoop(ctx, assistant, logger)
}

// initializeClient selects the provider for a model ID by prefix. Groq
// serves every model it hosts; gemini-* models go to Google's API.
func initializeClient(cfg *AppConfig, modelID string) (llm.LLMClient, error) {
	if strings.HasPrefix(modelID, "gemini") {
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("model %s requires GEMINI_API_KEY", modelID)
		}
		client, err := llm.NewGeminiClient(cfg.GeminiAPIKey, modelID)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for %s: %w", modelID, err)
		}
		return client, nil
	}

	client, err := llm.NewGroqClient(cfg.GroqAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", modelID, err)
	}
	return client, nil
}

// initializeToolManager creates and registers all available tools. The
// calculator is always on; web search needs Google credentials.
func initializeToolManager(ctx context.Context, cfg *AppConfig) (*tools.Manager, error) {
	manager := tools.NewManager()
	manager.Register(tools.NewCalculatorTool())

	if cfg.GoogleSearchAPIKey != "" && cfg.GoogleCSEID != "" {
		searchTool, err := tools.NewSearchTool(ctx, cfg.GoogleSearchAPIKey, cfg.GoogleCSEID, cfg.SearchResultCount)
		if err != nil {
			return nil, fmt.Errorf("failed to create search tool: %w", err)
		}
		manager.Register(searchTool)
	} else {
		log.Println("WARNING: GOOGLE_SEARCH_API_KEY or GOOGLE_CSE_ID not set, web search disabled.")
	}

	log.Printf("✅ Tool Manager initialized with %d tools.", manager.ToolCount())
	return manager, nil
}

func toolNames(manager *tools.Manager) []string {
	defs := manager.Definitions()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Function.Name)
	}
	return names
}

// runInteractiveLoop reads user input line by line until an exit phrase,
// EOF, or an interrupt signal.
func runInteractiveLoop(ctx context.Context, assistant *agent.Agent, logger *logging.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Println("\nGoodbye!")
		logger.Infof("session ended by signal")
		logger.Close()
		os.Exit(0)
	}()

	fmt.Println("Assistant ready. Type 'exit', 'quit' or 'bye' to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isExitPhrase(input) {
			break
		}

		result := assistant.RunTurn(ctx, input)
		for _, line := range result.Feedback {
			fmt.Printf("[System] %s\n", line)
		}
		fmt.Printf("Assistant: %s\n\n", result.Content)
	}

	fmt.Println("Goodbye!")
	logger.Infof("session ended")
}

func isExitPhrase(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "bye":
		return true
	}
	return false
}
