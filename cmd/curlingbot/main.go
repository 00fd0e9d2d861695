package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	agent "github.com/Protocol-Lattice/curling-agent"
	"github.com/Protocol-Lattice/curling-agent/pkg/config"
	"github.com/Protocol-Lattice/curling-agent/pkg/search"
	"github.com/Protocol-Lattice/curling-agent/pkg/tools"
	"github.com/Protocol-Lattice/curling-agent/src/memory"
	"github.com/Protocol-Lattice/curling-agent/src/models"
	utcp "github.com/universal-tool-calling-protocol/go-utcp"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	modelName := flag.String("model", "", "Model name (e.g. llama3.2, llama3.1, mistral, phi3, gemma2)")
	provider := flag.String("provider", "", "Model provider: ollama, openai, anthropic, gemini")
	temperature := flag.Float64("temperature", -1, "Sampling temperature between 0 and 1")
	verbose := flag.Bool("verbose", false, "Log every reasoning step")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *modelName != "" {
		cfg.Model.Name = *modelName
	}
	if *provider != "" {
		cfg.Model.Provider = models.NormalizeProvider(*provider)
	}
	if *temperature >= 0 {
		cfg.Model.Temperature = temperature
	}
	if *verbose {
		cfg.Agent.Verbose = true
	}
	if err := config.Validate(&cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Curling Chatbot - CLI Mode")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("\nInitializing chatbot...")

	bot, err := buildAgent(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to initialize chatbot: %v\n", err)
		printTroubleshooting(os.Stderr, cfg)
		os.Exit(1)
	}

	fmt.Printf("\nChatbot ready (%s/%s)! Ask me anything about curling.\n", cfg.Model.Provider, cfg.Model.Name)
	fmt.Println("Commands: 'quit' to exit, 'reset' to clear history")
	fmt.Println()

	repl(ctx, bot, os.Stdin, os.Stdout)
}

func buildAgent(ctx context.Context, cfg config.Config) (*agent.Agent, error) {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	llm, err := models.NewLLMProvider(ctx, cfg.Profile())
	if err != nil {
		return nil, err
	}

	var toolset []agent.Tool
	if !cfg.Search.Disabled {
		provider, err := search.New(cfg.Search.Provider)
		if err != nil {
			return nil, err
		}
		toolset = append(toolset, tools.NewSearchTool(provider,
			tools.WithMaxResults(cfg.Search.MaxResults),
			tools.WithSearchCache(cfg.Search.CacheSize, cfg.Search.CacheTTL),
			tools.WithSearchLogger(logger),
		))
	}
	toolset = append(toolset, tools.NewDateTool())

	if path := strings.TrimSpace(cfg.UTCP.ProvidersFile); path != "" {
		client, err := utcp.NewUTCPClient(ctx, &utcp.UtcpClientConfig{ProvidersFilePath: path}, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("load utcp providers: %w", err)
		}
		remote, err := agent.LoadUTCPTools(client, cfg.UTCP.ToolQuery, cfg.UTCP.MaxTools)
		if err != nil {
			return nil, err
		}
		logger.Printf("[UTCP] registered %d tool(s) from %s", len(remote), path)
		toolset = append(toolset, remote...)
	}

	template, err := agent.LoadTemplate(cfg.Agent.PromptTemplate)
	if err != nil {
		return nil, err
	}

	earlyStop := agent.EarlyStopForce
	if cfg.Agent.EarlyStopping == "generate" {
		earlyStop = agent.EarlyStopGenerate
	}

	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return agent.New(healthCtx, agent.Options{
		Model:         llm,
		Memory:        memory.NewConversation(cfg.Agent.MemoryWindow),
		Tools:         toolset,
		Instructions:  cfg.Agent.Instructions,
		Template:      template,
		MaxIterations: cfg.Agent.MaxIterations,
		ModelTimeout:  cfg.Model.Timeout,
		ToolTimeout:   cfg.Agent.ToolTimeout,
		EarlyStopping: earlyStop,
		Verbose:       cfg.Agent.Verbose,
		Logger:        logger,
	})
}

func repl(ctx context.Context, bot *agent.Agent, in io.Reader, out io.Writer) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "You: ")
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			fmt.Fprintln(out, "\nGoodbye!")
			return
		}
		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Goodbye! Thanks for chatting about curling!")
			return
		case "reset":
			bot.Reset()
			fmt.Fprintln(out, "Conversation history cleared")
			continue
		}

		fmt.Fprintf(out, "\nBot: %s\n\n", bot.Chat(ctx, line))
		if ctx.Err() != nil {
			return
		}
	}
}

func printTroubleshooting(w io.Writer, cfg config.Config) {
	if cfg.Model.Provider != "ollama" {
		fmt.Fprintf(w, "\nCheck the API key and model name for provider %q.\n", cfg.Model.Provider)
		return
	}
	host := cfg.Model.Host
	if host == "" {
		host = "http://localhost:11434"
	}
	fmt.Fprintln(w, "\nTroubleshooting:")
	fmt.Fprintln(w, "1. Make sure Ollama is installed: https://ollama.ai")
	fmt.Fprintf(w, "2. Pull the model: ollama pull %s\n", cfg.Model.Name)
	fmt.Fprintf(w, "3. Check that Ollama is running at %s\n", host)
}
