package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	agent "github.com/Protocol-Lattice/curling-agent"
	"github.com/Protocol-Lattice/curling-agent/pkg/config"
	"github.com/Protocol-Lattice/curling-agent/src/models"
)

func TestREPLCommands(t *testing.T) {
	llm := models.NewScriptedLLM("Final Answer: Curling began in 16th-century Scotland.")
	bot, err := agent.New(context.Background(), agent.Options{Model: llm})
	if err != nil {
		t.Fatalf("agent.New: %v", err)
	}

	in := strings.NewReader("\nWhere did curling start?\nreset\nquit\nnever asked\n")
	var out bytes.Buffer
	repl(context.Background(), bot, in, &out)

	got := out.String()
	for _, want := range []string{
		"Bot: Curling began in 16th-century Scotland.",
		"Conversation history cleared",
		"Goodbye! Thanks for chatting about curling!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if llm.Calls() != 1 {
		t.Fatalf("model called %d times, want 1", llm.Calls())
	}
	if bot.Memory().Len() != 0 {
		t.Fatalf("reset should clear memory, got %d turns", bot.Memory().Len())
	}
}

func TestREPLStopsAtEOF(t *testing.T) {
	bot, _ := agent.New(context.Background(), agent.Options{Model: models.NewScriptedLLM("Final Answer: ok")})
	var out bytes.Buffer
	repl(context.Background(), bot, strings.NewReader("hello"), &out)
	if !strings.Contains(out.String(), "Bot: ok") {
		t.Fatalf("last line without newline should still be answered:\n%s", out.String())
	}
}

func TestBuildAgentWithDummyModel(t *testing.T) {
	cfg := config.Default()
	cfg.Model.Provider = "dummy"
	cfg.Search.Disabled = true

	bot, err := buildAgent(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildAgent: %v", err)
	}
	specs := bot.ToolSpecs()
	if len(specs) != 1 || specs[0].Name != "CurrentDate" {
		t.Fatalf("unexpected tools %+v", specs)
	}
	if got := bot.Chat(context.Background(), "What is a hack?"); !strings.HasPrefix(got, "Dummy response:") {
		t.Fatalf("Chat = %q", got)
	}
}

func TestTroubleshootingHints(t *testing.T) {
	var buf bytes.Buffer
	printTroubleshooting(&buf, config.Default())
	if !strings.Contains(buf.String(), "ollama pull llama3.2") || !strings.Contains(buf.String(), "http://localhost:11434") {
		t.Fatalf("unexpected hints:\n%s", buf.String())
	}
}
