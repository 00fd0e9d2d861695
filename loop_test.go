package agent

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/Protocol-Lattice/curling-agent/src/memory"
	"github.com/Protocol-Lattice/curling-agent/src/models"
)

const searchStep = "Thought: I should check the latest results.\nAction: WebSearch\nAction Input: curling world championship 2025"

func newTestLoop(model models.LLM) *Loop {
	return &Loop{Model: model, Instructions: "Talk about curling.", SessionID: "test-session"}
}

func TestLoopReturnsImmediateFinalAnswer(t *testing.T) {
	model := models.NewScriptedLLM("Thought: I know this.\nFinal Answer: Curling originated in Scotland.")
	out, err := newTestLoop(model).Run(context.Background(), "Where did curling start?", nil, nil, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Answer != "Curling originated in Scotland." || out.TerminatedBy != TerminatedFinalAnswer || out.StepsUsed != 0 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if model.Calls() != 1 {
		t.Fatalf("model called %d times, want 1", model.Calls())
	}
}

func TestLoopUsesToolThenAnswers(t *testing.T) {
	tool := newStubTool("WebSearch")
	tool.response = "1. **Worlds 2025**\n   Canada won gold."
	catalog := NewStaticToolCatalog([]Tool{tool})
	model := models.NewScriptedLLM(searchStep, "Thought: I now know the final answer\nFinal Answer: Canada won.")

	out, err := newTestLoop(model).Run(context.Background(), "Who won the 2025 worlds?", nil, catalog, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Answer != "Canada won." || out.StepsUsed != 1 || out.TerminatedBy != TerminatedFinalAnswer {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if tool.lastInput.Input != "curling world championship 2025" || tool.lastInput.SessionID != "test-session" {
		t.Fatalf("unexpected tool request %+v", tool.lastInput)
	}

	second := model.Prompts()[1]
	for _, want := range []string{
		"Action: WebSearch\nAction Input: curling world championship 2025",
		"Observation: 1. **Worlds 2025**",
		"I should check the latest results.",
	} {
		if !strings.Contains(second, want) {
			t.Errorf("second prompt missing %q:\n%s", want, second)
		}
	}
}

func TestLoopStopsAtIterationCap(t *testing.T) {
	tool := newStubTool("WebSearch")
	tool.response = "some results"
	catalog := NewStaticToolCatalog([]Tool{tool})
	model := models.NewScriptedLLM(searchStep)

	out, err := newTestLoop(model).Run(context.Background(), "Who won?", nil, catalog, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.TerminatedBy != TerminatedMaxIterations || out.StepsUsed != 3 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if model.Calls() != 3 || tool.calls != 3 {
		t.Fatalf("model calls = %d, tool calls = %d; want 3 and 3", model.Calls(), tool.calls)
	}
	if out.Answer != "I should check the latest results." {
		t.Fatalf("fallback answer = %q", out.Answer)
	}
}

func TestLoopRecoversFromUnknownTool(t *testing.T) {
	catalog := NewStaticToolCatalog([]Tool{newStubTool("WebSearch")})
	model := models.NewScriptedLLM(
		"Action: GoogleSearch\nAction Input: curling",
		"Final Answer: Curling is played on ice.",
	)

	out, err := newTestLoop(model).Run(context.Background(), "What is curling?", nil, catalog, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.TerminatedBy != TerminatedFinalAnswer {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !strings.Contains(model.Prompts()[1], "GoogleSearch is not a valid tool, try one of [WebSearch].") {
		t.Fatalf("second prompt lacks unknown tool observation:\n%s", model.Prompts()[1])
	}
}

func TestLoopUnknownToolUntilCap(t *testing.T) {
	model := models.NewScriptedLLM("Action: Nope\nAction Input: x")
	out, err := newTestLoop(model).Run(context.Background(), "q", nil, nil, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.TerminatedBy != TerminatedToolError || out.StepsUsed != 2 || out.Answer != UnableToAnswer {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestLoopFeedsBackToolErrors(t *testing.T) {
	tool := newStubTool("WebSearch")
	tool.err = errors.New("rate limited")
	model := models.NewScriptedLLM(searchStep, "Final Answer: I could not search, but curling uses 42 lb stones.")

	out, err := newTestLoop(model).Run(context.Background(), "q", nil, NewStaticToolCatalog([]Tool{tool}), 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.TerminatedBy != TerminatedFinalAnswer {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !strings.Contains(model.Prompts()[1], "Observation: Error: tool WebSearch failed: rate limited") {
		t.Fatalf("tool error not fed back:\n%s", model.Prompts()[1])
	}
}

func TestLoopCorrectsMalformedOutput(t *testing.T) {
	model := models.NewScriptedLLM("Curling is a winter sport.", "Final Answer: Curling is a winter sport.")
	out, err := newTestLoop(model).Run(context.Background(), "q", nil, nil, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.TerminatedBy != TerminatedFinalAnswer || out.StepsUsed != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	second := model.Prompts()[1]
	if !strings.Contains(second, "Curling is a winter sport.\nObservation: Invalid Format: Missing 'Action:' after 'Thought:'") {
		t.Fatalf("corrective observation missing:\n%s", second)
	}
}

func TestLoopParseFailureUntilCap(t *testing.T) {
	model := models.NewScriptedLLM("gibberish")
	out, err := newTestLoop(model).Run(context.Background(), "q", nil, nil, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.TerminatedBy != TerminatedParseFailure || out.Answer != UnableToAnswer {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestLoopEmptyFinalAnswerIsRetried(t *testing.T) {
	model := models.NewScriptedLLM("Final Answer:   ", "Final Answer: Eight ends.")
	out, err := newTestLoop(model).Run(context.Background(), "q", nil, nil, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Answer != "Eight ends." || out.StepsUsed != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestLoopReturnsModelErrors(t *testing.T) {
	boom := errors.New("connection refused")
	model := models.NewScriptedLLM(searchStep).FailAt(1, boom)
	_, err := newTestLoop(model).Run(context.Background(), "q", nil, NewStaticToolCatalog([]Tool{newStubTool("WebSearch")}), 3)
	if !errors.Is(err, boom) {
		t.Fatalf("expected model error, got %v", err)
	}
}

func TestLoopEarlyStopGenerate(t *testing.T) {
	tool := newStubTool("WebSearch")
	model := models.NewScriptedLLM(searchStep, searchStep, "Final Answer: Sweden took gold.")
	loop := newTestLoop(model)
	loop.EarlyStopping = EarlyStopGenerate

	out, err := loop.Run(context.Background(), "q", nil, NewStaticToolCatalog([]Tool{tool}), 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Answer != "Sweden took gold." || out.TerminatedBy != TerminatedMaxIterations || out.StepsUsed != 2 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if model.Calls() != 3 {
		t.Fatalf("model called %d times, want 3", model.Calls())
	}
	if !strings.Contains(model.Prompts()[2], "I now need to return a final answer based on the previous steps:") {
		t.Fatal("final prompt does not ask for an answer")
	}
}

func TestLoopEarlyStopGenerateFallsBackToForce(t *testing.T) {
	model := models.NewScriptedLLM(searchStep).FailAt(1, errors.New("timeout"))
	loop := newTestLoop(model)
	loop.EarlyStopping = EarlyStopGenerate

	out, err := loop.Run(context.Background(), "q", nil, NewStaticToolCatalog([]Tool{newStubTool("WebSearch")}), 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Answer != "I should check the latest results." {
		t.Fatalf("unexpected fallback %q", out.Answer)
	}
}

func TestLoopIncludesHistoryAndTools(t *testing.T) {
	mem := memory.NewConversation(0)
	mem.Append(
		memory.Turn{Role: memory.RoleUser, Content: "What is the hammer?"},
		memory.Turn{Role: memory.RoleAssistant, Content: "The last stone of an end."},
	)
	model := models.NewScriptedLLM("Final Answer: ok")
	catalog := NewStaticToolCatalog([]Tool{newStubTool("WebSearch")})

	if _, err := newTestLoop(model).Run(context.Background(), "Who has it first?", mem, catalog, 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	prompt := model.Prompts()[0]
	for _, want := range []string{
		"Talk about curling.",
		"User: What is the hammer?\nAssistant: The last stone of an end.",
		"WebSearch: WebSearch tool",
		"should be one of [WebSearch]",
		"Question: Who has it first?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestLoopHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	model := models.NewScriptedLLM("Final Answer: never")
	if _, err := newTestLoop(model).Run(ctx, "q", nil, nil, 3); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if model.Calls() != 0 {
		t.Fatal("model should not be called after cancellation")
	}
}

type blockingTool struct{}

func (blockingTool) Spec() ToolSpec { return ToolSpec{Name: "Slow", Description: "never returns on its own"} }
func (blockingTool) Invoke(ctx context.Context, _ ToolRequest) (ToolResponse, error) {
	<-ctx.Done()
	return ToolResponse{}, ctx.Err()
}

func TestLoopToolTimeout(t *testing.T) {
	model := models.NewScriptedLLM("Action: Slow\nAction Input: x", "Final Answer: gave up waiting")
	loop := newTestLoop(model)
	loop.ToolTimeout = 10 * time.Millisecond

	out, err := loop.Run(context.Background(), "q", nil, NewStaticToolCatalog([]Tool{blockingTool{}}), 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Answer != "gave up waiting" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !strings.Contains(model.Prompts()[1], "deadline exceeded") {
		t.Fatalf("timeout not reported:\n%s", model.Prompts()[1])
	}
}

func TestLoopAlwaysTerminates(t *testing.T) {
	outputs := []string{
		searchStep,
		"Action: Unknown\nAction Input: x",
		"random text",
		"Action: WebSearch",
		"Final Answer:",
		"Thought: hmm",
	}
	rng := rand.New(rand.NewSource(42))
	catalog := NewStaticToolCatalog([]Tool{newStubTool("WebSearch")})

	for trial := 0; trial < 50; trial++ {
		max := 1 + rng.Intn(5)
		script := make([]string, max)
		for i := range script {
			script[i] = outputs[rng.Intn(len(outputs))]
		}
		model := models.NewScriptedLLM(script...)
		out, err := newTestLoop(model).Run(context.Background(), "q", nil, catalog, max)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if out.StepsUsed > max || model.Calls() > max {
			t.Fatalf("trial %d exceeded cap: %+v, calls %d", trial, out, model.Calls())
		}
		if strings.TrimSpace(out.Answer) == "" {
			t.Fatalf("trial %d produced an empty answer", trial)
		}
	}
}
