package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Protocol-Lattice/curling-agent/src/models"
)

// DefaultMaxIterations bounds the reasoning steps of one Run.
const DefaultMaxIterations = 3

// UnableToAnswer is returned when the step budget runs out with nothing usable to report.
const UnableToAnswer = "I was unable to determine a complete answer to your question. Please try rephrasing it or asking something more specific."

const formatHint = `Reply with a "Thought:" line followed by either "Action:" and "Action Input:" lines, or a "Final Answer:" line.`

// EarlyStopping selects how Run answers once the step budget is spent.
type EarlyStopping int

const (
	// EarlyStopForce reuses the last non-empty thought, or UnableToAnswer.
	EarlyStopForce EarlyStopping = iota
	// EarlyStopGenerate makes one extra model call asking for a final answer
	// and falls back to EarlyStopForce if that fails.
	EarlyStopGenerate
)

// HistoryRenderer supplies the rendered conversation memory.
type HistoryRenderer interface {
	Render() string
}

// Loop drives generate → parse → tool call until a final answer or the step cap.
type Loop struct {
	Model        models.LLM
	Instructions string
	Template     string
	SessionID    string
	// ModelTimeout and ToolTimeout bound each call when > 0.
	ModelTimeout  time.Duration
	ToolTimeout   time.Duration
	EarlyStopping EarlyStopping
	Verbose       bool
	Logger        *log.Logger
}

// Run answers question. Tool failures, unknown tools and malformed output are
// fed back to the model as observations; model failures and cancellation are
// returned as errors. The transcript never exceeds maxIterations steps.
func (l *Loop) Run(ctx context.Context, question string, mem HistoryRenderer, tools ToolCatalog, maxIterations int) (LoopOutcome, error) {
	if l.Model == nil {
		return LoopOutcome{}, errors.New("loop requires a language model")
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	history := ""
	if mem != nil {
		history = mem.Render()
	}
	var specs []ToolSpec
	if tools != nil {
		specs = tools.Specs()
	}

	input := PromptInput{
		Template:     l.Template,
		Instructions: l.Instructions,
		Tools:        specs,
		History:      history,
		Question:     question,
	}

	transcript := make([]Step, 0, maxIterations)
	lastStatus := TerminatedMaxIterations

	for len(transcript) < maxIterations {
		if err := ctx.Err(); err != nil {
			return LoopOutcome{StepsUsed: len(transcript)}, err
		}

		input.Transcript = transcript
		raw, err := l.generate(ctx, BuildPrompt(input))
		if err != nil {
			return LoopOutcome{StepsUsed: len(transcript)}, fmt.Errorf("step %d: %w", len(transcript)+1, err)
		}
		l.logf("step %d output: %q", len(transcript)+1, raw)

		parsed := ParseOutput(raw)
		switch parsed.Kind {
		case KindFinalAnswer:
			if parsed.Text != "" {
				l.logf("final answer after %d step(s)", len(transcript))
				return LoopOutcome{Answer: parsed.Text, StepsUsed: len(transcript), TerminatedBy: TerminatedFinalAnswer}, nil
			}
			transcript = append(transcript, Step{
				Raw:         raw,
				Observation: "Invalid Format: 'Final Answer:' must be followed by the answer. " + formatHint,
			})
			lastStatus = TerminatedParseFailure

		case KindAction:
			obs, failed := l.invoke(ctx, tools, specs, parsed)
			transcript = append(transcript, Step{
				Thought:     parsed.Thought,
				Action:      parsed.Tool,
				ActionInput: parsed.Input,
				Observation: obs,
				Raw:         raw,
			})
			lastStatus = TerminatedMaxIterations
			if failed {
				lastStatus = TerminatedToolError
			}

		default:
			l.logf("malformed output: %s", parsed.Reason)
			transcript = append(transcript, Step{
				Raw:         parsed.Text,
				Observation: parsed.Reason + ". " + formatHint,
			})
			lastStatus = TerminatedParseFailure
		}
	}

	if err := ctx.Err(); err != nil {
		return LoopOutcome{StepsUsed: len(transcript)}, err
	}
	answer := l.stopEarly(ctx, input, transcript)
	if err := ctx.Err(); err != nil {
		return LoopOutcome{StepsUsed: len(transcript)}, err
	}
	l.logf("step budget of %d exhausted (%s)", maxIterations, lastStatus)
	return LoopOutcome{Answer: answer, StepsUsed: len(transcript), TerminatedBy: lastStatus}, nil
}

func (l *Loop) generate(ctx context.Context, prompt string) (string, error) {
	if l.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.ModelTimeout)
		defer cancel()
	}
	return l.Model.Generate(ctx, prompt)
}

// invoke runs the requested tool and returns the observation text, reporting
// whether the call failed.
func (l *Loop) invoke(ctx context.Context, tools ToolCatalog, specs []ToolSpec, req ParseResult) (string, bool) {
	l.logf("calling tool %s with %q", req.Tool, req.Input)
	if tools == nil {
		return unknownToolObservation(req.Tool, specs), true
	}

	if l.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.ToolTimeout)
		defer cancel()
	}

	resp, err := tools.Invoke(ctx, req.Tool, ToolRequest{SessionID: l.SessionID, Input: req.Input})
	if err != nil {
		l.logf("tool %s failed: %v", req.Tool, err)
		if errors.Is(err, ErrToolNotFound) {
			return unknownToolObservation(req.Tool, specs), true
		}
		return "Error: " + err.Error(), true
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		content = "(no output)"
	}
	l.logf("observation: %q", content)
	return content, false
}

func unknownToolObservation(name string, specs []ToolSpec) string {
	if len(specs) == 0 {
		return fmt.Sprintf("%s is not a valid tool and no tools are available. Give your Final Answer instead.", name)
	}
	return fmt.Sprintf("%s is not a valid tool, try one of [%s].", name, renderToolNames(specs))
}

func (l *Loop) stopEarly(ctx context.Context, input PromptInput, transcript []Step) string {
	if l.EarlyStopping == EarlyStopGenerate {
		input.Transcript = transcript
		input.Suffix = forceFinalSuffix
		raw, err := l.generate(ctx, BuildPrompt(input))
		if err == nil {
			parsed := ParseOutput(raw)
			if parsed.Kind == KindFinalAnswer && parsed.Text != "" {
				return parsed.Text
			}
			if text := strings.TrimSpace(raw); text != "" && parsed.Kind == KindMalformed {
				return text
			}
		} else {
			l.logf("final answer generation failed: %v", err)
		}
	}
	return forcedAnswer(transcript)
}

// forcedAnswer returns the most recent non-empty thought, or UnableToAnswer.
func forcedAnswer(transcript []Step) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if t := strings.TrimSpace(transcript[i].Thought); t != "" {
			return t
		}
	}
	return UnableToAnswer
}

func (l *Loop) logf(format string, args ...any) {
	if !l.Verbose {
		return
	}
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("[Agent] "+format, args...)
}
