package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Protocol-Lattice/curling-agent/src/memory"
	"github.com/Protocol-Lattice/curling-agent/src/models"
	"github.com/google/uuid"
)

// EmptyInputReply answers blank questions without consulting the model.
const EmptyInputReply = "Please ask me a question about curling."

const errorReplyPrefix = "Error processing your question: "

// Agent is one chat session: a model, a tool catalog and conversation memory.
type Agent struct {
	loop          *Loop
	memory        *memory.Conversation
	toolCatalog   ToolCatalog
	maxIterations int
	sessionID     string
	mu            sync.Mutex
}

// Options configure a new Agent.
type Options struct {
	Model models.LLM
	// Memory defaults to an unbounded conversation.
	Memory      *memory.Conversation
	Tools       []Tool
	ToolCatalog ToolCatalog
	// Instructions default to DefaultInstructions; Template to DefaultTemplate.
	Instructions  string
	Template      string
	MaxIterations int
	ModelTimeout  time.Duration
	ToolTimeout   time.Duration
	EarlyStopping EarlyStopping
	// SkipHealthCheck disables the model ping done by New.
	SkipHealthCheck bool
	SessionID       string
	Verbose         bool
	Logger          *log.Logger
}

// New creates an Agent. Models that support health checks are pinged first;
// an unreachable model yields an error wrapping models.ErrModelUnavailable.
func New(ctx context.Context, opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, errors.New("agent requires a language model")
	}

	if !opts.SkipHealthCheck {
		if err := models.CheckHealth(ctx, opts.Model); err != nil {
			if !errors.Is(err, models.ErrModelUnavailable) {
				err = fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
			}
			return nil, err
		}
	}

	mem := opts.Memory
	if mem == nil {
		mem = memory.NewConversation(0)
	}

	toolCatalog := opts.ToolCatalog
	tolerantTools := false
	if toolCatalog == nil {
		toolCatalog = NewStaticToolCatalog(nil)
		tolerantTools = true
	}
	for _, tool := range opts.Tools {
		if tool == nil {
			continue
		}
		if err := toolCatalog.Register(tool); err != nil {
			if tolerantTools {
				logger := opts.Logger
				if logger == nil {
					logger = log.Default()
				}
				logger.Printf("[Agent] skipping tool %q: %v", tool.Spec().Name, err)
				continue
			}
			return nil, err
		}
	}

	instructions := opts.Instructions
	if strings.TrimSpace(instructions) == "" {
		instructions = DefaultInstructions
	}
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	sessionID := strings.TrimSpace(opts.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return &Agent{
		loop: &Loop{
			Model:         opts.Model,
			Instructions:  instructions,
			Template:      opts.Template,
			SessionID:     sessionID,
			ModelTimeout:  opts.ModelTimeout,
			ToolTimeout:   opts.ToolTimeout,
			EarlyStopping: opts.EarlyStopping,
			Verbose:       opts.Verbose,
			Logger:        opts.Logger,
		},
		memory:        mem,
		toolCatalog:   toolCatalog,
		maxIterations: maxIterations,
		sessionID:     sessionID,
	}, nil
}

// Chat answers input and records the exchange. It never returns an empty
// string: failures are reported as an "Error processing your question" reply,
// which is also stored as the assistant turn. A cancelled context records nothing.
func (a *Agent) Chat(ctx context.Context, input string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if strings.TrimSpace(input) == "" {
		a.record(input, EmptyInputReply)
		return EmptyInputReply
	}

	var reply string
	outcome, err := a.ask(ctx, input)
	if err != nil {
		reply = errorReplyPrefix + err.Error()
	} else {
		reply = outcome.Answer
	}
	if ctx.Err() != nil {
		return reply
	}
	a.record(input, reply)
	return reply
}

// Ask runs one question and records it like Chat, but returns the loop
// outcome and any model error to the caller instead of an error reply.
func (a *Agent) Ask(ctx context.Context, input string) (LoopOutcome, error) {
	if strings.TrimSpace(input) == "" {
		return LoopOutcome{}, errors.New("user input is empty")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	outcome, err := a.ask(ctx, input)
	if ctx.Err() != nil {
		if err == nil {
			err = ctx.Err()
		}
		return outcome, err
	}
	if err != nil {
		a.record(input, errorReplyPrefix+err.Error())
		return outcome, err
	}
	a.record(input, outcome.Answer)
	return outcome, nil
}

func (a *Agent) ask(ctx context.Context, input string) (outcome LoopOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = LoopOutcome{}
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return a.loop.Run(ctx, input, a.memory, a.toolCatalog, a.maxIterations)
}

func (a *Agent) record(input, reply string) {
	a.memory.Append(
		memory.Turn{Role: memory.RoleUser, Content: input},
		memory.Turn{Role: memory.RoleAssistant, Content: reply},
	)
}

// Reset clears the conversation history.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory.Clear()
}

// Memory exposes the conversation backing this session.
func (a *Agent) Memory() *memory.Conversation { return a.memory }

// SessionID identifies this session in tool requests.
func (a *Agent) SessionID() string { return a.sessionID }

// ToolSpecs lists the registered tools in registration order.
func (a *Agent) ToolSpecs() []ToolSpec { return a.toolCatalog.Specs() }

// Register adds a tool after construction.
func (a *Agent) Register(tool Tool) error { return a.toolCatalog.Register(tool) }
