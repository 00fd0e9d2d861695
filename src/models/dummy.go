package models

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DummyLLM is a lightweight model implementation useful for local testing without API calls.
// It always answers with a final answer echoing the last non-empty prompt line.
type DummyLLM struct {
	Prefix string
}

func NewDummyLLM(prefix string) *DummyLLM {
	if strings.TrimSpace(prefix) == "" {
		prefix = "Dummy response:"
	}
	return &DummyLLM{Prefix: prefix}
}

func (d *DummyLLM) Generate(_ context.Context, prompt string) (string, error) {
	lines := strings.Split(prompt, "\n")
	var last string
	for i := len(lines) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(lines[i])
		if candidate != "" {
			last = candidate
			break
		}
	}
	if last == "" {
		last = "<empty prompt>"
	}
	return fmt.Sprintf("Final Answer: %s %s", d.Prefix, last), nil
}

// ScriptedLLM replays canned responses in order and records every prompt it
// receives. Once the script runs out it keeps returning the last response.
type ScriptedLLM struct {
	mu        sync.Mutex
	responses []string
	errs      map[int]error
	prompts   []string
}

func NewScriptedLLM(responses ...string) *ScriptedLLM {
	return &ScriptedLLM{responses: responses, errs: map[int]error{}}
}

// FailAt makes the call with the given zero-based index return err.
func (s *ScriptedLLM) FailAt(call int, err error) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[call] = err
	return s
}

func (s *ScriptedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if err, ok := s.errs[idx]; ok {
		return "", err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

// Prompts returns a copy of every prompt seen so far.
func (s *ScriptedLLM) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// Calls reports how many times Generate was invoked.
func (s *ScriptedLLM) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

var (
	_ LLM = (*DummyLLM)(nil)
	_ LLM = (*ScriptedLLM)(nil)
)
