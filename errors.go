package agent

import (
	"errors"
	"fmt"
)

// ErrToolNotFound is returned by a catalog when no tool has the requested name.
var ErrToolNotFound = errors.New("tool not found")

// ToolExecutionError wraps a failure raised by a tool's Invoke.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }
