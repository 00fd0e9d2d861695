package agent

import "context"

// ToolSpec describes how the agent should present a tool to the model.
type ToolSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolRequest captures an invocation request for a tool.
type ToolRequest struct {
	SessionID string
	// Input is the raw text the model wrote after "Action Input:".
	Input string
}

// ToolResponse represents the response returned by a tool.
type ToolResponse struct {
	Content  string
	Metadata map[string]string
}

// Tool exposes its metadata and an invocation handler.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}

// ToolCatalog maintains an ordered set of tools and provides lookup by name.
type ToolCatalog interface {
	Register(tool Tool) error
	Lookup(name string) (Tool, ToolSpec, bool)
	Specs() []ToolSpec
	Invoke(ctx context.Context, name string, req ToolRequest) (ToolResponse, error)
}

// Step is one reasoning iteration of the loop.
type Step struct {
	Thought     string
	Action      string
	ActionInput string
	Observation string
	// Raw is the unparsed model output, kept for malformed steps.
	Raw string
}

// Termination reasons reported in LoopOutcome.TerminatedBy.
const (
	TerminatedFinalAnswer   = "final_answer"
	TerminatedMaxIterations = "max_iterations"
	TerminatedParseFailure  = "parse_failure"
	TerminatedToolError     = "tool_error"
)

// LoopOutcome is the result of one Loop.Run.
type LoopOutcome struct {
	Answer       string
	StepsUsed    int
	TerminatedBy string
}
