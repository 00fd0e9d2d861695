package tools

import (
	"context"
	"time"

	agent "github.com/Protocol-Lattice/curling-agent"
)

// DateTool reports today's date so the model can tell past events from upcoming ones.
type DateTool struct {
	now func() time.Time
}

func NewDateTool() *DateTool { return &DateTool{now: time.Now} }

func (t *DateTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "CurrentDate",
		Description: "Returns today's date in UTC. Use it to decide whether a competition is upcoming or already finished. Input is ignored.",
	}
}

func (t *DateTool) Invoke(_ context.Context, _ agent.ToolRequest) (agent.ToolResponse, error) {
	now := time.Now
	if t.now != nil {
		now = t.now
	}
	return agent.ToolResponse{Content: now().UTC().Format("Monday, 2 January 2006")}, nil
}

var _ agent.Tool = (*DateTool)(nil)
