package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/universal-tool-calling-protocol/go-utcp/src/tools"
)

// UTCPCaller is the subset of the UTCP client used to invoke remote tools.
type UTCPCaller interface {
	CallTool(ctx context.Context, toolName string, args map[string]any) (any, error)
}

// UTCPSearcher lists the tools a UTCP client knows about.
type UTCPSearcher interface {
	SearchTools(query string, limit int) ([]tools.Tool, error)
}

// UTCPTool adapts a UTCP tool to the Tool interface. The model's free-text
// input is sent as a single string argument.
type UTCPTool struct {
	client     UTCPCaller
	remoteName string
	name       string
	desc       string
	argKey     string
}

// NewUTCPTool wraps def. The argument key is the tool's only required input
// when it declares exactly one, otherwise "input".
func NewUTCPTool(client UTCPCaller, def tools.Tool) *UTCPTool {
	argKey := "input"
	if len(def.Inputs.Required) == 1 && strings.TrimSpace(def.Inputs.Required[0]) != "" {
		argKey = def.Inputs.Required[0]
	}
	name := def.Name
	// Provider-qualified names ("provider.tool") are shown to the model by their short name.
	if idx := strings.LastIndex(name, "."); idx >= 0 && idx < len(name)-1 {
		name = name[idx+1:]
	}
	return &UTCPTool{
		client:     client,
		remoteName: def.Name,
		name:       name,
		desc:       def.Description,
		argKey:     argKey,
	}
}

func (t *UTCPTool) Spec() ToolSpec {
	return ToolSpec{Name: t.name, Description: t.desc}
}

func (t *UTCPTool) Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error) {
	if t.client == nil {
		return ToolResponse{}, fmt.Errorf("utcp client is nil")
	}
	out, err := t.client.CallTool(ctx, t.remoteName, map[string]any{t.argKey: strings.TrimSpace(req.Input)})
	if err != nil {
		return ToolResponse{}, err
	}
	return ToolResponse{
		Content:  stringifyToolResult(out),
		Metadata: map[string]string{"source": "utcp", "tool": t.remoteName},
	}, nil
}

func stringifyToolResult(out any) string {
	switch v := out.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		// Structured payloads are rendered as TOON, which is shorter than JSON in prompts.
		encoded, err := gotoon.Encode(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return encoded
	}
}

// UTCPClient is satisfied by the go-utcp client.
type UTCPClient interface {
	UTCPCaller
	UTCPSearcher
}

// LoadUTCPTools wraps every tool the client returns for query, up to limit.
func LoadUTCPTools(client UTCPClient, query string, limit int) ([]Tool, error) {
	if client == nil {
		return nil, fmt.Errorf("utcp client is nil")
	}
	if limit <= 0 {
		limit = 50
	}
	defs, err := client.SearchTools(query, limit)
	if err != nil {
		return nil, fmt.Errorf("search utcp tools: %w", err)
	}
	out := make([]Tool, 0, len(defs))
	for _, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			continue
		}
		out = append(out, NewUTCPTool(client, def))
	}
	return out, nil
}
