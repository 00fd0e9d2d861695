package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// StaticToolCatalog is the default in-memory ToolCatalog. Names are matched
// exactly and case-sensitively; specs are listed in registration order.
type StaticToolCatalog struct {
	mu    sync.RWMutex
	tools map[string]Tool
	specs map[string]ToolSpec
	order []string
}

// NewStaticToolCatalog constructs a catalog seeded with the provided tools.
// Invalid or duplicate entries are skipped.
func NewStaticToolCatalog(tools []Tool) *StaticToolCatalog {
	catalog := &StaticToolCatalog{
		tools: make(map[string]Tool),
		specs: make(map[string]ToolSpec),
	}
	for _, tool := range tools {
		_ = catalog.Register(tool)
	}
	return catalog
}

// Register adds a tool to the catalog. Duplicate names return an error.
func (c *StaticToolCatalog) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	spec := tool.Spec()
	spec.Name = strings.TrimSpace(spec.Name)
	if spec.Name == "" {
		return fmt.Errorf("tool name is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tools[spec.Name]; exists {
		return fmt.Errorf("tool %s already registered", spec.Name)
	}
	c.tools[spec.Name] = tool
	c.specs[spec.Name] = spec
	c.order = append(c.order, spec.Name)
	return nil
}

// Lookup returns the tool and its specification if present.
func (c *StaticToolCatalog) Lookup(name string) (Tool, ToolSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tool, ok := c.tools[name]
	if !ok {
		return nil, ToolSpec{}, false
	}
	return tool, c.specs[name], true
}

// Specs returns a snapshot of the tool specifications in registration order.
func (c *StaticToolCatalog) Specs() []ToolSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()

	specs := make([]ToolSpec, 0, len(c.order))
	for _, key := range c.order {
		specs = append(specs, c.specs[key])
	}
	return specs
}

// Names returns the registered tool names in registration order.
func (c *StaticToolCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Invoke runs the named tool. Unknown names yield ErrToolNotFound; failures
// raised by the tool, including panics, are wrapped in *ToolExecutionError.
func (c *StaticToolCatalog) Invoke(ctx context.Context, name string, req ToolRequest) (resp ToolResponse, err error) {
	tool, _, ok := c.Lookup(name)
	if !ok {
		return ToolResponse{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	defer func() {
		if r := recover(); r != nil {
			resp = ToolResponse{}
			err = &ToolExecutionError{Tool: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	resp, err = tool.Invoke(ctx, req)
	if err != nil {
		return ToolResponse{}, &ToolExecutionError{Tool: name, Err: err}
	}
	return resp, nil
}

var _ ToolCatalog = (*StaticToolCatalog)(nil)
