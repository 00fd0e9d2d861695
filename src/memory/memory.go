// Package memory holds the per-session conversation log that is rendered
// into every prompt.
//
// The log only grows by whole turns in chronological order. Storage is
// unbounded; a render window can be set to keep prompts short on small
// context models without dropping history.
package memory

import (
	"strings"
	"sync"
)

// Role identifies who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label is the speaker prefix used when the turn is rendered into a prompt.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	default:
		return "Unknown"
	}
}

// Turn is one persisted message. Turns are never mutated after Append.
type Turn struct {
	Role    Role
	Content string
}

// Conversation is an append-only, ordered log of turns.
type Conversation struct {
	mu          sync.RWMutex
	turns       []Turn
	windowTurns int
}

// NewConversation returns an empty log. windowTurns limits how many of the
// most recent turns Render emits; zero or less renders everything.
func NewConversation(windowTurns int) *Conversation {
	if windowTurns < 0 {
		windowTurns = 0
	}
	return &Conversation{windowTurns: windowTurns}
}

// Append adds turns at the end of the log. Passing several turns appends
// them under a single lock so readers never observe a partial exchange.
func (c *Conversation) Append(turns ...Turn) {
	if len(turns) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turns...)
}

// Turns returns a copy of the log.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len reports the number of stored turns.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Clear resets the log. A render taken before Clear is unaffected.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}

// Render formats the log as "User: ...\nAssistant: ...\n" lines, oldest
// first. An empty log renders as the empty string.
func (c *Conversation) Render() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	turns := c.turns
	if c.windowTurns > 0 && len(turns) > c.windowTurns {
		turns = turns[len(turns)-c.windowTurns:]
	}

	var sb strings.Builder
	for _, t := range turns {
		sb.WriteString(t.Role.Label())
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(t.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}
