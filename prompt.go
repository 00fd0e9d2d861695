package agent

import (
	"fmt"
	"os"
	"strings"
)

// DefaultInstructions scope the assistant to Olympic curling.
const DefaultInstructions = `You are a friendly and knowledgeable assistant specialising in Olympic curling: its rules, history, equipment, strategy, athletes and competitions.
Answer from your own knowledge whenever you can. Use the WebSearch tool ONLY for recent events, competition results or facts you do not know.
If a question is not about curling, politely steer the conversation back to curling.`

// DefaultTemplate is the built-in ReAct prompt. Placeholders are
// {instructions}, {tools}, {tool_names}, {chat_history}, {input} and
// {agent_scratchpad}.
const DefaultTemplate = `{instructions}

Answer the following questions as best you can. You have access to the following tools:

{tools}

Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{tool_names}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

If you can answer without a tool, go straight to "Final Answer:".

Begin!

Previous conversation history:
{chat_history}
Question: {input}
Thought:{agent_scratchpad}`

// forceFinalSuffix is appended to the transcript when the loop asks the
// model for a last answer after running out of steps.
const forceFinalSuffix = "\n\nI now need to return a final answer based on the previous steps:"

// PromptInput carries everything BuildPrompt renders.
type PromptInput struct {
	// Template defaults to DefaultTemplate when empty.
	Template     string
	Instructions string
	Tools        []ToolSpec
	// History is the rendered conversation memory.
	History    string
	Transcript []Step
	Question   string
	// Suffix is appended after the rendered transcript.
	Suffix string
}

// BuildPrompt renders the prompt for one model call. It has no side effects.
func BuildPrompt(in PromptInput) string {
	tmpl := in.Template
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultTemplate
	}

	history := strings.TrimRight(in.History, "\n")
	if history == "" {
		history = "(none)"
	}

	r := strings.NewReplacer(
		"{instructions}", strings.TrimSpace(in.Instructions),
		"{tools}", renderTools(in.Tools),
		"{tool_names}", renderToolNames(in.Tools),
		"{chat_history}", history,
		"{input}", strings.TrimSpace(in.Question),
		"{agent_scratchpad}", RenderTranscript(in.Transcript)+in.Suffix,
	)
	return r.Replace(tmpl)
}

func renderTools(specs []ToolSpec) string {
	if len(specs) == 0 {
		return "(no tools available)"
	}
	var sb strings.Builder
	for i, spec := range specs {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s: %s", spec.Name, strings.TrimSpace(spec.Description))
	}
	return sb.String()
}

func renderToolNames(specs []ToolSpec) string {
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return strings.Join(names, ", ")
}

// RenderTranscript formats completed steps so the model can continue after
// the template's trailing "Thought:".
func RenderTranscript(steps []Step) string {
	var sb strings.Builder
	for _, step := range steps {
		if step.Action == "" {
			sb.WriteString(" ")
			sb.WriteString(strings.TrimSpace(step.Raw))
		} else {
			if step.Thought != "" {
				sb.WriteString(" ")
				sb.WriteString(step.Thought)
			}
			fmt.Fprintf(&sb, "\nAction: %s\nAction Input: %s", step.Action, step.ActionInput)
		}
		fmt.Fprintf(&sb, "\nObservation: %s\nThought:", step.Observation)
	}
	return sb.String()
}

// LoadTemplate reads a prompt template from a local file. An empty path
// yields DefaultTemplate.
func LoadTemplate(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	tmpl := string(data)
	for _, required := range []string{"{input}", "{agent_scratchpad}"} {
		if !strings.Contains(tmpl, required) {
			return "", fmt.Errorf("prompt template %s is missing %s", path, required)
		}
	}
	return tmpl, nil
}
