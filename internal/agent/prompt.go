package agent

import (
	"strings"
	"time"

	"github.com/flemzord/reagent/internal/tool"
)

// Protocol markers. The stop sequences are derived from the observation
// marker: the model must halt right before emitting an observation, since
// only the loop is allowed to produce one.
const (
	finalAnswerMarker = "Final Answer:"
	observationMarker = "Observation:"
	thoughtMarker     = "Thought:"
)

// DefaultTemplate is the instructional prompt. Placeholders are filled by
// renderPrompt. The wording is load-bearing for models tuned against the
// ReAct format; change it only together with the parser.
const DefaultTemplate = `Today is {today} and you can use tools to get new information. Answer the question as best as you can using the following tools:

{tool_description}

Use the following format:

Question: the input question you must answer
Thought: comment on what you want to do next
Action: the action to take, exactly one element of [{tool_names}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation repeats N times, use it until you are sure of the answer)
Thought: I now know the final answer
Final Answer: your final answer to the original input question

Begin!

Question: {question}
Thought: {previous_responses}
`

// DefaultStopSequences halt generation right before the model would
// fabricate an Observation line (plain or tab-indented).
func DefaultStopSequences() []string {
	return []string{"\n" + observationMarker, "\n\t" + observationMarker}
}

// toolCatalog describes each tool on its own "<name>: <description>" line,
// in catalog order.
func toolCatalog(tools []tool.Tool) string {
	lines := make([]string, len(tools))
	for i, t := range tools {
		lines[i] = t.Name() + ": " + t.Description()
	}
	return strings.Join(lines, "\n")
}

// toolNames joins the catalog's names with commas for the format block.
func toolNames(tools []tool.Tool) string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	return strings.Join(names, ",")
}

// renderPrompt fills the template. It is pure: same inputs, byte-identical
// output. The date is injected so every render within a run agrees on it.
func renderPrompt(template string, today time.Time, tools []tool.Tool, question, transcript string) string {
	return strings.NewReplacer(
		"{today}", today.Format(time.DateOnly),
		"{tool_description}", toolCatalog(tools),
		"{tool_names}", toolNames(tools),
		"{question}", question,
		"{previous_responses}", transcript,
	).Replace(template)
}

// transcriptEntry formats the string appended to the transcript after a
// tool call: the raw output, the observation, and a trailing Thought
// marker priming the model's next step.
func transcriptEntry(rawOutput, observation string) string {
	return rawOutput + "\n" + observationMarker + " " + observation + "\n" + thoughtMarker
}
