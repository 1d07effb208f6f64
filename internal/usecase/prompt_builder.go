package usecase

import (
	"fmt"
	"strings"
)

// PrereqPromptBuilder renders the fixed prerequisite-selection prompt.
// The trailing "1." anchors the completion service's continuation on
// the numbered-list format.
type PrereqPromptBuilder struct{}

// NewPrereqPromptBuilder creates a prompt builder (stateless).
func NewPrereqPromptBuilder() PrereqPromptBuilder {
	return PrereqPromptBuilder{}
}

// Build renders the prompt for a topic and its ranked candidate list.
// The candidate order is preserved; the instructions restrict the model
// to the listed candidates in their exact text format.
func (PrereqPromptBuilder) Build(topic string, candidates []string) string {
	return fmt.Sprintf(`The following is a list of topics related to "%s".

%s

The following is a list of the five most specific prerequisites for "%s". All prerequisites are from the list above and use the exact same format. Do not pluralize or change the format of the prerequisites:
1.`, topic, strings.Join(candidates, "\n"), topic)
}
