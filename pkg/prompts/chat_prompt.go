package prompts

import (
	"strings"

	"github.com/effective-security/quickai/pkg/llms"
	"github.com/effective-security/quickai/pkg/llmutils"
)

// ChatPromptValue is a prompt value that is a list of chat messages.
type ChatPromptValue []llms.Message

// String returns the chat message slice as a buffer string.
func (v ChatPromptValue) String() string {
	var buf strings.Builder
	llmutils.PrintMessages(&buf, v)
	return buf.String()
}

// Messages returns the Message slice.
func (v ChatPromptValue) Messages() []llms.Message {
	return v
}
