package prompts

import (
	"github.com/effective-security/quickai/pkg/llms"
)

// MessageFormatter formats a single message of a chat prompt.
type MessageFormatter interface {
	FormatMessage(values map[string]any) (llms.Message, error)
}

// MessagePromptTemplate is a prompt template for one message with a role.
type MessagePromptTemplate struct {
	Role   llms.Role
	Prompt PromptTemplate
}

// FormatMessage renders the message.
func (p MessagePromptTemplate) FormatMessage(values map[string]any) (llms.Message, error) {
	text, err := p.Prompt.Format(values)
	if err != nil {
		return llms.Message{}, err
	}
	return llms.MessageFromTextParts(p.Role, text), nil
}

// NewSystemMessagePromptTemplate creates a new system message prompt template.
func NewSystemMessagePromptTemplate(template string, inputVariables []string) MessagePromptTemplate {
	return MessagePromptTemplate{
		Role:   llms.RoleSystem,
		Prompt: NewPromptTemplate(template, inputVariables),
	}
}

// NewHumanMessagePromptTemplate creates a new human message prompt template.
func NewHumanMessagePromptTemplate(template string, inputVariables []string) MessagePromptTemplate {
	return MessagePromptTemplate{
		Role:   llms.RoleHuman,
		Prompt: NewPromptTemplate(template, inputVariables),
	}
}

// ChatPromptTemplate is a prompt template for chat messages.
type ChatPromptTemplate struct {
	// Messages is the list of the messages to be formatted.
	Messages []MessageFormatter
}

// NewChatPromptTemplate creates a new chat prompt template from a list of message formatters.
func NewChatPromptTemplate(messages []MessageFormatter) ChatPromptTemplate {
	return ChatPromptTemplate{
		Messages: messages,
	}
}

// FormatPrompt formats the messages into a chat prompt value.
func (p ChatPromptTemplate) FormatPrompt(values map[string]any) (ChatPromptValue, error) {
	messages, err := p.FormatMessages(values)
	if err != nil {
		return nil, err
	}
	return ChatPromptValue(messages), nil
}

// FormatMessages formats the messages with the values.
func (p ChatPromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	formatted := make([]llms.Message, 0, len(p.Messages))
	for _, m := range p.Messages {
		msg, err := m.FormatMessage(values)
		if err != nil {
			return nil, err
		}
		formatted = append(formatted, msg)
	}
	return formatted, nil
}
