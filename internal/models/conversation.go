package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the chat history of one session. Later prompts are sent
// with every earlier turn so the model can refer back to them. A value must
// not be shared between sessions.
type Conversation struct {
	Messages []ChatMessage `json:"messages"`
}

func NewConversation() *Conversation {
	return &Conversation{Messages: []ChatMessage{}}
}

func (c *Conversation) Append(role, content string) {
	c.Messages = append(c.Messages, ChatMessage{Role: role, Content: content})
}

// History returns a copy of the messages so callers can extend it without
// touching the conversation.
func (c *Conversation) History() []ChatMessage {
	if c == nil {
		return nil
	}
	out := make([]ChatMessage, len(c.Messages))
	copy(out, c.Messages)
	return out
}

func (c *Conversation) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Messages)
}
