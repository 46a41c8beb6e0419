package session

// ToolCall is a single action the model asked us to perform.
type ToolCall struct {
	ToolCallID string                 `json:"tool_call_id"`
	Name       string                 `json:"name"`
	Args       map[string]interface{} `json:"args"`
}

// Message is one turn in the conversation. Role is "system", "user",
// "assistant" or "tool". A tool message carries exactly one ToolCall
// identifying the request it answers; its Content is the result text.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Pending reports whether the message requests actions. Detection checks
// for the presence of tool calls, not the absence of text: a turn may
// carry both narrative text and requests, and any request defers the text.
func (m *Message) Pending() bool {
	return len(m.ToolCalls) > 0
}

// Session is the ordered transcript of one conversation. It lives entirely
// in memory for a single process run; nothing is persisted to disk. The
// loop controller is its sole owner and appends to it monotonically.
type Session struct {
	Messages []Message
}

// New creates an empty session, optionally seeded with a system message.
func New(systemPrompt string) *Session {
	s := &Session{}
	if systemPrompt != "" {
		s.AddMessage(Message{Role: "system", Content: systemPrompt})
	}
	return s
}

// AddMessage appends a message to the transcript.
func (s *Session) AddMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	return len(s.Messages)
}
