package models

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single entry in the conversation thread.
// Messages are values and are never modified after they are appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a message authored by the user
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds a message authored by the assistant
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// ChatRequest is the JSON body posted to the backend
type ChatRequest struct {
	Text string `json:"text"`
}

// ReplySource tells where an assistant reply came from
type ReplySource string

const (
	SourcePreset  ReplySource = "preset"
	SourceBackend ReplySource = "backend"
	SourceError   ReplySource = "error"
)

// Reply is the backend's answer after parsing.
// Empty is true when the body carried no usable "assistant" field.
type Reply struct {
	Text       string
	Empty      bool
	StatusCode int
}

// Content returns the text to show for the reply
func (r *Reply) Content() string {
	if r == nil || r.Empty || r.Text == "" {
		return NoResponseText
	}
	return r.Text
}
