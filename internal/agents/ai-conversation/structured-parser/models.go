// internal/agents/ai-conversation/structured-parser/models.go
package structuredparser

// Field is one named value the model is asked to return.
type Field struct {
	Name        string
	Description string
}

// Schema describes one kind of structured parse. Fields are rendered into the
// prompt in order. Diagnostic names the field that carries parse failures.
type Schema struct {
	Name         string
	Fields       []Field
	Diagnostic   string
	Instructions func(raw string) string
}

// Result maps every schema field to its parsed string value.
type Result map[string]string

// Get returns the value for name, or "" when absent.
func (r Result) Get(name string) string {
	return r[name]
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}
