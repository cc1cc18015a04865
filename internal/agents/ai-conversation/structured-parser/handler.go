// internal/agents/ai-conversation/structured-parser/handler.go
package structuredparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"travelbot/internal/common/metrics"
	"travelbot/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

const (
	AgentName = "structured-parser"
)

var (
	ErrNoJSONObject     = errors.New("no JSON object found in reply")
	ErrSchemaMismatch   = errors.New("reply does not match schema")
	fencedJSONBlockExpr = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Parser turns free text into named string fields by asking a chat model.
type Parser struct {
	chat   ChatCompleter
	logger Logger
}

func NewParser(chat ChatCompleter, log Logger) *Parser {
	return &Parser{
		chat: chat,
		logger: log.With(map[string]interface{}{
			"agent": AgentName,
		}),
	}
}

// ParseStructured asks the model to describe raw according to schema and
// parses the reply. It never fails: when the reply cannot be parsed (or the
// model cannot be reached) every field is empty except schema.Diagnostic,
// which explains what went wrong.
//
// A successful exchange is appended to conv so later parses in the same
// session see it.
func (p *Parser) ParseStructured(ctx context.Context, conv *models.Conversation, raw string, schema Schema) Result {
	if conv == nil {
		conv = models.NewConversation()
	}

	prompt := BuildPrompt(raw, schema)
	messages := append(conv.History(), models.ChatMessage{Role: models.RoleUser, Content: prompt})

	reply, err := p.chat.Complete(ctx, messages)
	if err != nil {
		p.logger.Error("chat completion failed", map[string]interface{}{
			"schema": schema.Name,
			"error":  err.Error(),
		})
		metrics.StructuredParses.WithLabelValues(schema.Name, "transport_error").Inc()
		return fallback(schema, reply, err)
	}

	conv.Append(models.RoleUser, prompt)
	conv.Append(models.RoleAssistant, reply)

	result, err := parseReply(reply, schema)
	if err != nil {
		p.logger.Warn("model reply did not match schema", map[string]interface{}{
			"schema": schema.Name,
			"error":  err.Error(),
		})
		metrics.StructuredParses.WithLabelValues(schema.Name, "parse_error").Inc()
		return fallback(schema, reply, err)
	}

	metrics.StructuredParses.WithLabelValues(schema.Name, "ok").Inc()
	return result
}

// BuildPrompt joins the schema's instructions for raw with the formatting
// instructions derived from its fields.
func BuildPrompt(raw string, schema Schema) string {
	var parts []string
	if schema.Instructions != nil {
		parts = append(parts, strings.TrimSpace(schema.Instructions(raw)))
	} else {
		parts = append(parts, fmt.Sprintf("Input:\n%q", raw))
	}
	parts = append(parts, "", FormatInstructions(schema.Fields))
	return strings.Join(parts, "\n")
}

// FormatInstructions tells the model to answer with a fenced JSON snippet
// holding exactly the schema's fields.
func FormatInstructions(fields []Field) string {
	var b strings.Builder
	b.WriteString("The output should be a markdown code snippet formatted in the following schema, ")
	b.WriteString("including the leading and trailing \"```json\" and \"```\":\n\n")
	b.WriteString("```json\n{\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "\t%q: string  // %s\n", f.Name, f.Description)
	}
	b.WriteString("}\n```")
	return b.String()
}

func parseReply(reply string, schema Schema) (Result, error) {
	text, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	validation, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(jsonSchemaFor(schema.Fields)),
		gojsonschema.NewGoLoader(decoded),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !validation.Valid() {
		msgs := make([]string, 0, len(validation.Errors()))
		for _, e := range validation.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(msgs, "; "))
	}

	obj := decoded.(map[string]interface{})
	result := make(Result, len(schema.Fields))
	for _, f := range schema.Fields {
		result[f.Name] = stringify(obj[f.Name])
	}
	return result, nil
}

func extractJSON(reply string) (string, error) {
	if m := fencedJSONBlockExpr.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return "", ErrNoJSONObject
	}
	return reply[start : end+1], nil
}

// jsonSchemaFor requires an object carrying every field as a scalar.
func jsonSchemaFor(fields []Field) map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	required := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = map[string]interface{}{
			"type":        []interface{}{"string", "null", "number", "boolean"},
			"description": f.Description,
		}
		required = append(required, f.Name)
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(val)
		if strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return ""
		}
		return s
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func fallback(schema Schema, reply string, cause error) Result {
	result := make(Result, len(schema.Fields))
	for _, f := range schema.Fields {
		result[f.Name] = ""
	}
	diag := schema.Diagnostic
	if diag == "" {
		diag = "clarifications"
	}
	result[diag] = fmt.Sprintf("Could not parse: %s\nError: %s", reply, cause.Error())
	return result
}
