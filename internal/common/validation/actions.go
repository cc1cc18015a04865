package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

// Optional fields may be sent as "" to clear them, so their patterns
// accept the empty string.
const (
	airportCodePattern = `^([A-Za-z]{3})?$`
	isoDatePattern     = `^\d{4}-\d{2}-\d{2}$`
	optionalISODate    = `^(\d{4}-\d{2}-\d{2})?$`
	emailPattern       = `^([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})?$`
	phonePattern       = `^(\+[1-9]\d{7,14})?$`
)

// ActionSchemas holds the payload shape of every wizard action, keyed by
// action type.
var ActionSchemas = map[string]JSONSchema{
	"submit_destination": {
		Type: "object",
		Properties: map[string]Property{
			"location": {Type: "string", Description: "Free-text destination", MaxLength: intPtr(200)},
		},
		Required: []string{"location"},
	},
	"confirm_location": {
		Type: "object",
		Properties: map[string]Property{
			"city":    {Type: "string", MaxLength: intPtr(120)},
			"state":   {Type: "string", MaxLength: intPtr(120)},
			"country": {Type: "string", MaxLength: intPtr(120)},
		},
	},
	"confirm_airports": {
		Type: "object",
		Properties: map[string]Property{
			"origin":      {Type: "string", Pattern: strPtr(airportCodePattern)},
			"destination": {Type: "string", Pattern: strPtr(airportCodePattern)},
		},
	},
	"submit_dates": {
		Type: "object",
		Properties: map[string]Property{
			"departDate": {Type: "string", Pattern: strPtr(isoDatePattern)},
			"returnDate": {Type: "string", Pattern: strPtr(optionalISODate)},
		},
		Required: []string{"departDate"},
	},
	"confirm_flight": {
		Type: "object",
		Properties: map[string]Property{
			"flightId": {Type: "string"},
		},
		Required: []string{"flightId"},
	},
	"confirm_hotel_offer": {
		Type: "object",
		Properties: map[string]Property{
			"offerId": {Type: "string"},
		},
		Required: []string{"offerId"},
	},
	"confirm_activities": {
		Type: "object",
		Properties: map[string]Property{
			"activities": {Type: "array", Items: &Property{Type: "string", MaxLength: intPtr(300)}},
		},
	},
	"go_back": {
		Type: "object",
		Properties: map[string]Property{
			"step": {Type: "integer", Minimum: floatPtr(0), Maximum: floatPtr(7)},
		},
		Required: []string{"step"},
	},
}

// ShareSchema is the payload of an itinerary share request.
var ShareSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"email": {Type: "string", MaxLength: intPtr(254), Pattern: strPtr(emailPattern)},
		"phone": {Type: "string", Description: "E.164, e.g. +15555550100", Pattern: strPtr(phonePattern)},
	},
}

var (
	compiledActions = mustCompileAll(ActionSchemas)
	compiledShare   = mustCompile("share", ShareSchema)
)

func mustCompile(name string, schema JSONSchema) *gojsonschema.Schema {
	compiled, err := Compile(schema)
	if err != nil {
		panic(fmt.Sprintf("validation: schema %s: %v", name, err))
	}
	return compiled
}

func mustCompileAll(schemas map[string]JSONSchema) map[string]*gojsonschema.Schema {
	out := make(map[string]*gojsonschema.Schema, len(schemas))
	for name, schema := range schemas {
		out[name] = mustCompile(name, schema)
	}
	return out
}

// ValidateAction checks payload against the schema for actionType. An
// unknown action type is reported against the "type" field.
func ValidateAction(actionType string, payload map[string]interface{}) *ValidationResult {
	schema, ok := compiledActions[actionType]
	if !ok {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "type",
			Message: "value must be one of " + joinActions(),
			Code:    "INVALID_ENUM_VALUE",
		}}}
	}
	return validateWith(schema, payload)
}

// ValidateShare checks the share payload and the recipient formats.
func ValidateShare(payload map[string]interface{}) *ValidationResult {
	return validateWith(compiledShare, payload)
}

func joinActions() string {
	names := make([]string, 0, len(ActionSchemas))
	for name := range ActionSchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return "[" + strings.Join(names, " ") + "]"
}
