// internal/agents/ai-conversation/structured-parser/schemas.go
package structuredparser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"travelbot/internal/models"
)

const isoDate = "2006-01-02"

// LocationSchema splits a destination into city, state and country.
var LocationSchema = Schema{
	Name: "location",
	Fields: []Field{
		{Name: "city", Description: "City name, or best guess if not explicit"},
		{Name: "state", Description: "State/Province name if applicable. Otherwise null or empty"},
		{Name: "country", Description: "Country name or best guess"},
		{Name: "clarifications", Description: "Any extra info or ambiguities"},
	},
	Diagnostic: "clarifications",
	Instructions: func(raw string) string {
		return strings.Join([]string{
			"You are a helpful travel assistant. The user provided the following location:",
			fmt.Sprintf("%q", raw),
			"",
			"1. If the location is ambiguous or missing a piece (e.g. 'Barcelona' has no state in Spain),",
			"   guess or clarify it from the conversation so far.",
			"2. If the country has no state or province concept, set state to null or an empty string",
			"   and say so in clarifications.",
			"3. Return the result as JSON with the keys: city, state, country, clarifications.",
		}, "\n")
	},
}

// DateRangeSchema extracts a start and end date in ISO form.
var DateRangeSchema = Schema{
	Name: "date_range",
	Fields: []Field{
		{Name: "start_date", Description: "ISO date for start (e.g. 2024-03-06), empty if unknown"},
		{Name: "end_date", Description: "ISO date for end (e.g. 2024-03-10), empty if unknown"},
		{Name: "clarifications", Description: "Any notes or ambiguities. If none, empty string."},
	},
	Diagnostic: "clarifications",
	Instructions: func(raw string) string {
		return strings.Join([]string{
			"You are a travel assistant. The user provided the following date information:",
			fmt.Sprintf("%q", raw),
			"",
			fmt.Sprintf("Today is %s. Parse it into JSON with keys:", time.Now().UTC().Format(isoDate)),
			"- start_date",
			"- end_date",
			"- clarifications",
			"",
			"Each date must be in ISO format (YYYY-MM-DD) if possible.",
			"If the input is ambiguous or invalid, say so in clarifications.",
		}, "\n")
	},
}

// ParseLocation parses a free-text destination such as "Barcelona" or
// "Austin, TX".
func (p *Parser) ParseLocation(ctx context.Context, conv *models.Conversation, raw string) models.ParsedLocation {
	r := p.ParseStructured(ctx, conv, raw, LocationSchema)
	return models.ParsedLocation{
		City:           r.Get("city"),
		State:          r.Get("state"),
		Country:        r.Get("country"),
		Clarifications: r.Get("clarifications"),
	}
}

// ParseDates parses a free-text date description. A date the model returned
// in any other form than YYYY-MM-DD is dropped and noted in Clarifications.
func (p *Parser) ParseDates(ctx context.Context, conv *models.Conversation, raw string) models.ParsedDateRange {
	r := p.ParseStructured(ctx, conv, raw, DateRangeSchema)
	out := models.ParsedDateRange{
		StartDate:      r.Get("start_date"),
		EndDate:        r.Get("end_date"),
		Clarifications: r.Get("clarifications"),
	}

	var notes []string
	if out.StartDate != "" && !isISODate(out.StartDate) {
		notes = append(notes, fmt.Sprintf("start date %q is not an ISO date", out.StartDate))
		out.StartDate = ""
	}
	if out.EndDate != "" && !isISODate(out.EndDate) {
		notes = append(notes, fmt.Sprintf("end date %q is not an ISO date", out.EndDate))
		out.EndDate = ""
	}
	if len(notes) > 0 {
		if out.Clarifications != "" {
			notes = append([]string{out.Clarifications}, notes...)
		}
		out.Clarifications = strings.Join(notes, "; ")
	}
	return out
}

func isISODate(s string) bool {
	_, err := time.Parse(isoDate, s)
	return err == nil
}
