// Package tools defines the four Bakalari operations exposed over
// MCP and the boundary that turns internal errors into structured
// payloads. No error ever propagates to the transport layer; every
// failure becomes an {error: ...} map in the tool result.
package tools

import (
	"context"
	"encoding/json"
	"errors"

	"bakamcp/internal/bakalari"
	"bakamcp/internal/logging"
	"bakamcp/internal/mcp"
	"bakamcp/internal/reports"
	"bakamcp/internal/timetable"
)

// Client is the full API surface the tools consume.
type Client interface {
	timetable.Source
	reports.AbsenceSource
	reports.MarkSource
}

var emptySchema = json.RawMessage(`{"type":"object","properties":{}}`)

var scheduleSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "date": {
      "type": "string",
      "description": "Date in YYYY-MM-DD format. Defaults to today."
    }
  }
}`)

// All returns the tool set in registration order.
func All(client Client) []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "schedule",
			Description: "Day schedule for a given date: the permanent timetable with cancellations, substitutions and merges applied.",
			InputSchema: scheduleSchema,
			Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
				date, _ := args["date"].(string)
				view, err := timetable.DaySchedule(ctx, client, date)
				if err != nil {
					return errorPayload(err)
				}
				return view
			},
		},
		{
			Name:        "permanent_schedule",
			Description: "Full-week permanent timetable without day-specific changes.",
			InputSchema: emptySchema,
			Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
				view, err := timetable.PermanentSchedule(ctx, client)
				if err != nil {
					return errorPayload(err)
				}
				return view
			},
		},
		{
			Name:        "absence",
			Description: "Per-day and per-subject absence summary with over-threshold flags.",
			InputSchema: emptySchema,
			Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
				view, err := reports.Absences(ctx, client)
				if err != nil {
					return errorPayload(err)
				}
				return view
			},
		},
		{
			Name:        "grades",
			Description: "Per-subject grade listing with point percentages and summary counts.",
			InputSchema: emptySchema,
			Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
				view, err := reports.Grades(ctx, client)
				if err != nil {
					return errorPayload(err)
				}
				return view
			},
		},
	}
}

// errorPayload translates the error taxonomy into the boundary shape:
// a human-readable message prefixed by its category, plus an example
// value for validation failures.
func errorPayload(err error) map[string]interface{} {
	logging.ToolsError("%v", err)

	var validationErr *bakalari.ValidationError
	if errors.As(err, &validationErr) {
		return map[string]interface{}{
			"error":   validationErr.Message,
			"example": validationErr.Example,
		}
	}

	var authErr *bakalari.AuthError
	if errors.As(err, &authErr) {
		return map[string]interface{}{"error": "authentication error: " + authErr.Error()}
	}

	var apiErr *bakalari.APIError
	if errors.As(err, &apiErr) {
		return map[string]interface{}{"error": "API error: " + apiErr.Error()}
	}

	return map[string]interface{}{"error": "unexpected error: " + err.Error()}
}
