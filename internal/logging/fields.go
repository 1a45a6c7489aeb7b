package logging

import "log/slog"

// Common field names for consistent logging across the service.
const (
	FieldService   = "service"
	FieldProvider  = "provider"
	FieldProjectID = "project_id"
	FieldEventID   = "event_id"
	FieldReason    = "reason"
	FieldStatus    = "status"
	FieldError     = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Provider returns a slog attribute for the webhook provider name.
func Provider(name string) slog.Attr {
	return slog.String(FieldProvider, name)
}

// ProjectID returns a slog attribute for the project ID.
func ProjectID(id string) slog.Attr {
	return slog.String(FieldProjectID, id)
}

// EventID returns a slog attribute for an external event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// Reason returns a slog attribute for a rejection reason code.
func Reason(reason string) slog.Attr {
	return slog.String(FieldReason, reason)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
