package model

import (
	"maps"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit action types recorded for packing operations.
const (
	ActionGeneratePackingSlip = "generate_packing_slip"
	ActionPreviewPackingSlip  = "preview_packing_slip"
	ActionCalculateBoxes      = "calculate_boxes"
	ActionReleaseReservation  = "release_reservation"
)

// LogEntry is a request or audit log document.
// Fields carries any action-specific context.
type LogEntry struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
	Level      string                 `bson:"level" json:"level"`
	Message    string                 `bson:"message" json:"message"`
	RequestID  string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string                 `bson:"method,omitempty" json:"method,omitempty"`
	Path       string                 `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64                  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string                 `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string                 `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error      string                 `bson:"error,omitempty" json:"error,omitempty"`
	Subject    string                 `bson:"subject,omitempty" json:"subject,omitempty"`
	ActionType string                 `bson:"action_type,omitempty" json:"action_type,omitempty"`
	InvoiceID  string                 `bson:"invoice_id,omitempty" json:"invoice_id,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// WithField sets one action-specific field and returns e for chaining.
func (e *LogEntry) WithField(key string, value interface{}) *LogEntry {
	return e.WithFields(map[string]interface{}{key: value})
}

// WithFields copies fields into the entry. Later values win; the caller's
// map is never retained.
func (e *LogEntry) WithFields(fields map[string]interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{}, len(fields))
	}
	maps.Copy(e.Fields, fields)
	return e
}

// LogQuery selects stored log entries. Empty fields and zero times do not
// filter; Since is inclusive and Until exclusive.
type LogQuery struct {
	RequestID  string
	Level      string
	ActionType string
	InvoiceID  string
	Subject    string
	Since      time.Time
	Until      time.Time
	Limit      int
	Skip       int
}
