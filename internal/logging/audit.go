package logging

import (
	"time"

	"go.uber.org/zap"
)

// AuditEventType names a lifecycle event worth keeping a trail of.
type AuditEventType string

const (
	AuditVerifyStarted   AuditEventType = "verify_started"
	AuditVerifyDeclined  AuditEventType = "verify_declined"
	AuditVerifyRejected  AuditEventType = "verify_rejected"
	AuditVerifyConfirmed AuditEventType = "verify_confirmed"
	AuditCancelStarted   AuditEventType = "cancel_started"
	AuditCancelDeclined  AuditEventType = "cancel_declined"
	AuditCancelConfirmed AuditEventType = "cancel_confirmed"
	AuditWorkflowAborted AuditEventType = "workflow_aborted"
	AuditMutationFailed  AuditEventType = "mutation_failed"
)

// AuditEvent is a structured audit log entry.
type AuditEvent struct {
	EventType AuditEventType
	OrderID   string
	RequestID string
	Success   bool
	Duration  time.Duration
	Error     string
	Message   string
}

// AuditLogger writes audit events to the audit category.
type AuditLogger struct {
	sessionID string
}

// Audit returns an audit logger without session scope.
func Audit() *AuditLogger { return &AuditLogger{} }

// AuditWithSession creates an audit logger scoped to a desk session.
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// Log writes an audit event.
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsCategoryEnabled(CategoryAudit) {
		return
	}
	fields := []zap.Field{
		zap.String("category", string(CategoryAudit)),
		zap.String("event", string(event.EventType)),
		zap.String("order", event.OrderID),
		zap.Bool("success", event.Success),
	}
	if a.sessionID != "" {
		fields = append(fields, zap.String("session", a.sessionID))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request", event.RequestID))
	}
	if event.Duration > 0 {
		fields = append(fields, zap.Duration("duration", event.Duration))
	}
	if event.Error != "" {
		fields = append(fields, zap.String("error", event.Error))
	}
	msg := event.Message
	if msg == "" {
		msg = string(event.EventType)
	}
	Zap().Info(msg, fields...)
}

// Event is shorthand for logging an event with only a type and order id.
func (a *AuditLogger) Event(t AuditEventType, orderID string, success bool) {
	a.Log(AuditEvent{EventType: t, OrderID: orderID, Success: success})
}
