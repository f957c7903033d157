package auth

import "go.uber.org/zap"

// Audit event names emitted by VendorServiceImpl.
const (
	AuditTokenIssued     = "token issued for user"
	AuditDetailsReturned = "details returned for user"
	AuditProfileSaved    = "profile saved for user"
)

// AuditLogger records security-relevant events at the collaborator boundary.
//
// Events carry the username only: secrets and profile fields never reach the
// audit sink. Emit is fire-and-forget; implementations must never fail the
// calling operation.
type AuditLogger interface {
	Emit(eventName string, username string)
}

// ZapAuditLogger emits audit events as structured zap entries.
type ZapAuditLogger struct {
	Logger *zap.Logger
}

// Emit implements AuditLogger.
func (l ZapAuditLogger) Emit(eventName string, username string) {
	l.Logger.Info(eventName, zap.String("username", username))
}

// NopAuditLogger discards audit events.
type NopAuditLogger struct{}

// Emit implements AuditLogger.
func (NopAuditLogger) Emit(string, string) {}
