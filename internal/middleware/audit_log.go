// Package middleware provides audit logging utilities.
package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/service"
)

// AuditLog records a packing action for audit purposes, such as a slip being
// generated or previewed. invoiceID may be empty for actions without an invoice.
func AuditLog(loggingService service.LoggingService, c *gin.Context, actionType, invoiceID, message string, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}

	entry := newAuditEntry(c, "info", actionType, invoiceID, message, fields)
	storeLogEntry(loggingService, entry)
}

// AuditLogError records a failed packing action for audit purposes.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, actionType, invoiceID, message string, err error, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}

	entry := newAuditEntry(c, "error", actionType, invoiceID, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	storeLogEntry(loggingService, entry)
}

func newAuditEntry(c *gin.Context, level, actionType, invoiceID, message string, fields map[string]interface{}) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Subject:    GetSubject(c),
		ActionType: actionType,
		InvoiceID:  invoiceID,
	}
	if len(fields) > 0 {
		entry.WithFields(fields)
	}
	return entry
}

// storeLogEntry hands the entry to the async logger's worker pool when one is
// running, otherwise writes it from a short-lived goroutine.
func storeLogEntry(loggingService service.LoggingService, entry *model.LogEntry) {
	if asyncLogger := GetAsyncLogger(); asyncLogger != nil {
		asyncLogger.Log(entry)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = loggingService.CreateLog(ctx, entry)
	}()
}
