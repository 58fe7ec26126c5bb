package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// captureLogs routes every CreateLog call on store into the returned channel.
func captureLogs(store *mocks.MockLoggingService) <-chan *model.LogEntry {
	entries := make(chan *model.LogEntry, 4)
	store.On("CreateLog", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { entries <- args.Get(1).(*model.LogEntry) }).
		Return(nil)
	return entries
}

func nextEntry(t *testing.T, entries <-chan *model.LogEntry) *model.LogEntry {
	t.Helper()
	select {
	case entry := <-entries:
		return entry
	case <-time.After(time.Second):
		t.Fatal("audit entry was not written")
		return nil
	}
}

// auditRouter serves POST /api/invoices/:invoiceId/packing-slip with record
// as its only work.
func auditRouter(subject string, record func(*gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.POST("/api/invoices/:invoiceId/packing-slip", func(c *gin.Context) {
		if subject != "" {
			c.Set(ContextKeySubject, subject)
		}
		record(c)
		c.Status(http.StatusCreated)
	})
	return router
}

func TestAuditLog_RecordsRequestContext(t *testing.T) {
	StopAsyncLogger()
	store := mocks.NewMockLoggingService(t)
	entries := captureLogs(store)

	router := auditRouter("picker-12", func(c *gin.Context) {
		AuditLog(store, c, model.ActionGeneratePackingSlip, c.Param("invoiceId"), "Packing slip generated",
			map[string]interface{}{"total_boxes": 2})
	})
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/INV-1/packing-slip", nil)
	req.Header.Set(RequestIDHeader, "req-audit-1")
	req.Header.Set("User-Agent", "erp-sync/3.1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := nextEntry(t, entries)
	assert.Equal(t, "info", entry.Level)
	assert.Equal(t, model.ActionGeneratePackingSlip, entry.ActionType)
	assert.Equal(t, "INV-1", entry.InvoiceID)
	assert.Equal(t, "picker-12", entry.Subject)
	assert.Equal(t, "req-audit-1", entry.RequestID)
	assert.Equal(t, http.MethodPost, entry.Method)
	assert.Equal(t, "/api/invoices/INV-1/packing-slip", entry.Path)
	assert.Equal(t, "erp-sync/3.1", entry.UserAgent)
	assert.Equal(t, map[string]interface{}{"total_boxes": 2}, entry.Fields)
	assert.Empty(t, entry.Error)
	assert.WithinDuration(t, time.Now(), entry.Timestamp, time.Minute)
}

func TestAuditLogError_RecordsCause(t *testing.T) {
	StopAsyncLogger()
	store := mocks.NewMockLoggingService(t)
	entries := captureLogs(store)

	router := auditRouter("", func(c *gin.Context) {
		AuditLogError(store, c, model.ActionGeneratePackingSlip, "INV-9", "Packing slip generation failed", assert.AnError, nil)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/invoices/INV-9/packing-slip", nil))

	entry := nextEntry(t, entries)
	assert.Equal(t, "error", entry.Level)
	assert.Equal(t, assert.AnError.Error(), entry.Error)
	assert.Equal(t, "INV-9", entry.InvoiceID)
	assert.Empty(t, entry.Subject)
	assert.Nil(t, entry.Fields)
}

func TestAuditLog_NilStoreIsNoop(t *testing.T) {
	router := auditRouter("picker-12", func(c *gin.Context) {
		AuditLog(nil, c, model.ActionPreviewPackingSlip, "INV-1", "Preview", nil)
		AuditLogError(nil, c, model.ActionPreviewPackingSlip, "INV-1", "Preview failed", assert.AnError, nil)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/invoices/INV-1/packing-slip", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAuditLog_GoesThroughAsyncLogger(t *testing.T) {
	store := mocks.NewMockLoggingService(t)
	entries := captureLogs(store)
	InitAsyncLogger(store, DefaultAsyncLoggerConfig())
	t.Cleanup(StopAsyncLogger)

	router := auditRouter("", func(c *gin.Context) {
		AuditLog(store, c, model.ActionPreviewPackingSlip, "INV-1", "Packing slip previewed", nil)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/invoices/INV-1/packing-slip", nil))

	entry := nextEntry(t, entries)
	assert.Equal(t, model.ActionPreviewPackingSlip, entry.ActionType)
	require.NotNil(t, GetAsyncLogger())
	assert.Equal(t, int64(1), GetAsyncLogger().Stats().Enqueued)
}
