package registrations

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tsunagu-circle/backend/internal/auth"
	"github.com/tsunagu-circle/backend/internal/models"
	"github.com/tsunagu-circle/backend/pkg/queue"
	"github.com/tsunagu-circle/backend/pkg/response"
	"github.com/tsunagu-circle/backend/pkg/storage"
)

// EventByID resolves events by their internal id for staff views.
type EventByID interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// AdminHandler serves the session-guarded roster and documents endpoints.
// Individual registration rows (personal data) leave the service only here.
type AdminHandler struct {
	roster *Repository
	events EventByID
	jobs   *queue.Queue
	docs   *storage.S3 // nil when no documents bucket is configured
	logger *zap.Logger
}

// NewAdminHandler creates the staff handler. docs may be nil.
func NewAdminHandler(roster *Repository, events EventByID, jobs *queue.Queue, docs *storage.S3, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{roster: roster, events: events, jobs: jobs, docs: docs, logger: logger}
}

// ListByEvent handles GET /admin/events/:id/registrations.
func (h *AdminHandler) ListByEvent(c *gin.Context) {
	ev, ok := h.resolveEvent(c)
	if !ok {
		return
	}
	list, err := h.roster.ListByEvent(c.Request.Context(), ev.ID)
	if err != nil {
		h.logger.Error("list roster failed", zap.Error(err), zap.Int64("event_id", ev.ID))
		response.BadGateway(c, "failed to load registrations")
		return
	}
	if list == nil {
		list = []models.Registration{}
	}
	response.OK(c, gin.H{
		"event":         ev,
		"registrations": list,
		"count":         len(list),
	})
}

// Count handles GET /admin/events/:id/registrations/count.
func (h *AdminHandler) Count(c *gin.Context) {
	ev, ok := h.resolveEvent(c)
	if !ok {
		return
	}
	list, err := h.roster.ListByEvent(c.Request.Context(), ev.ID)
	if err != nil {
		h.logger.Error("count roster failed", zap.Error(err), zap.Int64("event_id", ev.ID))
		response.BadGateway(c, "failed to load registrations")
		return
	}
	response.OK(c, gin.H{"event_id": ev.ID, "count": len(list), "capacity": ev.Capacity})
}

// Export handles POST /admin/events/:id/export: hands the CSV build to the
// background worker and returns the job id.
func (h *AdminHandler) Export(c *gin.Context) {
	if h.docs == nil {
		response.ServiceUnavailable(c, "document storage is not configured")
		return
	}
	ev, ok := h.resolveEvent(c)
	if !ok {
		return
	}
	requestedBy, _ := c.Get(auth.ContextUserID)
	staffID, _ := requestedBy.(string)

	jobID, err := h.jobs.EnqueueRosterExport(c.Request.Context(), queue.RosterExportPayload{
		EventID:     ev.ID,
		RequestedBy: staffID,
	})
	if err != nil {
		h.logger.Error("enqueue export failed", zap.Error(err), zap.Int64("event_id", ev.ID))
		response.Internal(c, "failed to queue export")
		return
	}
	response.Accepted(c, gin.H{"job_id": jobID, "event_id": ev.ID})
}

// Documents handles GET /admin/documents.
func (h *AdminHandler) Documents(c *gin.Context) {
	if h.docs == nil {
		response.ServiceUnavailable(c, "document storage is not configured")
		return
	}
	docs, err := h.docs.ListDocuments(c.Request.Context(), storage.FolderExports+"/")
	if err != nil {
		h.logger.Error("list documents failed", zap.Error(err))
		response.BadGateway(c, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []storage.Document{}
	}
	response.OK(c, docs)
}

// DocumentURL handles GET /admin/documents/url?key=...
func (h *AdminHandler) DocumentURL(c *gin.Context) {
	if h.docs == nil {
		response.ServiceUnavailable(c, "document storage is not configured")
		return
	}
	key := c.Query("key")
	if key == "" || !strings.HasPrefix(key, storage.FolderExports+"/") || strings.Contains(key, "..") {
		response.BadRequest(c, "invalid document key")
		return
	}
	url, err := h.docs.PresignDownloadURL(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("presign failed", zap.Error(err), zap.String("key", key))
		response.BadGateway(c, "failed to sign download url")
		return
	}
	response.OK(c, gin.H{"url": url, "expires_in_seconds": int(h.docs.PresignExpire().Seconds())})
}

func (h *AdminHandler) resolveEvent(c *gin.Context) (*models.Event, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid event id")
		return nil, false
	}
	ev, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "event not found")
			return nil, false
		}
		h.logger.Error("get event failed", zap.Error(err), zap.Int64("event_id", id))
		response.BadGateway(c, "failed to load event")
		return nil, false
	}
	return ev, true
}
