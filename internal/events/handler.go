package events

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tsunagu-circle/backend/internal/i18n"
	"github.com/tsunagu-circle/backend/internal/models"
	"github.com/tsunagu-circle/backend/pkg/response"
)

// Catalog is the read surface the handler needs.
type Catalog interface {
	ListUpcoming(ctx context.Context, limit int) ([]models.Event, error)
	ListPast(ctx context.Context, limit int) ([]models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
}

// Handler serves the public event catalog endpoints.
type Handler struct {
	catalog       Catalog
	upcomingLimit int
	pastLimit     int
	logger        *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(catalog Catalog, upcomingLimit, pastLimit int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{catalog: catalog, upcomingLimit: upcomingLimit, pastLimit: pastLimit, logger: logger}
}

// ListUpcoming handles GET /events/upcoming.
func (h *Handler) ListUpcoming(c *gin.Context) {
	list, err := h.catalog.ListUpcoming(c.Request.Context(), h.upcomingLimit)
	if err != nil {
		h.logger.Error("list upcoming events failed", zap.Error(err))
		response.BadGateway(c, i18n.T(i18n.FromContext(c), i18n.MsgGenericError))
		return
	}
	if list == nil {
		list = []models.Event{}
	}
	response.OK(c, list)
}

// ListPast handles GET /events/past.
func (h *Handler) ListPast(c *gin.Context) {
	list, err := h.catalog.ListPast(c.Request.Context(), h.pastLimit)
	if err != nil {
		h.logger.Error("list past events failed", zap.Error(err))
		response.BadGateway(c, i18n.T(i18n.FromContext(c), i18n.MsgGenericError))
		return
	}
	if list == nil {
		list = []models.Event{}
	}
	response.OK(c, list)
}

// GetBySlug handles GET /events/:slug. A missing event is 404, a platform
// failure is 502; the two are never collapsed into one state.
func (h *Handler) GetBySlug(c *gin.Context) {
	lang := i18n.FromContext(c)
	ev, err := h.catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, i18n.T(lang, i18n.MsgEventNotFound))
			return
		}
		h.logger.Error("get event failed", zap.Error(err), zap.String("slug", c.Param("slug")))
		response.BadGateway(c, i18n.T(lang, i18n.MsgGenericError))
		return
	}
	response.OK(c, ev)
}
