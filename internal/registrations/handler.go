package registrations

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tsunagu-circle/backend/internal/i18n"
	"github.com/tsunagu-circle/backend/internal/models"
	"github.com/tsunagu-circle/backend/pkg/response"
)

// Handler serves the public registration endpoints.
type Handler struct {
	workflow *Workflow
	logger   *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(workflow *Workflow, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{workflow: workflow, logger: logger}
}

// Availability handles GET /events/:slug/availability. Also hit when the
// page regains foreground visibility, so the displayed state converges on the
// authoritative count between load and submit.
func (h *Handler) Availability(c *gin.Context) {
	lang := i18n.FromContext(c)
	ev, avail, err := h.workflow.Availability(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, i18n.T(lang, i18n.MsgEventNotFound))
			return
		}
		h.logger.Error("availability resolve failed", zap.Error(err), zap.String("slug", c.Param("slug")))
		response.BadGateway(c, i18n.T(lang, i18n.MsgGenericError))
		return
	}
	response.OK(c, gin.H{"event_id": ev.ID, "availability": avail})
}

// Register handles POST /events/:slug/register.
func (h *Handler) Register(c *gin.Context) {
	lang := i18n.FromContext(c)

	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	outcome, err := h.workflow.Submit(c.Request.Context(), lang, c.Param("slug"), form)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, i18n.T(lang, i18n.MsgEventNotFound))
			return
		}
		h.logger.Error("registration submit failed", zap.Error(err), zap.String("slug", c.Param("slug")))
		response.BadGateway(c, i18n.T(lang, i18n.MsgGenericError))
		return
	}

	switch outcome.Status {
	case OutcomeSucceeded:
		response.Created(c, outcome)
	case OutcomeRejectedValidation:
		response.Rejected(c, outcome.Field, outcome.Message)
	case OutcomeRejectedUnavailable:
		response.Conflict(c, string(outcome.Availability.Status), outcome.Message, outcome)
	case OutcomeRejectedFull:
		response.Conflict(c, reasonFull, outcome.Message, outcome)
	case OutcomeRejectedInvalid:
		response.NotFound(c, outcome.Message)
	default:
		response.BadGateway(c, outcome.Message)
	}
}
