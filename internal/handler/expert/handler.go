package expert

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/salon-api/internal/handler"
	"github.com/jwalitptl/salon-api/internal/model"
	expertService "github.com/jwalitptl/salon-api/internal/service/expert"
	"github.com/jwalitptl/salon-api/pkg/httputil"
)

type Handler struct {
	service expertService.ExpertServicer
}

func NewHandler(service expertService.ExpertServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	experts := r.Group("/experts")
	{
		experts.POST("", h.CreateExpert)
		experts.GET("", h.ListExperts)
		experts.GET("/:id", h.GetExpert)
		experts.PUT("/:id", h.UpdateExpert)
		experts.DELETE("/:id", h.DeleteExpert)
	}
}

func (h *Handler) CreateExpert(c *gin.Context) {
	var req model.ExpertRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	expert, err := h.service.CreateExpert(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, expert)
}

func (h *Handler) ListExperts(c *gin.Context) {
	experts, err := h.service.ListExperts(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, experts)
}

func (h *Handler) GetExpert(c *gin.Context) {
	id, ok := handler.ParseID(c, "expert")
	if !ok {
		return
	}

	expert, err := h.service.GetExpert(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, expert)
}

func (h *Handler) UpdateExpert(c *gin.Context) {
	id, ok := handler.ParseID(c, "expert")
	if !ok {
		return
	}
	var req model.ExpertRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	expert, err := h.service.UpdateExpert(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, expert)
}

func (h *Handler) DeleteExpert(c *gin.Context) {
	id, ok := handler.ParseID(c, "expert")
	if !ok {
		return
	}

	if err := h.service.DeleteExpert(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithDeleted(c)
}
