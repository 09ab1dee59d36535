package dashboard

import (
	"github.com/gin-gonic/gin"

	statsService "github.com/jwalitptl/salon-api/internal/service/stats"
	"github.com/jwalitptl/salon-api/pkg/httputil"
)

type Handler struct {
	service statsService.StatsServicer
}

func NewHandler(service statsService.StatsServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/stats", h.GetStats)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}
