package v1

import (
	"go-hr-tracker/internal/delivery/http/middleware"
	"go-hr-tracker/internal/delivery/http/response"
	"go-hr-tracker/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsUC domain.StatsUsecase
}

// NewStatsHandler registers the statistics route
func NewStatsHandler(r *gin.RouterGroup, statsUC domain.StatsUsecase) {
	handler := &StatsHandler{statsUC: statsUC}
	r.GET("/statistics", handler.GetStatistics)
}

// GetStatistics godoc
// @Summary      Recruitment statistics
// @Description  Per-stage and per-source counts, average stage dwell time, average candidates per vacancy and SLA violations, within the caller's scope
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.StatsSummary}
// @Failure      403  {object}  response.Response
// @Router       /statistics [get]
// @Security     BearerAuth
func (h *StatsHandler) GetStatistics(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	summary, err := h.statsUC.GetSummary(c.Request.Context(), caller)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Statistics retrieved", summary)
}
