package v1

import (
	"go-hr-tracker/internal/delivery/http/middleware"
	"go-hr-tracker/internal/delivery/http/response"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/pkg/apperror"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SLAHandler struct {
	slaUC domain.SLAUsecase
}

// NewSLAHandler registers SLA settings routes
func NewSLAHandler(r *gin.RouterGroup, slaUC domain.SLAUsecase) {
	handler := &SLAHandler{slaUC: slaUC}

	sla := r.Group("/sla-settings")
	{
		sla.GET("", handler.GetSettings)
		sla.PUT("", handler.SetSettings)
	}
}

// GetSettings godoc
// @Summary      SLA settings
// @Description  Configured per-stage dwell limits (team lead only)
// @Tags         sla
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.SLASetting}
// @Failure      403  {object}  response.Response
// @Router       /sla-settings [get]
// @Security     BearerAuth
func (h *SLAHandler) GetSettings(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	settings, err := h.slaUC.GetSettings(c.Request.Context(), caller)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "SLA settings retrieved", settings)
}

// SetSettingsRequest maps stage names to their max_days limits
type SetSettingsRequest struct {
	Settings map[string]int `json:"settings" binding:"required"`
}

// SetSettings godoc
// @Summary      Upsert SLA settings
// @Description  Insert or overwrite the max_days limit per stage (team lead only)
// @Tags         sla
// @Accept       json
// @Produce      json
// @Param        body  body      SetSettingsRequest  true  "Stage limits"
// @Success      200   {object}  response.Response{data=[]domain.SLASetting}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /sla-settings [put]
// @Security     BearerAuth
func (h *SLAHandler) SetSettings(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	var req SetSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	settings, err := h.slaUC.SetSettings(c.Request.Context(), caller, req.Settings)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "SLA settings updated", settings)
}
