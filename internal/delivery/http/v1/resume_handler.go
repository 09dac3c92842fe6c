package v1

import (
	"go-hr-tracker/internal/delivery/http/middleware"
	"go-hr-tracker/internal/delivery/http/response"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/pkg/apperror"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	resumeUC domain.ResumeUsecase
	statsUC  domain.StatsUsecase
}

// NewResumeHandler registers resume routes
func NewResumeHandler(r *gin.RouterGroup, resumeUC domain.ResumeUsecase, statsUC domain.StatsUsecase) {
	handler := &ResumeHandler{resumeUC: resumeUC, statsUC: statsUC}

	resumes := r.Group("/resumes")
	{
		resumes.POST("", handler.UploadResume)
		resumes.GET("", handler.ListResumes)
		resumes.GET("/export", handler.ExportResumes)
		resumes.GET("/:id/history", handler.GetStageHistory)
		resumes.PATCH("/:id/stage", handler.TransitionStage)
	}
}

// UploadResume godoc
// @Summary      Upload a resume
// @Description  Record a resume against a vacancy; writes the initial stage ledger entry
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        body  body      domain.UploadResumeInput  true  "Resume data"
// @Success      201   {object}  response.Response{data=domain.Resume}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /resumes [post]
// @Security     BearerAuth
func (h *ResumeHandler) UploadResume(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	var input domain.UploadResumeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	resume, err := h.resumeUC.UploadResume(c.Request.Context(), caller, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Resume uploaded", resume)
}

// TransitionStageRequest is the request payload for a stage transition
type TransitionStageRequest struct {
	NewStage string `json:"new_stage" binding:"required,min=1,max=100"`
}

// TransitionStage godoc
// @Summary      Transition a resume to a new stage
// @Description  Updates current_stage and appends a stage history entry
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "Resume ID"
// @Param        body  body      TransitionStageRequest  true  "New stage"
// @Success      200   {object}  response.Response{data=domain.Resume}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /resumes/{id}/stage [patch]
// @Security     BearerAuth
func (h *ResumeHandler) TransitionStage(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid resume ID"))
		return
	}

	var req TransitionStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	resume, err := h.resumeUC.TransitionStage(c.Request.Context(), caller, id, req.NewStage)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Stage updated", resume)
}

// ListResumes godoc
// @Summary      List resumes
// @Description  Scoped, filtered resume list. Filters combine with AND; dates are inclusive.
// @Tags         resumes
// @Produce      json
// @Param        stage       query     string  false  "Stage equality filter"
// @Param        vacancy_id  query     int     false  "Vacancy filter"
// @Param        start_date  query     string  false  "Created-at lower bound (RFC 3339)"
// @Param        end_date    query     string  false  "Created-at upper bound (RFC 3339)"
// @Param        sort_by     query     string  false  "created_at or sla_due"
// @Param        sort_order  query     string  false  "asc or desc"
// @Success      200  {object}  response.Response{data=[]domain.Resume}
// @Failure      400  {object}  response.Response
// @Router       /resumes [get]
// @Security     BearerAuth
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	filter, err := parseResumeFilter(c)
	if err != nil {
		c.Error(err)
		return
	}

	resumes, err := h.resumeUC.ListResumes(c.Request.Context(), caller, filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resumes retrieved", resumes)
}

// GetStageHistory godoc
// @Summary      Stage history for a resume
// @Description  Append-only ledger entries ordered by entry time
// @Tags         resumes
// @Produce      json
// @Param        id  path      int  true  "Resume ID"
// @Success      200 {object}  response.Response{data=[]domain.StageEntry}
// @Failure      404 {object}  response.Response
// @Router       /resumes/{id}/history [get]
// @Security     BearerAuth
func (h *ResumeHandler) GetStageHistory(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid resume ID"))
		return
	}

	entries, err := h.resumeUC.GetStageHistory(c.Request.Context(), caller, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Stage history retrieved", entries)
}

// ExportResumes godoc
// @Summary      Export resumes
// @Description  Download the scoped, filtered resume list as XLSX or CSV
// @Tags         resumes
// @Produce      application/octet-stream
// @Param        format  query  string  false  "xlsx (default) or csv"
// @Success      200
// @Failure      400  {object}  response.Response
// @Router       /resumes/export [get]
// @Security     BearerAuth
func (h *ResumeHandler) ExportResumes(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	filter, err := parseResumeFilter(c)
	if err != nil {
		c.Error(err)
		return
	}

	format := c.DefaultQuery("format", domain.ExportFormatXLSX)
	content, filename, err := h.statsUC.ExportResumes(c.Request.Context(), caller, filter, format)
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == domain.ExportFormatCSV {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, content)
}

// parseResumeFilter reads the shared list/export query parameters.
func parseResumeFilter(c *gin.Context) (domain.ResumeFilter, error) {
	var filter domain.ResumeFilter

	if stage := c.Query("stage"); stage != "" {
		filter.Stage = &stage
	}

	if vacancyStr := c.Query("vacancy_id"); vacancyStr != "" {
		vacancyID, err := strconv.ParseInt(vacancyStr, 10, 64)
		if err != nil {
			return filter, apperror.BadRequest("Invalid vacancy_id")
		}
		filter.VacancyID = &vacancyID
	}

	if startStr := c.Query("start_date"); startStr != "" {
		start, err := parseDate(startStr)
		if err != nil {
			return filter, apperror.BadRequest("Invalid start_date, expected RFC 3339 or YYYY-MM-DD")
		}
		filter.StartDate = &start
	}

	if endStr := c.Query("end_date"); endStr != "" {
		end, err := parseDate(endStr)
		if err != nil {
			return filter, apperror.BadRequest("Invalid end_date, expected RFC 3339 or YYYY-MM-DD")
		}
		filter.EndDate = &end
	}

	filter.SortBy = c.Query("sort_by")
	filter.SortOrder = c.Query("sort_order")
	return filter, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
