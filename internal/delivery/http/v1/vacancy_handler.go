package v1

import (
	"go-hr-tracker/internal/delivery/http/middleware"
	"go-hr-tracker/internal/delivery/http/response"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/pkg/apperror"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VacancyHandler struct {
	vacancyUC domain.VacancyUsecase
}

// NewVacancyHandler registers vacancy routes
func NewVacancyHandler(r *gin.RouterGroup, vacancyUC domain.VacancyUsecase) {
	handler := &VacancyHandler{vacancyUC: vacancyUC}

	vacancies := r.Group("/vacancies")
	{
		vacancies.POST("", handler.CreateVacancy)
		vacancies.GET("", handler.ListVacancies)
	}
}

// CreateVacancyRequest is the request payload for vacancy creation
type CreateVacancyRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// CreateVacancy godoc
// @Summary      Create a vacancy
// @Description  Record a new vacancy (team lead only)
// @Tags         vacancies
// @Accept       json
// @Produce      json
// @Param        body  body      CreateVacancyRequest  true  "Vacancy data"
// @Success      201   {object}  response.Response{data=domain.Vacancy}
// @Failure      403   {object}  response.Response
// @Router       /vacancies [post]
// @Security     BearerAuth
func (h *VacancyHandler) CreateVacancy(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	var req CreateVacancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	vacancy, err := h.vacancyUC.CreateVacancy(c.Request.Context(), caller, req.Title)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Vacancy created", vacancy)
}

// ListVacancies godoc
// @Summary      List vacancies
// @Tags         vacancies
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Vacancy}
// @Router       /vacancies [get]
// @Security     BearerAuth
func (h *VacancyHandler) ListVacancies(c *gin.Context) {
	caller := middleware.CallerFromContext(c)

	vacancies, err := h.vacancyUC.ListVacancies(c.Request.Context(), caller)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Vacancies retrieved", vacancies)
}
