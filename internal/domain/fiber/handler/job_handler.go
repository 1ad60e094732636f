package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hiredeck/hiredeck/internal/model"
	"github.com/hiredeck/hiredeck/internal/usecase"
	"github.com/hiredeck/hiredeck/internal/util"
)

type JobHandler struct {
	uc *usecase.JobUsecase
}

func NewJobHandler(uc *usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(app *fiber.App, protected fiber.Handler) {
	app.Get("/jobs", protected, h.List)
	app.Post("/jobs", protected, h.Create)
	app.Get("/jobs/:id", protected, h.Get)
}

type jobRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Requirements   string     `json:"requirements"`
	RequiredSkills []string   `json:"required_skills"`
	TemplateID     *uuid.UUID `json:"template_id"`
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}
	jobs, err := h.uc.List(c.Context(), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get jobs",
		Data:    jobs,
	})
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}

	var req jobRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid request body",
		}, err)
	}

	job := &model.Job{
		TenantID:       tenantID,
		Title:          req.Title,
		Description:    req.Description,
		Requirements:   req.Requirements,
		RequiredSkills: pq.StringArray(req.RequiredSkills),
		TemplateID:     req.TemplateID,
	}
	if err := h.uc.Create(c.Context(), job); err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create job",
		Data:    job,
	})
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid job id",
		}, err)
	}
	job, err := h.uc.Get(c.Context(), tenantID, id)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job",
		Data:    job,
	})
}
