package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/dto"
	"github.com/hiredeck/hiredeck/internal/repository"
	"github.com/hiredeck/hiredeck/internal/usecase"
	"github.com/hiredeck/hiredeck/internal/util"
)

type ApplicationHandler struct {
	pipeline     *usecase.PipelineUsecase
	applications *repository.ApplicationRepository
}

func NewApplicationHandler(pipeline *usecase.PipelineUsecase, applications *repository.ApplicationRepository) *ApplicationHandler {
	return &ApplicationHandler{pipeline: pipeline, applications: applications}
}

func (h *ApplicationHandler) RegisterRoutes(app *fiber.App, protected fiber.Handler) {
	app.Get("/applications", protected, h.List)
	app.Get("/applications/:id", protected, h.Get)
	app.Patch("/applications/:id/status", protected, h.UpdateStatus)
	app.Post("/applications/:id/override", protected, h.Override)
}

// List returns the tenant's applications, grouped by status when the Kanban
// view is requested with ?view=board.
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}

	apps, err := h.applications.ListByTenant(c.Context(), tenantID)
	if err != nil {
		return respondError(c, err)
	}

	if c.Query("view") == "board" {
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Message: "Success get application board",
			Data:    dto.NewBoard(apps),
		})
	}

	items := make([]dto.ApplicationDTO, 0, len(apps))
	for i := range apps {
		items = append(items, dto.NewApplicationDTO(&apps[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get applications",
		Data:    items,
	})
}

func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid application id",
		}, err)
	}

	app, err := h.pipeline.Get(c.Context(), actorFromLocals(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get application",
		Data:    dto.NewApplicationDTO(app),
	})
}

type transitionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus moves an application along the normal pipeline path.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	return h.transition(c, false)
}

// Override jumps an application to a decision status, bypassing the normal
// path. Terminal applications can never be overridden.
func (h *ApplicationHandler) Override(c *fiber.Ctx) error {
	return h.transition(c, true)
}

func (h *ApplicationHandler) transition(c *fiber.Ctx, override bool) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid application id",
		}, err)
	}

	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid request body",
		}, err)
	}
	if req.Status == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "status is required",
		})
	}

	app, err := h.pipeline.Transition(c.Context(), actorFromLocals(c), id, req.Status, req.Notes, override)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update application status",
		Data:    dto.NewApplicationDTO(app),
	})
}
