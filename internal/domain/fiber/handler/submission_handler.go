package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hiredeck/hiredeck/internal/dto"
	"github.com/hiredeck/hiredeck/internal/repository"
	"github.com/hiredeck/hiredeck/internal/response"
	"github.com/hiredeck/hiredeck/internal/util"
)

type SubmissionHandler struct {
	submissions *repository.SubmissionRepository
}

func NewSubmissionHandler(submissions *repository.SubmissionRepository) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

func (h *SubmissionHandler) RegisterRoutes(app *fiber.App, protected fiber.Handler) {
	app.Get("/submissions", protected, h.List)
}

func (h *SubmissionHandler) List(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	subs, total, err := h.submissions.ListByTenant(c.Context(), tenantID, page, pageSize)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]dto.SubmissionDTO, 0, len(subs))
	for i := range subs {
		items = append(items, dto.NewSubmissionDTO(&subs[i]))
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get submissions",
		Data:       items,
		Pagination: response.NewPagination(page, pageSize, len(items), total),
	})
}
