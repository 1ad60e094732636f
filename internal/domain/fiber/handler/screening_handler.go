package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/dto"
	"github.com/hiredeck/hiredeck/internal/model"
	"github.com/hiredeck/hiredeck/internal/util"
)

type batchScreener interface {
	ScoreBatch(ctx context.Context, tenantID uuid.UUID) (*dto.BatchReport, error)
}

type ScreeningHandler struct {
	uc batchScreener
}

func NewScreeningHandler(uc batchScreener) *ScreeningHandler {
	return &ScreeningHandler{uc: uc}
}

func (h *ScreeningHandler) RegisterRoutes(app *fiber.App, protected fiber.Handler) {
	app.Post("/screening/batch", protected, h.Batch)
}

// Batch re-scores every not-yet-screened application for the caller's tenant.
// Items settle independently; the report lists both successes and failures.
// Only hiring staff may trigger a tenant-wide batch.
func (h *ScreeningHandler) Batch(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}

	actor := actorFromLocals(c)
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleHR {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusForbidden, Message: "Access denied",
		})
	}

	report, err := h.uc.ScoreBatch(c.Context(), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Batch screening completed",
		Data:    report,
	})
}
