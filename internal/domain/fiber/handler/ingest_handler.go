package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/usecase"
	"github.com/hiredeck/hiredeck/internal/util"
)

type IngestHandler struct {
	uc *usecase.IngestionUsecase
}

func NewIngestHandler(uc *usecase.IngestionUsecase) *IngestHandler {
	return &IngestHandler{uc: uc}
}

func (h *IngestHandler) RegisterRoutes(app *fiber.App, trigger fiber.Handler) {
	app.Post("/ingest/run", trigger, h.Run)
}

// Run executes one full intake cycle. Meant to be called by an external
// scheduler; concurrent invocations are safe because promotion is idempotent.
func (h *IngestHandler) Run(c *fiber.Ctx) error {
	report, err := h.uc.Run(c.Context())
	if err != nil {
		var cfgErr *apperror.ConfigurationError
		if errors.As(err, &cfgErr) {
			// A misconfigured deployment is a server fault, not a bad request.
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code: fiber.StatusInternalServerError, Message: cfgErr.Error(),
			}, err)
		}
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Ingestion run completed",
		Data:    report,
	})
}
