package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/middleware"
	"github.com/hiredeck/hiredeck/internal/usecase"
	"github.com/hiredeck/hiredeck/internal/util"
)

// respondError maps domain errors onto the HTTP error envelope.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperror.ErrUnauthorized):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		}, err)
	case errors.Is(err, apperror.ErrAccessDenied):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusForbidden, Message: "Access denied",
		}, err)
	case errors.Is(err, apperror.ErrNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusNotFound, Message: "Resource not found",
		}, err)
	case errors.Is(err, apperror.ErrIllegalTransition):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusConflict, Message: err.Error(),
		}, err)
	case apperror.IsConfiguration(err):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: err.Error(),
		}, err)
	case apperror.IsInvalidResponse(err):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadGateway, Message: "Screening service returned an unusable response",
		}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusInternalServerError, Message: "Internal server error",
		}, err)
	}
}

// actorFromLocals rebuilds the acting identity the auth middleware extracted.
func actorFromLocals(c *fiber.Ctx) usecase.Actor {
	actor := usecase.Actor{}
	if v, ok := c.Locals(middleware.LocalUserID).(uuid.UUID); ok {
		actor.UserID = v
	}
	if v, ok := c.Locals(middleware.LocalTenantID).(uuid.UUID); ok {
		actor.TenantID = v
	}
	if v, ok := c.Locals(middleware.LocalRole).(string); ok {
		actor.Role = v
	}
	return actor
}

func tenantFromLocals(c *fiber.Ctx) (uuid.UUID, bool) {
	v, ok := c.Locals(middleware.LocalTenantID).(uuid.UUID)
	return v, ok
}
