package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hiredeck/hiredeck/internal/model"
	"github.com/hiredeck/hiredeck/internal/repository"
	"github.com/hiredeck/hiredeck/internal/util"
)

type TemplateHandler struct {
	templates *repository.TemplateRepository
}

func NewTemplateHandler(templates *repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

func (h *TemplateHandler) RegisterRoutes(app *fiber.App, protected fiber.Handler) {
	app.Get("/templates", protected, h.List)
	app.Post("/templates", protected, h.Create)
	app.Get("/templates/:id", protected, h.Get)
	app.Put("/templates/:id", protected, h.Update)
	app.Delete("/templates/:id", protected, h.Delete)
}

type templateRequest struct {
	Name               string   `json:"name"`
	SystemPrompt       string   `json:"system_prompt"`
	CulturalValues     []string `json:"cultural_values"`
	EvaluationCriteria string   `json:"evaluation_criteria"`
	TechnicalWeight    int      `json:"technical_weight"`
	CulturalWeight     int      `json:"cultural_weight"`
	MinPassingScore    int      `json:"min_passing_score"`
	AutoRejectBelow    int      `json:"auto_reject_below"`
	IsDefault          bool     `json:"is_default"`
}

func (r *templateRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.Name == "" {
		errs["name"] = "name is required"
	}
	if r.TechnicalWeight+r.CulturalWeight != 100 && (r.TechnicalWeight != 0 || r.CulturalWeight != 0) {
		errs["technical_weight"] = "technical_weight and cultural_weight must sum to 100"
	}
	return errs
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}
	tpls, err := h.templates.ListByTenant(c.Context(), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get screening templates",
		Data:    tpls,
	})
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}

	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid request body",
		}, err)
	}
	if errs := req.validate(); len(errs) > 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Validation failed", Details: errs,
		})
	}

	tpl := h.apply(&model.ScreeningTemplate{TenantID: tenantID}, &req)
	if err := h.templates.Create(c.Context(), tpl); err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create screening template",
		Data:    tpl,
	})
}

func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid template id",
		}, err)
	}
	tpl, err := h.templates.FindByID(c.Context(), tenantID, id)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get screening template",
		Data:    tpl,
	})
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid template id",
		}, err)
	}

	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid request body",
		}, err)
	}
	if errs := req.validate(); len(errs) > 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Validation failed", Details: errs,
		})
	}

	tpl, err := h.templates.FindByID(c.Context(), tenantID, id)
	if err != nil {
		return respondError(c, err)
	}
	h.apply(tpl, &req)
	if err := h.templates.Update(c.Context(), tpl); err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update screening template",
		Data:    tpl,
	})
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	tenantID, ok := tenantFromLocals(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "Authentication required",
		})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "Invalid template id",
		}, err)
	}
	if err := h.templates.Delete(c.Context(), tenantID, id); err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success delete screening template",
	})
}

func (h *TemplateHandler) apply(tpl *model.ScreeningTemplate, req *templateRequest) *model.ScreeningTemplate {
	tpl.Name = req.Name
	tpl.SystemPrompt = req.SystemPrompt
	tpl.CulturalValues = pq.StringArray(req.CulturalValues)
	tpl.EvaluationCriteria = req.EvaluationCriteria
	if req.TechnicalWeight != 0 || req.CulturalWeight != 0 {
		tpl.TechnicalWeight = req.TechnicalWeight
		tpl.CulturalWeight = req.CulturalWeight
	}
	tpl.MinPassingScore = req.MinPassingScore
	tpl.AutoRejectBelow = req.AutoRejectBelow
	tpl.IsDefault = req.IsDefault
	return tpl
}
