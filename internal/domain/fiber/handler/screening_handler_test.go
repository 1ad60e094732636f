package handler

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/dto"
	"github.com/hiredeck/hiredeck/internal/middleware"
	"github.com/hiredeck/hiredeck/internal/model"
)

type stubBatchScreener struct {
	calls    int
	tenantID uuid.UUID
}

func (s *stubBatchScreener) ScoreBatch(_ context.Context, tenantID uuid.UUID) (*dto.BatchReport, error) {
	s.calls++
	s.tenantID = tenantID
	return &dto.BatchReport{Scored: 2}, nil
}

// identityLocals stands in for the auth middleware with a fixed identity.
func identityLocals(tenantID uuid.UUID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tenantID != uuid.Nil {
			c.Locals(middleware.LocalUserID, uuid.New())
			c.Locals(middleware.LocalTenantID, tenantID)
			c.Locals(middleware.LocalRole, role)
		}
		return c.Next()
	}
}

func TestBatchRequiresHiringRole(t *testing.T) {
	tenantID := uuid.New()
	tests := []struct {
		name       string
		tenantID   uuid.UUID
		role       string
		wantStatus int
		wantCalls  int
	}{
		{"hr allowed", tenantID, model.RoleHR, fiber.StatusOK, 1},
		{"admin allowed", tenantID, model.RoleAdmin, fiber.StatusOK, 1},
		{"candidate denied", tenantID, model.RoleCandidate, fiber.StatusForbidden, 0},
		{"empty role denied", tenantID, "", fiber.StatusForbidden, 0},
		{"unauthenticated", uuid.Nil, "", fiber.StatusUnauthorized, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screener := &stubBatchScreener{}
			app := fiber.New()
			NewScreeningHandler(screener).RegisterRoutes(app, identityLocals(tt.tenantID, tt.role))

			resp, err := app.Test(httptest.NewRequest("POST", "/screening/batch", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if screener.calls != tt.wantCalls {
				t.Errorf("ScoreBatch calls = %d, want %d", screener.calls, tt.wantCalls)
			}
			if tt.wantCalls == 1 && screener.tenantID != tenantID {
				t.Errorf("ScoreBatch tenant = %s, want %s", screener.tenantID, tenantID)
			}
		})
	}
}
