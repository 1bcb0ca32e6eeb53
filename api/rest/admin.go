package rest

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/fighterdemo/server/api/envelope"
	mw "github.com/kasuganosora/fighterdemo/server/middleware"
	"github.com/kasuganosora/fighterdemo/server/seed"
	"go.uber.org/zap"
)

// AdminHandler handles admin-only REST endpoints.
// Routes should be protected by middleware.AdminAuth.
type AdminHandler struct {
	seeder *seed.Seeder
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(seeder *seed.Seeder, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{seeder: seeder, logger: logger}
}

// Seed wipes the fighter table and reloads the demo roster.
// POST /admin/seed
func (h *AdminHandler) Seed(c *gin.Context) {
	fighters, err := h.seeder.Run(c.Request.Context(), mw.GetTraceID(c))
	if errors.Is(err, seed.ErrInProgress) {
		envelope.Fail(c, envelope.CodeSeedInProgress, err.Error())
		return
	}
	if err != nil {
		_ = c.Error(err)
		h.logger.Error("admin seed failed", zap.Error(err), zap.String("trace_id", mw.GetTraceID(c)))
		envelope.Fail(c, envelope.CodeInternal, "internal error")
		return
	}
	envelope.OK(c, fighters)
}
