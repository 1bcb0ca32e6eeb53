package main

import (
	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/fighterdemo/server/api/docs"
	"github.com/kasuganosora/fighterdemo/server/api/envelope"
	apirest "github.com/kasuganosora/fighterdemo/server/api/rest"
	"github.com/kasuganosora/fighterdemo/server/audit"
	"github.com/kasuganosora/fighterdemo/server/config"
	mw "github.com/kasuganosora/fighterdemo/server/middleware"
	"github.com/kasuganosora/fighterdemo/server/seed"
	"github.com/kasuganosora/fighterdemo/server/store"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type deps struct {
	store  store.FighterStore
	seeder *seed.Seeder
	audit  *audit.Service
	logger *zap.Logger
}

// buildRouter wires middleware and every route onto a fresh engine.
func buildRouter(cfg *config.Config, d deps) (*gin.Engine, error) {
	r := gin.New()
	// Match on the escaped path so %2F stays inside one segment. Handlers
	// percent-decode params themselves; gin's unescape would turn + into a space.
	r.UseRawPath = true
	r.UnescapePathValues = false

	r.Use(mw.TraceID(), mw.Logger(d.logger), mw.Recovery(d.logger))
	r.Use(mw.CORS(cfg.Security.AllowedOrigins))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.NoRoute(func(c *gin.Context) {
		envelope.Fail(c, envelope.CodeNoRoute, "route not found")
	})

	r.GET("/health", apirest.Health(d.store, d.logger))

	fighterH := apirest.NewFighterHandler(d.store, d.audit, d.logger)
	fighterH.Register(r.Group("/fighter"))

	ipFilter, err := mw.IPWhitelist(cfg.Security.AdminAllowedIPs)
	if err != nil {
		return nil, err
	}
	adminH := apirest.NewAdminHandler(d.seeder, d.logger)
	adminG := r.Group("/admin", ipFilter, mw.AdminAuth(cfg.Server.AdminKey))
	adminG.POST("/seed", adminH.Seed)

	docs.Register(r, cfg.Docs.Path)
	return r, nil
}
