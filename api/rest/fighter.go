package rest

import (
	"errors"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/fighterdemo/server/api/envelope"
	"github.com/kasuganosora/fighterdemo/server/audit"
	mw "github.com/kasuganosora/fighterdemo/server/middleware"
	"github.com/kasuganosora/fighterdemo/server/model"
	"github.com/kasuganosora/fighterdemo/server/store"
	"go.uber.org/zap"
)

// FighterHandler handles the /fighter REST endpoints.
type FighterHandler struct {
	store  store.FighterStore
	audit  *audit.Service
	logger *zap.Logger
}

// NewFighterHandler creates a FighterHandler. auditSvc may be nil.
func NewFighterHandler(s store.FighterStore, auditSvc *audit.Service, logger *zap.Logger) *FighterHandler {
	RegisterValidators()
	return &FighterHandler{store: s, audit: auditSvc, logger: logger}
}

// Register mounts the fighter routes on g.
func (h *FighterHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/:name", h.Get)
	g.POST("", h.Create)
	g.PUT("", h.Update)
	g.DELETE("/:name", h.Delete)
}

type fighterRequest struct {
	Name  string   `json:"name"  binding:"required,max=64"`
	Skill []string `json:"skill" binding:"required,dive,skillname"`
}

var errEmptyName = errors.New("name is required")

// pathName returns the percent-decoded :name segment. The engine must run
// with UnescapePathValues off so %2F and a literal + reach here untouched.
func pathName(c *gin.Context) (string, error) {
	name := c.Param("name")
	if c.Request.URL.RawPath != "" {
		// routed on the raw path, so the segment is still escaped
		var err error
		if name, err = url.PathUnescape(name); err != nil {
			return "", err
		}
	}
	if name == "" {
		return "", errEmptyName
	}
	return name, nil
}

// List handles GET /fighter.
func (h *FighterHandler) List(c *gin.Context) {
	fighters, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	envelope.OK(c, fighters)
}

// Get handles GET /fighter/:name. An unknown name is a success with no data.
func (h *FighterHandler) Get(c *gin.Context) {
	name, err := pathName(c)
	if err != nil {
		envelope.Fail(c, envelope.CodeValidation, "invalid fighter name: "+err.Error())
		return
	}
	f, err := h.store.Get(c.Request.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		envelope.OK(c, nil)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	envelope.OK(c, f)
}

// Create handles POST /fighter.
func (h *FighterHandler) Create(c *gin.Context) {
	start := time.Now()
	var req fighterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		envelope.Fail(c, envelope.CodeValidation, validationMessage(err))
		return
	}

	f := &model.Fighter{Name: req.Name, Skill: model.SkillList(req.Skill)}
	err := h.store.Create(c.Request.Context(), f)
	h.record(c, audit.ActionCreate, req.Name, req, f, err, start)
	if err != nil {
		h.fail(c, err)
		return
	}
	envelope.OK(c, f)
}

// Update handles PUT /fighter. Only the skill list changes; name selects the row.
func (h *FighterHandler) Update(c *gin.Context) {
	start := time.Now()
	var req fighterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		envelope.Fail(c, envelope.CodeValidation, validationMessage(err))
		return
	}

	f, err := h.store.UpdateSkills(c.Request.Context(), req.Name, model.SkillList(req.Skill))
	h.record(c, audit.ActionEdit, req.Name, req, f, err, start)
	if err != nil {
		h.fail(c, err)
		return
	}
	envelope.OK(c, f)
}

// Delete handles DELETE /fighter/:name.
func (h *FighterHandler) Delete(c *gin.Context) {
	start := time.Now()
	name, err := pathName(c)
	if err != nil {
		envelope.Fail(c, envelope.CodeValidation, "invalid fighter name: "+err.Error())
		return
	}

	f, err := h.store.Delete(c.Request.Context(), name)
	h.record(c, audit.ActionDelete, name, gin.H{"name": name}, f, err, start)
	if err != nil {
		h.fail(c, err)
		return
	}
	envelope.OK(c, f)
}

// fail maps a store error onto the envelope. Driver messages stay in the log.
func (h *FighterHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		envelope.Fail(c, envelope.CodeNotFound, err.Error())
	case errors.Is(err, store.ErrAlreadyExists):
		envelope.Fail(c, envelope.CodeAlreadyExists, err.Error())
	default:
		_ = c.Error(err)
		h.logger.Error("fighter store failure",
			zap.Error(err),
			zap.String("trace_id", mw.GetTraceID(c)),
			zap.String("path", c.Request.URL.Path))
		envelope.Fail(c, envelope.CodeInternal, "internal error")
	}
}

func (h *FighterHandler) record(c *gin.Context, action, name string, req, resp interface{}, err error, start time.Time) {
	if h.audit == nil {
		return
	}
	entry := audit.Entry{
		TraceID:     mw.GetTraceID(c),
		Action:      action,
		FighterName: name,
		Request:     req,
		IP:          c.ClientIP(),
		DurationMs:  int(time.Since(start).Milliseconds()),
	}
	if err != nil {
		entry.Error = err.Error()
	} else {
		entry.Response = resp
	}
	h.audit.Log(entry)
}
