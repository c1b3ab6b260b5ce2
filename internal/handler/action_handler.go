package handler

import (
	"net/http"
	"time"

	"mizan/internal/middleware"
	"mizan/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ActionHandler struct {
	svc *service.ActionService
	loc *time.Location
	log *zap.Logger
}

func NewActionHandler(svc *service.ActionService, loc *time.Location, log *zap.Logger) *ActionHandler {
	return &ActionHandler{svc: svc, loc: loc, log: log}
}

func (h *ActionHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ActionHandler) ListByType(c *gin.Context) {
	list, err := h.svc.ListByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ActionHandler) Today(c *gin.Context) {
	h.forDate(c, service.Today(h.loc))
}

func (h *ActionHandler) ByDate(c *gin.Context) {
	h.forDate(c, c.Param("date"))
}

func (h *ActionHandler) forDate(c *gin.Context, date string) {
	list, err := h.svc.ForDate(c.Request.Context(), middleware.GetUserID(c), date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
