package handler

import (
	"net/http"
	"strings"
	"time"

	"mizan/internal/middleware"
	"mizan/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BalanceHandler struct {
	svc *service.BalanceService
	loc *time.Location
	log *zap.Logger
}

func NewBalanceHandler(svc *service.BalanceService, loc *time.Location, log *zap.Logger) *BalanceHandler {
	return &BalanceHandler{svc: svc, loc: loc, log: log}
}

// ToggleRequest uses pointers so a missing actionId or checked is rejected
// rather than read as zero.
type ToggleRequest struct {
	ActionID *uint  `json:"actionId" binding:"required"`
	Date     string `json:"date"`
	Checked  *bool  `json:"checked" binding:"required"`
}

func (h *BalanceHandler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = service.Today(h.loc)
	}
	snap, err := h.svc.Toggle(c.Request.Context(), middleware.GetUserID(c), *req.ActionID, date, *req.Checked)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *BalanceHandler) Today(c *gin.Context) {
	h.balance(c, service.Today(h.loc))
}

func (h *BalanceHandler) ByDate(c *gin.Context) {
	h.balance(c, c.Param("date"))
}

func (h *BalanceHandler) balance(c *gin.Context, date string) {
	snap, err := h.svc.GetBalance(c.Request.Context(), middleware.GetUserID(c), date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *BalanceHandler) History(c *gin.Context) {
	start, end := c.Query("startDate"), c.Query("endDate")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate are required"})
		return
	}
	list, err := h.svc.GetHistory(c.Request.Context(), middleware.GetUserID(c), start, end)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BalanceHandler) Recent(c *gin.Context) {
	list, err := h.svc.GetRecentHistory(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
