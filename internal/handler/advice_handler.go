package handler

import (
	"net/http"
	"time"

	"mizan/internal/domain"
	"mizan/internal/middleware"
	"mizan/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdviceHandler struct {
	balances *service.BalanceService
	advice   *service.AdviceService
	loc      *time.Location
	log      *zap.Logger
}

func NewAdviceHandler(balances *service.BalanceService, advice *service.AdviceService, loc *time.Location, log *zap.Logger) *AdviceHandler {
	return &AdviceHandler{balances: balances, advice: advice, loc: loc, log: log}
}

// Today generates advice for the caller's current balance. Generation failures
// are served as fallback content, never as errors.
func (h *AdviceHandler) Today(c *gin.Context) {
	userID := middleware.GetUserID(c)
	snap, err := h.balances.GetBalance(c.Request.Context(), userID, service.Today(h.loc))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	lang := domain.NormalizeLang(c.DefaultQuery("lang", domain.DefaultLang))
	c.JSON(http.StatusOK, h.advice.Generate(c.Request.Context(), userID, snap, lang))
}
