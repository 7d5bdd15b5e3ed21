package handlers

import (
	"net/http"
	"strings"
	"time"

	"loyalty-service/internal/services"
	"loyalty-service/pkg/common"

	"github.com/gin-gonic/gin"
)

// SettlementHandler exposes the scheduler-facing trigger. Calls carry the
// shared-secret bearer credential; re-running an already-settled day is a
// no-op.
type SettlementHandler struct {
	Settlement *services.SettlementService
	Secret     string
}

func NewSettlementHandler(settlement *services.SettlementService, secret string) *SettlementHandler {
	return &SettlementHandler{Settlement: settlement, Secret: secret}
}

type RunSettlementRequest struct {
	Date string `json:"date"`
}

func (h *SettlementHandler) RunSettlement(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if h.Secret == "" || token != h.Secret {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid scheduler credential", nil, http.StatusUnauthorized))
		return
	}

	var req RunSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondBadRequest(c, err)
		return
	}

	// Default to the previous calendar day, matching the nightly schedule.
	day := time.Now().AddDate(0, 0, -1)
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	summary, err := h.Settlement.SettleDay(day)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Settlement completed"
	if summary.AlreadySettled {
		message = "Day already settled"
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(summary, message))
}
