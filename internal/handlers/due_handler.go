package handlers

import (
	"net/http"
	"strconv"

	"loyalty-service/internal/services"

	"github.com/gin-gonic/gin"
)

type DueHandler struct {
	Dues *services.DueService
}

func NewDueHandler(dues *services.DueService) *DueHandler {
	return &DueHandler{Dues: dues}
}

func (h *DueHandler) ListDues(c *gin.Context) {
	kioskId, _ := strconv.Atoi(c.Query("kiosk_id"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	res, err := h.Dues.ListDues(services.ListDuesDTO{
		KioskId:    kioskId,
		UnpaidOnly: c.Query("unpaid_only") == "true",
		Page:       page,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type CollectDueRequest struct {
	CollectorId int `json:"collector_id"`
}

func (h *DueHandler) CollectDue(c *gin.Context) {
	dueId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due id"})
		return
	}

	var req CollectDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := h.Dues.CollectDue(dueId, req.CollectorId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
