package handlers

import (
	"fmt"
	"net/http"
	"time"

	"loyalty-service/internal/config"
	"loyalty-service/internal/models"
	"loyalty-service/internal/services"
	"loyalty-service/pkg/common"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TransferHandler struct {
	DB       *gorm.DB
	Transfer *services.TransferService
}

func NewTransferHandler(db *gorm.DB, transfer *services.TransferService) *TransferHandler {
	return &TransferHandler{DB: db, Transfer: transfer}
}

type SendPointsRequest struct {
	SenderId        int     `json:"sender_id" binding:"required"`
	ReceiverPhone   string  `json:"receiver_phone" binding:"required"`
	KioskId         int     `json:"kiosk_id" binding:"required"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	WorkerProfileId *int    `json:"worker_profile_id"`
	IdempotencyKey  string  `json:"idempotency_key"`
}

// Amounts go out as decimal strings so clients never round them.
type TransactionResponse struct {
	ID               int    `json:"id"`
	Reference        string `json:"reference"`
	ReceiverPhone    string `json:"receiver_phone"`
	AmountGross      string `json:"amount_gross"`
	AmountNet        string `json:"amount_net"`
	Commission       string `json:"commission"`
	Status           string `json:"status"`
	CommissionStatus string `json:"commission_status"`
	CreatedAt        string `json:"created_at"`
}

type DueResponse struct {
	ID     int    `json:"id"`
	Amount string `json:"amount"`
}

func (h *TransferHandler) SendPoints(c *gin.Context) {
	var req SendPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	settings := config.Load(h.DB)

	result, err := h.Transfer.SendPoints(services.SendPointsDTO{
		SenderId:        req.SenderId,
		ReceiverPhone:   req.ReceiverPhone,
		KioskId:         req.KioskId,
		Amount:          req.Amount,
		WorkerProfileId: req.WorkerProfileId,
		IdempotencyKey:  req.IdempotencyKey,
	}, settings)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Points sent"
	if result.Replayed {
		message = "Points already sent for this idempotency key"
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"transaction": toTransactionResponse(result.Transaction),
		"due": DueResponse{
			ID:     result.Due.ID,
			Amount: formatAmount(result.Due.Amount),
		},
	}, message))
}

func toTransactionResponse(trx models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               trx.ID,
		Reference:        trx.Reference,
		ReceiverPhone:    trx.ReceiverPhone,
		AmountGross:      formatAmount(trx.AmountGross),
		AmountNet:        formatAmount(trx.AmountNet),
		Commission:       formatAmount(trx.Commission),
		Status:           trx.Status,
		CommissionStatus: trx.CommissionStatus,
		CreatedAt:        trx.CreatedAt.Format(time.RFC3339),
	}
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
