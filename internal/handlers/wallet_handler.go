package handlers

import (
	"net/http"
	"strconv"

	"loyalty-service/internal/services"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	Wallet *services.WalletService
}

func NewWalletHandler(wallet *services.WalletService) *WalletHandler {
	return &WalletHandler{Wallet: wallet}
}

type RegisterWalletRequest struct {
	UserId int    `json:"user_id" binding:"required"`
	Phone  string `json:"phone"`
}

func (h *WalletHandler) RegisterWallet(c *gin.Context) {
	var req RegisterWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := h.Wallet.RegisterWallet(services.RegisterWalletDTO{
		UserId: req.UserId,
		Phone:  req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	userId, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}
	settledOnly := c.Query("settled_only") == "true"

	res, err := h.Wallet.GetBalance(services.GetBalanceDTO{
		UserId:      userId,
		SettledOnly: settledOnly,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userId, _ := strconv.Atoi(c.Query("user_id"))
	kioskId, _ := strconv.Atoi(c.Query("kiosk_id"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	res, err := h.Wallet.ListTransactions(services.ListTransactionsDTO{
		UserId:    userId,
		KioskId:   kioskId,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
