package handlers

import (
	"net/http"
	"strconv"
	"time"

	"loyalty-service/internal/services"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	Goals  *services.GoalService
	Kiosks *services.KioskService
}

func NewGoalHandler(goals *services.GoalService, kiosks *services.KioskService) *GoalHandler {
	return &GoalHandler{Goals: goals, Kiosks: kiosks}
}

type SetGoalRequest struct {
	OwnerId         int     `json:"owner_id" binding:"required"`
	WorkerProfileId int     `json:"worker_profile_id" binding:"required"`
	TargetAmount    float64 `json:"target_amount" binding:"required,gt=0"`
	IsRecurring     *bool   `json:"is_recurring"`
	Deadline        string  `json:"deadline"`
}

func (h *GoalHandler) SetGoal(c *gin.Context) {
	var req SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	recurring := true
	if req.IsRecurring != nil {
		recurring = *req.IsRecurring
	}

	var deadline *time.Time
	if req.Deadline != "" {
		d, err := time.ParseInLocation("2006-01-02", req.Deadline, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline, expected YYYY-MM-DD"})
			return
		}
		deadline = &d
	}

	res, err := h.Goals.SetGoal(services.SetGoalDTO{
		OwnerId:         req.OwnerId,
		WorkerProfileId: req.WorkerProfileId,
		TargetAmount:    req.TargetAmount,
		IsRecurring:     recurring,
		Deadline:        deadline,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	ownerId, _ := strconv.Atoi(c.Query("owner_id"))
	kioskId, _ := strconv.Atoi(c.Query("kiosk_id"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	res, err := h.Goals.ListGoals(services.ListGoalsDTO{
		OwnerId: ownerId,
		KioskId: kioskId,
		Status:  c.Query("status"),
		Page:    page,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *GoalHandler) ArchiveGoal(c *gin.Context) {
	goalId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal id"})
		return
	}
	ownerId, err := strconv.Atoi(c.Query("owner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner_id"})
		return
	}

	res, err := h.Goals.ArchiveGoal(goalId, ownerId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type CreateKioskRequest struct {
	OwnerId int    `json:"owner_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

func (h *GoalHandler) CreateKiosk(c *gin.Context) {
	var req CreateKioskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := h.Kiosks.CreateKiosk(services.CreateKioskDTO{
		OwnerId: req.OwnerId,
		Name:    req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

type AddWorkerRequest struct {
	OwnerId  int `json:"owner_id" binding:"required"`
	WorkerId int `json:"worker_id" binding:"required"`
}

func (h *GoalHandler) AddWorker(c *gin.Context) {
	kioskId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid kiosk id"})
		return
	}

	var req AddWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := h.Kiosks.AddWorker(services.AddWorkerDTO{
		OwnerId:  req.OwnerId,
		KioskId:  kioskId,
		WorkerId: req.WorkerId,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *GoalHandler) ActivateWorker(c *gin.Context) {
	profileId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	res, err := h.Kiosks.ActivateWorker(profileId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *GoalHandler) DepartWorker(c *gin.Context) {
	profileId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	res, err := h.Kiosks.DepartWorker(profileId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
