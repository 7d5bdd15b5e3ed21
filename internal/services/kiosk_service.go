package services

import (
	"errors"

	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"gorm.io/gorm"
)

// KioskService covers the kiosk and worker-profile lifecycle the transfer
// authorization and goal scoping depend on. The invitation flow itself
// (OTP, notification) lives in the identity service.
type KioskService struct {
	DB     *gorm.DB
	Helper *HelperService
}

func NewKioskService(db *gorm.DB, helper *HelperService) *KioskService {
	return &KioskService{DB: db, Helper: helper}
}

type CreateKioskDTO struct {
	OwnerId int
	Name    string
}

func (s *KioskService) CreateKiosk(data CreateKioskDTO) (common.SuccessResponse, error) {
	owner, err := s.Helper.FindUser(s.DB, data.OwnerId)
	if err != nil {
		return common.SuccessResponse{}, err
	}
	if owner.Role != models.RoleOwner {
		return common.SuccessResponse{}, common.NewUnauthorizedError("only owners can create kiosks")
	}
	if data.Name == "" {
		return common.SuccessResponse{}, common.NewBusinessError("kiosk name is required", nil)
	}

	kiosk := models.Kiosk{OwnerId: owner.ID, Name: data.Name, Active: true}
	if err := s.DB.Create(&kiosk).Error; err != nil {
		return common.SuccessResponse{}, err
	}

	return common.NewSuccessResponse(kiosk, "Kiosk created"), nil
}

type AddWorkerDTO struct {
	OwnerId  int
	KioskId  int
	WorkerId int
}

// AddWorker creates a PENDING profile binding the worker to the kiosk. The
// profile becomes usable for transfers only once activated.
func (s *KioskService) AddWorker(data AddWorkerDTO) (common.SuccessResponse, error) {
	kiosk, err := s.Helper.FindKiosk(s.DB, data.KioskId)
	if err != nil {
		return common.SuccessResponse{}, err
	}
	if kiosk.OwnerId != data.OwnerId {
		return common.SuccessResponse{}, common.NewUnauthorizedError("kiosk belongs to another owner")
	}

	worker, err := s.Helper.FindUser(s.DB, data.WorkerId)
	if err != nil {
		return common.SuccessResponse{}, err
	}
	if worker.Role != models.RoleWorker {
		return common.SuccessResponse{}, common.NewBusinessError("user is not a worker", nil)
	}

	var existing models.WorkerProfile
	err = s.DB.Where("user_id = ? AND kiosk_id = ? AND status != ?",
		worker.ID, kiosk.ID, models.ProfileDeparted).First(&existing).Error
	if err == nil {
		return common.SuccessResponse{}, common.NewConflictError("worker already has a profile at this kiosk")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return common.SuccessResponse{}, err
	}

	profile := models.WorkerProfile{
		UserId:  worker.ID,
		KioskId: kiosk.ID,
		Status:  models.ProfilePending,
	}
	if err := s.DB.Create(&profile).Error; err != nil {
		return common.SuccessResponse{}, err
	}

	return common.NewSuccessResponse(profile, "Worker added"), nil
}

func (s *KioskService) ActivateWorker(profileId int) (common.SuccessResponse, error) {
	var profile models.WorkerProfile
	if err := s.DB.First(&profile, profileId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.SuccessResponse{}, common.NewNotFoundError("worker profile not found")
		}
		return common.SuccessResponse{}, err
	}
	if profile.Status == models.ProfileActive {
		return common.SuccessResponse{}, common.NewConflictError("worker profile is already active")
	}
	if profile.Status == models.ProfileDeparted {
		return common.SuccessResponse{}, common.NewBusinessError("departed profiles cannot be reactivated", nil)
	}

	if err := s.DB.Model(&profile).Update("status", models.ProfileActive).Error; err != nil {
		return common.SuccessResponse{}, err
	}

	return common.NewSuccessResponse(profile, "Worker activated"), nil
}

// DepartWorker marks the profile DEPARTED and archives its active goals.
// Goal history stays; nothing cascades.
func (s *KioskService) DepartWorker(profileId int) (common.SuccessResponse, error) {
	var profile models.WorkerProfile
	if err := s.DB.First(&profile, profileId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.SuccessResponse{}, common.NewNotFoundError("worker profile not found")
		}
		return common.SuccessResponse{}, err
	}
	if profile.Status == models.ProfileDeparted {
		return common.SuccessResponse{}, common.NewConflictError("worker profile already departed")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&profile).Update("status", models.ProfileDeparted).Error; err != nil {
			return err
		}
		return tx.Model(&models.Goal{}).
			Where("worker_profile_id = ? AND status = ?", profile.ID, models.GoalActive).
			Update("status", models.GoalArchived).Error
	})
	if err != nil {
		return common.SuccessResponse{}, err
	}

	return common.NewSuccessResponse(profile, "Worker departed"), nil
}
