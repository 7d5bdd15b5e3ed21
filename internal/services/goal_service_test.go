package services

import (
	"testing"

	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGoal_ArchivesPriorActiveGoal(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01730000001", models.RoleOwner)
	worker := createUser(t, "worker", "01730000002", models.RoleWorker)
	kiosk := createKioskFor(t, owner.ID, "Target Kiosk")
	profile := createActiveProfile(t, worker.ID, kiosk.ID)

	helper := NewHelperService(testDB)
	svc := NewGoalService(testDB, helper)

	first, err := svc.SetGoal(SetGoalDTO{
		OwnerId:         owner.ID,
		WorkerProfileId: profile.ID,
		TargetAmount:    50,
		IsRecurring:     true,
	})
	require.NoError(t, err)
	firstGoal := first.Data.(models.Goal)

	second, err := svc.SetGoal(SetGoalDTO{
		OwnerId:         owner.ID,
		WorkerProfileId: profile.ID,
		TargetAmount:    80,
		IsRecurring:     true,
	})
	require.NoError(t, err)
	secondGoal := second.Data.(models.Goal)

	var reloaded models.Goal
	require.NoError(t, testDB.First(&reloaded, firstGoal.ID).Error)
	assert.Equal(t, models.GoalArchived, reloaded.Status)

	// Exactly one ACTIVE goal per profile.
	var active int64
	testDB.Model(&models.Goal{}).
		Where("worker_profile_id = ? AND status = ?", profile.ID, models.GoalActive).
		Count(&active)
	assert.Equal(t, int64(1), active)
	assert.Equal(t, models.GoalActive, secondGoal.Status)
	assert.Equal(t, 80.0, secondGoal.TargetAmount)
}

func TestSetGoal_RejectsForeignOwner(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01730000011", models.RoleOwner)
	rival := createUser(t, "rival", "01730000012", models.RoleOwner)
	worker := createUser(t, "worker", "01730000013", models.RoleWorker)
	kiosk := createKioskFor(t, owner.ID, "Mine Kiosk")
	profile := createActiveProfile(t, worker.ID, kiosk.ID)

	helper := NewHelperService(testDB)
	svc := NewGoalService(testDB, helper)

	_, err := svc.SetGoal(SetGoalDTO{
		OwnerId:         rival.ID,
		WorkerProfileId: profile.ID,
		TargetAmount:    50,
		IsRecurring:     true,
	})
	require.Error(t, err)
	assert.Equal(t, common.CodeUnauthorized, common.AsAppError(err).Code)
}

func TestDepartWorker_ArchivesGoals(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01730000021", models.RoleOwner)
	worker := createUser(t, "worker", "01730000022", models.RoleWorker)
	kiosk := createKioskFor(t, owner.ID, "Leaving Kiosk")
	profile := createActiveProfile(t, worker.ID, kiosk.ID)

	helper := NewHelperService(testDB)
	goals := NewGoalService(testDB, helper)
	kiosks := NewKioskService(testDB, helper)

	_, err := goals.SetGoal(SetGoalDTO{
		OwnerId:         owner.ID,
		WorkerProfileId: profile.ID,
		TargetAmount:    50,
		IsRecurring:     true,
	})
	require.NoError(t, err)

	_, err = kiosks.DepartWorker(profile.ID)
	require.NoError(t, err)

	var reloaded models.WorkerProfile
	require.NoError(t, testDB.First(&reloaded, profile.ID).Error)
	assert.Equal(t, models.ProfileDeparted, reloaded.Status)

	// Goal history survives, archived.
	var total, active int64
	testDB.Model(&models.Goal{}).Where("worker_profile_id = ?", profile.ID).Count(&total)
	testDB.Model(&models.Goal{}).
		Where("worker_profile_id = ? AND status = ?", profile.ID, models.GoalActive).Count(&active)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(0), active)
}

func TestCollectDue_ConflictsOnDoubleCollect(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01730000031", models.RoleOwner)
	customer := createUser(t, "customer", "01730000032", models.RoleCustomer)
	collector := createUser(t, "collector", "01730000033", models.RoleOwner)
	createWalletFor(t, owner.ID, 0)
	createWalletFor(t, customer.ID, 0)
	kiosk := createKioskFor(t, owner.ID, "Due Kiosk")

	transfer := newTransferService()
	result, err := transfer.SendPoints(SendPointsDTO{
		SenderId:      owner.ID,
		ReceiverPhone: customer.Phone,
		KioskId:       kiosk.ID,
		Amount:        100,
	}, testSettings())
	require.NoError(t, err)

	dues := NewDueService(testDB)
	res, err := dues.CollectDue(result.Due.ID, collector.ID)
	require.NoError(t, err)

	due := res.Data.(models.KioskDue)
	assert.True(t, due.IsPaid)
	require.NotNil(t, due.CollectorId)
	assert.Equal(t, collector.ID, *due.CollectorId)

	_, err = dues.CollectDue(result.Due.ID, collector.ID)
	require.Error(t, err)
	assert.Equal(t, common.CodeConflict, common.AsAppError(err).Code)
}
