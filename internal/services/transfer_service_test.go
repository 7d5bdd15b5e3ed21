package services

import (
	"fmt"
	"sync"
	"testing"

	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransferService() *TransferService {
	helper := NewHelperService(testDB)
	validator := NewValidatorService(testDB, helper)
	return NewTransferService(testDB, helper, validator)
}

func TestSendPoints_FeeAndCommissionSplit(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01700000001", models.RoleOwner)
	worker := createUser(t, "worker", "01700000002", models.RoleWorker)
	customer := createUser(t, "customer", "01700000003", models.RoleCustomer)
	createWalletFor(t, owner.ID, 0)
	createWalletFor(t, worker.ID, 0)
	createWalletFor(t, customer.ID, 0)

	kiosk := createKioskFor(t, owner.ID, "Corner Kiosk")
	profile := createActiveProfile(t, worker.ID, kiosk.ID)

	svc := newTransferService()
	result, err := svc.SendPoints(SendPointsDTO{
		SenderId:      worker.ID,
		ReceiverPhone: customer.Phone,
		KioskId:       kiosk.ID,
		Amount:        100,
	}, testSettings())
	require.NoError(t, err)

	// gross 100, fee 5 -> net 95 to the customer; flat 5 commission to the
	// sending worker; due for the full gross.
	assert.Equal(t, 95.0, walletBalance(t, customer.ID))
	assert.Equal(t, 5.0, walletBalance(t, worker.ID))
	assert.Equal(t, 100.0, result.Due.Amount)
	assert.False(t, result.Due.IsPaid)

	trx := result.Transaction
	assert.Equal(t, models.TrxDeposit, trx.TrxType)
	assert.Equal(t, models.TrxCompleted, trx.Status)
	assert.Equal(t, models.CommissionPending, trx.CommissionStatus)
	assert.Equal(t, 100.0, trx.AmountGross)
	assert.Equal(t, 95.0, trx.AmountNet)
	assert.Equal(t, 5.0, trx.Commission)
	require.NotNil(t, trx.ReceiverId)
	assert.Equal(t, customer.ID, *trx.ReceiverId)
	require.NotNil(t, trx.WorkerProfileId)
	assert.Equal(t, profile.ID, *trx.WorkerProfileId)
}

func TestSendPoints_UnregisteredReceiverGetsShadowWallet(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01700000011", models.RoleOwner)
	createWalletFor(t, owner.ID, 0)
	kiosk := createKioskFor(t, owner.ID, "Shadow Kiosk")

	svc := newTransferService()
	_, err := svc.SendPoints(SendPointsDTO{
		SenderId:      owner.ID,
		ReceiverPhone: "01999999999",
		KioskId:       kiosk.ID,
		Amount:        30,
	}, testSettings())
	require.NoError(t, err)

	var shadow models.ShadowWallet
	require.NoError(t, testDB.Where("phone = ?", "01999999999").First(&shadow).Error)
	assert.Equal(t, 25.0, shadow.Balance)

	// Second transfer accrues on the same shadow row.
	_, err = svc.SendPoints(SendPointsDTO{
		SenderId:      owner.ID,
		ReceiverPhone: "01999999999",
		KioskId:       kiosk.ID,
		Amount:        15,
	}, testSettings())
	require.NoError(t, err)

	require.NoError(t, testDB.Where("phone = ?", "01999999999").First(&shadow).Error)
	assert.Equal(t, 35.0, shadow.Balance)
}

func TestSendPoints_RegistrationDuringTransferLeavesNoShadow(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01700000061", models.RoleOwner)
	createWalletFor(t, owner.ID, 0)
	kiosk := createKioskFor(t, owner.ID, "Race Kiosk")

	phone := "01755555555"
	svc := newTransferService()
	walletSvc := NewWalletService(testDB, NewHelperService(testDB))

	// The phone registers while the transfer is in flight. The receiver is
	// resolved under lock inside the transfer transaction, so whichever
	// side commits first, a registered phone never keeps a shadow row.
	var wg sync.WaitGroup
	var transferErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, transferErr = svc.SendPoints(SendPointsDTO{
			SenderId:      owner.ID,
			ReceiverPhone: phone,
			KioskId:       kiosk.ID,
			Amount:        30,
		}, testSettings())
	}()
	go func() {
		defer wg.Done()
		late := models.User{Name: "late", Phone: phone, Role: models.RoleCustomer,
			Status: models.UserActive, Verified: true}
		if err := testDB.Create(&late).Error; err != nil {
			return
		}
		walletSvc.RegisterWallet(RegisterWalletDTO{UserId: late.ID})
	}()
	wg.Wait()
	require.NoError(t, transferErr)

	var registered models.User
	require.NoError(t, testDB.Where("phone = ?", phone).First(&registered).Error)

	var shadowCount int64
	testDB.Model(&models.ShadowWallet{}).Where("phone = ?", phone).Count(&shadowCount)
	assert.Equal(t, int64(0), shadowCount)

	// The net amount landed in the wallet, via direct credit or the claim.
	assert.Equal(t, 25.0, walletBalance(t, registered.ID))
}

func TestSendPoints_OwnerSuppliedProfileRejected(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01700000071", models.RoleOwner)
	worker := createUser(t, "worker", "01700000072", models.RoleWorker)
	customer := createUser(t, "customer", "01700000073", models.RoleCustomer)
	createWalletFor(t, owner.ID, 0)
	createWalletFor(t, customer.ID, 0)
	kiosk := createKioskFor(t, owner.ID, "Strict Kiosk")
	profile := createActiveProfile(t, worker.ID, kiosk.ID)

	// An owner transfer carries no worker profile; a supplied one is a
	// contract violation, not something to silently drop.
	svc := newTransferService()
	_, err := svc.SendPoints(SendPointsDTO{
		SenderId:        owner.ID,
		ReceiverPhone:   customer.Phone,
		KioskId:         kiosk.ID,
		Amount:          50,
		WorkerProfileId: &profile.ID,
	}, testSettings())
	require.Error(t, err)
	assert.Equal(t, common.CodeBusiness, common.AsAppError(err).Code)

	assert.Equal(t, 0.0, walletBalance(t, customer.ID))
	var trxCount int64
	testDB.Model(&models.Transaction{}).Count(&trxCount)
	assert.Equal(t, int64(0), trxCount)
}

func TestSendPoints_PerReceiverDailyCeiling(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01700000021", models.RoleOwner)
	customer := createUser(t, "customer", "01700000022", models.RoleCustomer)
	createWalletFor(t, owner.ID, 0)
	createWalletFor(t, customer.ID, 0)
	kiosk := createKioskFor(t, owner.ID, "Limit Kiosk")

	svc := newTransferService()
	for i := 0; i < 2; i++ {
		_, err := svc.SendPoints(SendPointsDTO{
			SenderId:      owner.ID,
			ReceiverPhone: customer.Phone,
			KioskId:       kiosk.ID,
			Amount:        20,
		}, testSettings())
		require.NoError(t, err, "transfer %d should pass", i+1)
	}

	// Third transfer to the same phone on the same day breaches max=2.
	_, err := svc.SendPoints(SendPointsDTO{
		SenderId:      owner.ID,
		ReceiverPhone: customer.Phone,
		KioskId:       kiosk.ID,
		Amount:        20,
	}, testSettings())
	require.Error(t, err)

	appErr := common.AsAppError(err)
	assert.Equal(t, common.CodeBusiness, appErr.Code)
	assert.Equal(t, 2, appErr.Details["max"])
}

func TestSendPoints_PerSenderDailyCeiling(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01700000031", models.RoleOwner)
	createWalletFor(t, owner.ID, 0)
	kiosk := createKioskFor(t, owner.ID, "Busy Kiosk")

	settings := testSettings()
	settings.MaxDailyPerSender = 3

	svc := newTransferService()
	for i := 0; i < 3; i++ {
		_, err := svc.SendPoints(SendPointsDTO{
			SenderId:      owner.ID,
			ReceiverPhone: fmt.Sprintf("0188888888%d", i),
			KioskId:       kiosk.ID,
			Amount:        20,
		}, settings)
		require.NoError(t, err)
	}

	_, err := svc.SendPoints(SendPointsDTO{
		SenderId:      owner.ID,
		ReceiverPhone: "01888888889",
		KioskId:       kiosk.ID,
		Amount:        20,
	}, settings)
	require.Error(t, err)
	assert.Equal(t, common.CodeBusiness, common.AsAppError(err).Code)
}

func TestSendPoints_IdempotencyKeyReplays(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01700000041", models.RoleOwner)
	customer := createUser(t, "customer", "01700000042", models.RoleCustomer)
	createWalletFor(t, owner.ID, 0)
	createWalletFor(t, customer.ID, 0)
	kiosk := createKioskFor(t, owner.ID, "Retry Kiosk")

	svc := newTransferService()
	first, err := svc.SendPoints(SendPointsDTO{
		SenderId:       owner.ID,
		ReceiverPhone:  customer.Phone,
		KioskId:        kiosk.ID,
		Amount:         100,
		IdempotencyKey: "retry-abc-1",
	}, testSettings())
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := svc.SendPoints(SendPointsDTO{
		SenderId:       owner.ID,
		ReceiverPhone:  customer.Phone,
		KioskId:        kiosk.ID,
		Amount:         100,
		IdempotencyKey: "retry-abc-1",
	}, testSettings())
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)

	// No double credit on replay.
	assert.Equal(t, 95.0, walletBalance(t, customer.ID))

	var count int64
	testDB.Model(&models.Transaction{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSendPoints_ValidationFailuresLeaveNoState(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	owner := createUser(t, "owner", "01700000051", models.RoleOwner)
	outsider := createUser(t, "outsider", "01700000052", models.RoleWorker)
	customer := createUser(t, "customer", "01700000053", models.RoleCustomer)
	createWalletFor(t, owner.ID, 0)
	createWalletFor(t, outsider.ID, 0)
	createWalletFor(t, customer.ID, 0)
	kiosk := createKioskFor(t, owner.ID, "Guarded Kiosk")

	svc := newTransferService()

	// Worker with no profile at this kiosk.
	_, err := svc.SendPoints(SendPointsDTO{
		SenderId:      outsider.ID,
		ReceiverPhone: customer.Phone,
		KioskId:       kiosk.ID,
		Amount:        50,
	}, testSettings())
	require.Error(t, err)
	assert.Equal(t, common.CodeUnauthorized, common.AsAppError(err).Code)

	// Amount over the per-transaction ceiling.
	settings := testSettings()
	settings.MaxTransferAmount = 40
	_, err = svc.SendPoints(SendPointsDTO{
		SenderId:      owner.ID,
		ReceiverPhone: customer.Phone,
		KioskId:       kiosk.ID,
		Amount:        50,
	}, settings)
	require.Error(t, err)
	assert.Equal(t, common.CodeBusiness, common.AsAppError(err).Code)

	// Unknown kiosk.
	_, err = svc.SendPoints(SendPointsDTO{
		SenderId:      owner.ID,
		ReceiverPhone: customer.Phone,
		KioskId:       kiosk.ID + 999,
		Amount:        50,
	}, testSettings())
	require.Error(t, err)
	assert.Equal(t, common.CodeNotFound, common.AsAppError(err).Code)

	// Nothing moved, nothing recorded.
	assert.Equal(t, 0.0, walletBalance(t, customer.ID))
	assert.Equal(t, 0.0, walletBalance(t, owner.ID))
	var trxCount, dueCount int64
	testDB.Model(&models.Transaction{}).Count(&trxCount)
	testDB.Model(&models.KioskDue{}).Count(&dueCount)
	assert.Equal(t, int64(0), trxCount)
	assert.Equal(t, int64(0), dueCount)
}
