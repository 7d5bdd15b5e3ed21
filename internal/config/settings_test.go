package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	s := Defaults()

	assert.Equal(t, 5.0, s.TransactionFee)
	assert.Equal(t, 5.0, s.CommissionAmount)
	assert.Equal(t, 10000.0, s.MaxTransferAmount)
	assert.Equal(t, 2, s.MaxDailyPerReceiver)
	assert.Equal(t, 50, s.MaxDailyPerSender)
}

func TestDefaultsFromEnv(t *testing.T) {
	t.Setenv(KeyTransactionFee, "7.5")
	t.Setenv(KeyMaxDailyPerReceiver, "3")
	t.Setenv(KeyMaxDailyPerSender, "not-a-number")

	s := Defaults()

	assert.Equal(t, 7.5, s.TransactionFee)
	assert.Equal(t, 3, s.MaxDailyPerReceiver)
	// Unparsable values fall back.
	assert.Equal(t, 50, s.MaxDailyPerSender)
}

func TestLoadWithoutDatabase(t *testing.T) {
	s := Load(nil)
	assert.Equal(t, Defaults(), s)
}
