package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateTxnAmount(t *testing.T) {
	tests := []struct {
		name        string
		txnType     string
		amountCents int64
		expectError bool
	}{
		{name: "income positive", txnType: "income", amountCents: 500000, expectError: false},
		{name: "income negative", txnType: "income", amountCents: -500000, expectError: true},
		{name: "adjustment positive", txnType: "adjustment", amountCents: 100, expectError: false},
		{name: "adjustment negative", txnType: "adjustment", amountCents: -100, expectError: true},
		{name: "expense negative", txnType: "expense", amountCents: -2500, expectError: false},
		{name: "expense positive", txnType: "expense", amountCents: 2500, expectError: true},
		{name: "transfer negative", txnType: "transfer", amountCents: -1000, expectError: false},
		{name: "transfer positive", txnType: "transfer", amountCents: 1000, expectError: true},
		{name: "zero amount", txnType: "income", amountCents: 0, expectError: true},
		{name: "unknown type", txnType: "refund", amountCents: 100, expectError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTxnAmount(tc.txnType, tc.amountCents)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSavingAmount(t *testing.T) {
	assert.NoError(t, ValidateSavingAmount(5000))
	assert.NoError(t, ValidateSavingAmount(-5000))
	assert.ErrorIs(t, ValidateSavingAmount(0), ErrInvalidInput)
}

func TestValidatePlannedMagnitude(t *testing.T) {
	assert.NoError(t, ValidatePlannedMagnitude(120000))
	assert.ErrorIs(t, ValidatePlannedMagnitude(0), ErrInvalidInput)
	assert.ErrorIs(t, ValidatePlannedMagnitude(-120000), ErrInvalidInput)
}

func TestValidateGoalTarget(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	assert.NoError(t, ValidateGoalTarget(200000, "2026-06-01", now))
	// Today counts as not-past even though the clock is past midnight.
	assert.NoError(t, ValidateGoalTarget(200000, "2025-03-10", now))
	assert.ErrorIs(t, ValidateGoalTarget(200000, "2025-03-09", now), ErrInvalidInput)
	assert.ErrorIs(t, ValidateGoalTarget(0, "2026-06-01", now), ErrInvalidInput)
	assert.ErrorIs(t, ValidateGoalTarget(200000, "June 2026", now), ErrInvalidInput)
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2025-03-01"))
	assert.ErrorIs(t, ValidateDate("01-03-2025"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateDate("2025-3-1"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateDate(""), ErrInvalidInput)
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, ValidateCurrency("USD"))
	assert.NoError(t, ValidateCurrency("NGN"))
	assert.ErrorIs(t, ValidateCurrency("usd"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateCurrency("US"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateCurrency("DOLLAR"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateCurrency(""), ErrInvalidInput)
}
