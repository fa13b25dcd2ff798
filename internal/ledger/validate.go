package ledger

import (
	"time"

	"paycheck_pilot/internal/models"
)

const dateLayout = "2006-01-02"

// ValidateTxnAmount enforces the sign invariant: income/adjustment
// amounts are positive, expense/transfer amounts are negative, zero is
// never valid.
func ValidateTxnAmount(txnType string, amountCents int64) error {
	if !models.ValidTxnType(txnType) {
		return invalidInput("unknown transaction type")
	}
	if amountCents == 0 {
		return invalidInput("amount must not be zero")
	}
	if models.PositiveTxnType(txnType) {
		if amountCents < 0 {
			return invalidInput("amount must be positive for " + txnType)
		}
		return nil
	}
	if amountCents > 0 {
		return invalidInput("amount must be negative for " + txnType)
	}
	return nil
}

// ValidateSavingAmount rejects zero; positive is a deposit, negative a
// withdrawal.
func ValidateSavingAmount(amountCents int64) error {
	if amountCents == 0 {
		return invalidInput("saving amount must not be zero")
	}
	return nil
}

// ValidatePlannedMagnitude requires the stored magnitude to be positive;
// the sign is applied at execution time only.
func ValidatePlannedMagnitude(amountCents int64) error {
	if amountCents <= 0 {
		return invalidInput("planned payment amount must be a positive magnitude")
	}
	return nil
}

// ValidateGoalTarget requires a positive target and a target date not in
// the past.
func ValidateGoalTarget(targetCents int64, targetDate string, now time.Time) error {
	if targetCents <= 0 {
		return invalidInput("target amount must be positive")
	}
	d, err := time.Parse(dateLayout, targetDate)
	if err != nil {
		return invalidInput("target date must be YYYY-MM-DD")
	}
	today, _ := time.Parse(dateLayout, now.Format(dateLayout))
	if d.Before(today) {
		return invalidInput("target date must not be in the past")
	}
	return nil
}

func ValidateDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return invalidInput("date must be YYYY-MM-DD")
	}
	return nil
}

// ValidateCurrency accepts a 3-letter uppercase code.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return invalidInput("currency must be a 3-letter code")
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return invalidInput("currency must be a 3-letter code")
		}
	}
	return nil
}
