package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"paycheck_pilot/internal/ledger"
	"paycheck_pilot/pkg/utils"
)

func StartCronJob(db *sql.DB, payments *ledger.PlannedPayments) *cron.Cron {
	c := cron.New()

	// Runs daily at 06:00 — execute auto-debit payments that are due
	_, err := c.AddFunc("0 6 * * *", func() {
		if err := ExecuteDueAutoDebits(db, payments); err != nil {
			utils.Logger.Errorf("Cron job failed to execute auto-debit payments: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule auto-debit job: %v", err)
	}

	// Runs daily at midnight — remind owners of upcoming due payments
	_, err = c.AddFunc("0 0 * * *", func() {
		if err := SendDuePaymentReminders(db); err != nil {
			utils.Logger.Errorf("Cron job failed to send due payment reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule due payment reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (auto-debit daily at 06:00, due payment reminders daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Execute due auto-debit planned payments
// -------------------------------------------------------------
// Each payment goes through the same conditional state transition the
// API uses, one at a time. A payment that fails is logged and skipped;
// the rest still run.
func ExecuteDueAutoDebits(db *sql.DB, payments *ledger.PlannedPayments) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	today := time.Now().UTC().Format("2006-01-02")

	rows, err := db.QueryContext(ctx, `
		SELECT id, owner_id
		FROM planned_payments
		WHERE status = 'planned'
		  AND auto_debit = TRUE
		  AND account_id IS NOT NULL
		  AND due_date <= ?
	`, today)
	if err != nil {
		return err
	}
	defer rows.Close()

	type duePayment struct {
		id      int64
		ownerID int64
	}
	var due []duePayment
	for rows.Next() {
		var d duePayment
		if err := rows.Scan(&d.id, &d.ownerID); err != nil {
			utils.Logger.Errorf("Failed to scan due payment row: %v", err)
			continue
		}
		due = append(due, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	executed := 0
	for _, d := range due {
		txnID, err := payments.Execute(ctx, d.ownerID, d.id, ledger.ExecutionInput{TxnDate: today})
		if err != nil {
			utils.Logger.Errorf("Auto-debit failed for planned payment %d: %v", d.id, err)
			continue
		}
		executed++
		utils.Logger.Infof("Auto-debited planned payment %d into transaction %d", d.id, txnID)
	}

	if executed > 0 {
		utils.Logger.Infof("Auto-debit run executed %d of %d due payments", executed, len(due))
	}
	return nil
}

// -------------------------------------------------------------
// Send reminders for payments due within the next three days
// -------------------------------------------------------------
func SendDuePaymentReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	today := time.Now().UTC().Format("2006-01-02")
	horizon := time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")

	rows, err := db.QueryContext(ctx, `
		SELECT u.email, u.first_name, p.description, p.amount_cents, p.due_date
		FROM planned_payments p
		JOIN users u ON p.owner_id = u.id
		WHERE p.status = 'planned'
		  AND p.due_date BETWEEN ? AND ?
	`, today, horizon)
	if err != nil {
		return err
	}
	defer rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for rows.Next() {
		var (
			email, firstName, description, dueDate string
			amountCents                            int64
		)
		if err := rows.Scan(&email, &firstName, &description, &amountCents, &dueDate); err != nil {
			utils.Logger.Errorf("Failed to scan due payment reminder row: %v", err)
			continue
		}

		wg.Add(1)
		go func(email, firstName, description, dueDate string, amountCents int64) {
			defer wg.Done()

			amount := fmt.Sprintf("%.2f", float64(amountCents)/100)
			if err := utils.SendDuePaymentReminderEmail(email, firstName, description, amount, dueDate); err != nil {
				errChan <- fmt.Errorf("failed to send due payment reminder to %s: %v", email, err)
				return
			}
			utils.Logger.Infof("Sent due payment reminder to %s for '%s' due %s", email, description, dueDate)
		}(email, firstName, description, dueDate, amountCents)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating due payment rows: %v", err)
		return err
	}
	return nil
}
