package ledger

import (
	"context"
	"database/sql"
	"time"
)

// Summaries computes the read-side projections: period leftover, savings
// breakdown, goal progress. Nothing here mutates state; every result is
// re-derivable from the persisted rows.
type Summaries struct {
	store *Store
}

func NewSummaries(store *Store) *Summaries {
	return &Summaries{store: store}
}

// payPeriodWindowDays is the recurring cash-flow window anchored at the
// pay date, half-open: [pay_date, pay_date+14).
const payPeriodWindowDays = 14

type PeriodSummary struct {
	PayPeriodID     int64  `json:"pay_period_id"`
	PayDate         string `json:"pay_date"`
	WindowEnd       string `json:"window_end"`
	IncomeIn        int64  `json:"income_in"`
	ExpensesOut     int64  `json:"expenses_out"`
	SavingsOut      int64  `json:"savings_out"`
	ReservedPlanned int64  `json:"reserved_planned"`
	Leftover        int64  `json:"leftover"`
}

type SavingsGroup struct {
	AccountType string `json:"account_type"`
	AccountName string `json:"account_name"`
	Deposits    int64  `json:"deposits"`
	Withdrawals int64  `json:"withdrawals"`
	Net         int64  `json:"net"`
}

type SavingsSummary struct {
	Deposits    int64          `json:"deposits"`
	Withdrawals int64          `json:"withdrawals"`
	Net         int64          `json:"net"`
	ByAccount   []SavingsGroup `json:"by_account"`
}

type GoalProgress struct {
	GoalID      int64  `json:"goal_id"`
	Name        string `json:"name"`
	TargetCents int64  `json:"target_cents"`
	TargetDate  string `json:"target_date"`
	SavedCents  int64  `json:"saved_cents"`
	// Remaining may go negative on an overshoot or a post-target
	// withdrawal.
	RemainingCents int64 `json:"remaining_cents"`
}

const (
	qGetPayPeriod = "SELECT pay_date FROM pay_periods WHERE id = ? AND owner_id = ?"

	qSumPeriodIncome = "SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE pay_period_id = ? AND type IN ('income', 'adjustment') AND amount_cents > 0"

	qSumPeriodExpenses = "SELECT COALESCE(SUM(-amount_cents), 0) FROM transactions WHERE pay_period_id = ? AND type IN ('expense', 'transfer') AND amount_cents < 0"

	qSumPeriodSavings = "SELECT COALESCE(SUM(amount_cents), 0) FROM saving_entries WHERE pay_period_id = ?"

	qSumReservedPlanned = "SELECT COALESCE(SUM(amount_cents), 0) FROM planned_payments WHERE owner_id = ? AND status = 'planned' AND due_date >= ? AND due_date < ?"

	qSavingsByAccount = "SELECT a.type, a.name, COALESCE(SUM(CASE WHEN e.amount_cents > 0 THEN e.amount_cents ELSE 0 END), 0), COALESCE(SUM(CASE WHEN e.amount_cents < 0 THEN -e.amount_cents ELSE 0 END), 0) FROM saving_entries e JOIN accounts a ON a.id = e.account_id WHERE e.owner_id = ? GROUP BY a.type, a.name ORDER BY a.type, a.name"

	qGoalProgress = "SELECT g.id, g.name, g.target_amount_cents, g.target_date, COALESCE(SUM(e.amount_cents), 0) FROM saving_goals g LEFT JOIN saving_entry_goals l ON l.goal_id = g.id LEFT JOIN saving_entries e ON e.id = l.saving_entry_id WHERE g.owner_id = ? GROUP BY g.id, g.name, g.target_amount_cents, g.target_date, g.created_at ORDER BY g.target_date ASC, g.created_at DESC"
)

// PeriodSummary derives the cash-flow leftover for one pay period. All
// sums default to zero over an empty set.
func (s *Summaries) PeriodSummary(ctx context.Context, ownerID, payPeriodID int64) (PeriodSummary, error) {
	var out PeriodSummary

	var payDate string
	err := s.store.db.QueryRowContext(ctx, qGetPayPeriod, payPeriodID, ownerID).Scan(&payDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return out, notFound("pay period")
		}
		return out, storeErr(err)
	}

	start, err := time.Parse(dateLayout, payDate)
	if err != nil {
		return out, storeErr(err)
	}
	windowEnd := start.AddDate(0, 0, payPeriodWindowDays).Format(dateLayout)

	out.PayPeriodID = payPeriodID
	out.PayDate = payDate
	out.WindowEnd = windowEnd

	if err := s.store.db.QueryRowContext(ctx, qSumPeriodIncome, payPeriodID).Scan(&out.IncomeIn); err != nil {
		return out, storeErr(err)
	}
	if err := s.store.db.QueryRowContext(ctx, qSumPeriodExpenses, payPeriodID).Scan(&out.ExpensesOut); err != nil {
		return out, storeErr(err)
	}
	if err := s.store.db.QueryRowContext(ctx, qSumPeriodSavings, payPeriodID).Scan(&out.SavingsOut); err != nil {
		return out, storeErr(err)
	}
	if err := s.store.db.QueryRowContext(ctx, qSumReservedPlanned, ownerID, payDate, windowEnd).Scan(&out.ReservedPlanned); err != nil {
		return out, storeErr(err)
	}

	out.Leftover = out.IncomeIn - out.ExpensesOut - out.SavingsOut - out.ReservedPlanned
	return out, nil
}

// SavingsSummary totals deposits and withdrawals and breaks them down by
// account type and name.
func (s *Summaries) SavingsSummary(ctx context.Context, ownerID int64) (SavingsSummary, error) {
	var out SavingsSummary
	out.ByAccount = []SavingsGroup{}

	rows, err := s.store.db.QueryContext(ctx, qSavingsByAccount, ownerID)
	if err != nil {
		return out, storeErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var g SavingsGroup
		if err := rows.Scan(&g.AccountType, &g.AccountName, &g.Deposits, &g.Withdrawals); err != nil {
			return out, storeErr(err)
		}
		g.Net = g.Deposits - g.Withdrawals
		out.Deposits += g.Deposits
		out.Withdrawals += g.Withdrawals
		out.ByAccount = append(out.ByAccount, g)
	}
	if err := rows.Err(); err != nil {
		return out, storeErr(err)
	}

	out.Net = out.Deposits - out.Withdrawals
	return out, nil
}

// GoalProgress sums linked saving entries per goal; a withdrawal on a
// linked entry reduces saved. Goals come back ordered by target date,
// then creation recency.
func (s *Summaries) GoalProgress(ctx context.Context, ownerID int64) ([]GoalProgress, error) {
	rows, err := s.store.db.QueryContext(ctx, qGoalProgress, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	progress := []GoalProgress{}
	for rows.Next() {
		var g GoalProgress
		if err := rows.Scan(&g.GoalID, &g.Name, &g.TargetCents, &g.TargetDate, &g.SavedCents); err != nil {
			return nil, storeErr(err)
		}
		g.RemainingCents = g.TargetCents - g.SavedCents
		progress = append(progress, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}

	return progress, nil
}
