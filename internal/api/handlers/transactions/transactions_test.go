package transactions

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paycheck_pilot/internal/ledger"
	"paycheck_pilot/pkg/utils"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(db, ledger.NewStore(db)), mock
}

func authedRequest(method, target string, body []byte) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	ctx := context.WithValue(r.Context(), utils.ContextKey("userId"), int64(7))
	return r.WithContext(ctx)
}

func TestCreateTransactionWithDisplayAmount(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM accounts WHERE id = ? AND owner_id = ?)")).
		WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WithArgs(int64(7), nil, int64(3), nil, "expense", int64(-2500), "Lunch", "2025-03-02", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(10, 1))

	body, err := json.Marshal(map[string]any{
		"account_id":  3,
		"type":        "expense",
		"amount":      "-25.00",
		"description": "Lunch",
		"txn_date":    "2025-03-02",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, authedRequest(http.MethodPost, "/transactions", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
		Amount string `json:"amount"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "-25.00", resp.Amount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransactionDisplayAmountTooPrecise(t *testing.T) {
	h, mock := newTestHandler(t)

	body, err := json.Marshal(map[string]any{
		"account_id": 3,
		"type":       "expense",
		"amount":     "-25.005",
		"txn_date":   "2025-03-02",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, authedRequest(http.MethodPost, "/transactions", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransactionRejectsBothAmountForms(t *testing.T) {
	h, mock := newTestHandler(t)

	body, err := json.Marshal(map[string]any{
		"account_id":   3,
		"type":         "expense",
		"amount":       "-25.00",
		"amount_cents": -2500,
		"txn_date":     "2025-03-02",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, authedRequest(http.MethodPost, "/transactions", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}
