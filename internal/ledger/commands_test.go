package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fielbet/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation runs before any database access, so a nil transaction is safe
// for the rejection paths.
func TestExecuteDebit_RejectsNonPositiveAmount(t *testing.T) {
	e := NewEngine(nil, nil, nil)

	for _, amount := range []int64{0, -100} {
		_, err := e.ExecuteDebit(context.Background(), nil, DebitParams{
			UserID: "123456789012345678",
			Type:   domain.TxStake,
			Amount: amount,
		})
		require.Error(t, err)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}
}

func TestExecuteCredit_RejectsNonPositiveAmount(t *testing.T) {
	e := NewEngine(nil, nil, nil)

	_, err := e.ExecuteCredit(context.Background(), nil, CreditParams{
		UserID: "123456789012345678",
		Type:   domain.TxPrize,
		Amount: 0,
	})
	require.Error(t, err)
}

func TestExecuteAdjustment_RejectsZeroDelta(t *testing.T) {
	e := NewEngine(nil, nil, nil)

	_, err := e.ExecuteAdjustment(context.Background(), nil, "123456789012345678", "reversal", 0, "")
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestHelpers(t *testing.T) {
	assert.Nil(t, strPtr(""))
	require.NotNil(t, strPtr("ref"))
	assert.Equal(t, "ref", *strPtr("ref"))

	assert.Equal(t, json.RawMessage(`{}`), ensureJSON(nil))
	raw := json.RawMessage(`{"k":1}`)
	assert.Equal(t, raw, ensureJSON(raw))
}
