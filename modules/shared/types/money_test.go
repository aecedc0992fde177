package types_test

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/order-events-go/modules/shared/types"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewMoney_Validation(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  error
	}{
		{"valid", "9.99", "EUR", nil},
		{"zero amount", "0", "USD", nil},
		{"negative amount", "-0.01", "EUR", types.ErrNegativeAmount},
		{"empty currency", "1", "", types.ErrCurrencyRequired},
		{"blank currency", "1", "   ", types.ErrCurrencyRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := types.NewMoney(dec(tt.amount), tt.currency)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, types.ErrValidation)

			var vErr *types.ValidationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}

func TestNewMoney_NormalizesCurrency(t *testing.T) {
	lower := types.MustNewMoney(dec("5"), "eur")
	upper := types.MustNewMoney(dec("5"), "EUR")

	assert.Equal(t, "EUR", lower.Currency())
	assert.True(t, lower.Equals(upper))
}

func TestMoney_Add(t *testing.T) {
	a := types.MustNewMoney(dec("10.50"), "EUR")
	b := types.MustNewMoney(dec("0.25"), "EUR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, dec("10.75").Equal(sum.Amount()))
	assert.Equal(t, "EUR", sum.Currency())

	// operands unchanged
	assert.True(t, dec("10.50").Equal(a.Amount()))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := types.MustNewMoney(dec("1"), "EUR")
	b := types.MustNewMoney(dec("1"), "USD")

	_, err := a.Add(b)
	assert.True(t, errors.Is(err, types.ErrCurrencyMismatch))
}

func TestMoney_Subtract(t *testing.T) {
	a := types.MustNewMoney(dec("10"), "EUR")

	t.Run("ok", func(t *testing.T) {
		diff, err := a.Subtract(types.MustNewMoney(dec("2.5"), "EUR"))
		require.NoError(t, err)
		assert.True(t, dec("7.5").Equal(diff.Amount()))
	})

	t.Run("to zero", func(t *testing.T) {
		diff, err := a.Subtract(a)
		require.NoError(t, err)
		assert.True(t, diff.IsZero())
	})

	t.Run("negative result", func(t *testing.T) {
		_, err := a.Subtract(types.MustNewMoney(dec("10.01"), "EUR"))
		require.ErrorIs(t, err, types.ErrInsufficientAmount)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		_, err := a.Subtract(types.MustNewMoney(dec("1"), "GBP"))
		require.ErrorIs(t, err, types.ErrCurrencyMismatch)
	})
}

func TestMoney_Multiply(t *testing.T) {
	price := types.MustNewMoney(dec("9.99"), "EUR")

	for _, q := range []int64{0, 1, 2, 3, 100} {
		got, err := price.Multiply(q)
		require.NoError(t, err)
		want := dec("9.99").Mul(decimal.NewFromInt(q))
		assert.True(t, want.Equal(got.Amount()), "quantity %d", q)
		assert.Equal(t, "EUR", got.Currency())
	}

	t.Run("negative factor", func(t *testing.T) {
		_, err := price.Multiply(-2)
		require.ErrorIs(t, err, types.ErrNegativeAmount)
		require.ErrorIs(t, err, types.ErrValidation)

		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "factor", verr.Field)
	})
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "19.98 EUR", types.MustNewMoney(dec("19.98"), "eur").String())
}

func TestMoney_MarshalJSON(t *testing.T) {
	b, err := types.MustNewMoney(dec("19.98"), "eur").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":19.98,"currency":"EUR"}`, string(b))
}

func TestMoney_UnmarshalJSON(t *testing.T) {
	for name, raw := range map[string]string{
		"number": `{"amount":19.98,"currency":"eur"}`,
		"string": `{"currency":"EUR","amount":"19.98","extra":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			var m types.Money
			require.NoError(t, m.UnmarshalJSON([]byte(raw)))
			assert.True(t, m.Equals(types.MustNewMoney(dec("19.98"), "EUR")), m.String())
		})
	}
}

func TestMoney_UnmarshalJSONInvalid(t *testing.T) {
	for name, raw := range map[string]string{
		"negative":         `{"amount":-1,"currency":"EUR"}`,
		"missing currency": `{"amount":1}`,
		"bad amount":       `{"amount":"abc","currency":"EUR"}`,
	} {
		t.Run(name, func(t *testing.T) {
			var m types.Money
			err := m.UnmarshalJSON([]byte(raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrValidation))
		})
	}
}
