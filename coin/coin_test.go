package coin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covault/covault/errors"
)

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid":              {coin: NewCoin(123, "IOV")},
		"valid zero":         {coin: NewCoin(0, "GOLD")},
		"valid negative":     {coin: NewCoin(-5, "IOV")},
		"lowercase ticker":   {coin: NewCoin(1, "iov"), wantErr: ErrCurrency},
		"too short ticker":   {coin: NewCoin(1, "AB"), wantErr: ErrCurrency},
		"too long ticker":    {coin: NewCoin(1, "ABCDE"), wantErr: ErrCurrency},
		"units out of range": {coin: NewCoin(MaxUnits+1, "IOV"), wantErr: errors.ErrOverflow},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.coin.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}
}

func TestCoinAddSubtract(t *testing.T) {
	sum, err := NewCoin(40, "IOV").Add(NewCoin(2, "IOV"))
	require.NoError(t, err)
	assert.True(t, sum.Equals(NewCoin(42, "IOV")))

	diff, err := NewCoin(40, "IOV").Subtract(NewCoin(50, "IOV"))
	require.NoError(t, err)
	assert.True(t, diff.Equals(NewCoin(-10, "IOV")))

	_, err = NewCoin(1, "IOV").Add(NewCoin(1, "BTC"))
	assert.True(t, ErrCurrency.Is(err))

	_, err = NewCoin(MaxUnits, "IOV").Add(NewCoin(MaxUnits, "IOV"))
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestCoinCompare(t *testing.T) {
	assert.Equal(t, -1, NewCoin(1, "IOV").Compare(NewCoin(2, "IOV")))
	assert.Equal(t, 0, NewCoin(2, "IOV").Compare(NewCoin(2, "IOV")))
	assert.Equal(t, 1, NewCoin(3, "IOV").Compare(NewCoin(2, "IOV")))
	assert.Panics(t, func() {
		NewCoin(1, "IOV").Compare(NewCoin(1, "BTC"))
	})
}

func TestCoinsAddNormalizes(t *testing.T) {
	set, err := NewCoins(NewCoin(10, "IOV"))
	require.NoError(t, err)

	set, err = set.Add(NewCoin(5, "IOV"))
	require.NoError(t, err)
	assert.True(t, set.Amount("IOV").Equals(NewCoin(15, "IOV")))
	require.NoError(t, set.Validate())

	// Draining to zero removes the entry entirely.
	set, err = set.Subtract(NewCoin(15, "IOV"))
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
	assert.Len(t, set, 0)
}

func TestCoinsNoDebt(t *testing.T) {
	set, err := NewCoins(NewCoin(10, "IOV"))
	require.NoError(t, err)

	_, err = set.Subtract(NewCoin(11, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestCoinsContains(t *testing.T) {
	set, err := NewCoins(NewCoin(100, "IOV"))
	require.NoError(t, err)

	assert.True(t, set.Contains(NewCoin(100, "IOV")))
	assert.True(t, set.Contains(NewCoin(1, "IOV")))
	assert.False(t, set.Contains(NewCoin(101, "IOV")))
	assert.False(t, set.Contains(NewCoin(1, "BTC")))
	// Containing a non-positive amount makes no sense.
	assert.False(t, set.Contains(NewCoin(0, "IOV")))
}
