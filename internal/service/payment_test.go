package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAmountsExactDivision(t *testing.T) {
	amounts := SplitAmounts(decimal.NewFromInt(100), 4)
	require.Len(t, amounts, 4)
	for _, a := range amounts {
		assert.True(t, a.Equal(decimal.NewFromInt(25)), "got %s", a)
	}
}

func TestSplitAmountsRemainderGoesToLast(t *testing.T) {
	// 100.00 across three: 33.33 + 33.33 + 33.34
	amounts := SplitAmounts(decimal.NewFromInt(100), 3)
	require.Len(t, amounts, 3)
	assert.Equal(t, "33.33", amounts[0].StringFixed(2))
	assert.Equal(t, "33.33", amounts[1].StringFixed(2))
	assert.Equal(t, "33.34", amounts[2].StringFixed(2))

	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(100)))
}

func TestSplitAmountsSumsBackToTotal(t *testing.T) {
	totals := []string{"0.01", "0.05", "99999.99", "1234.56"}
	for _, s := range totals {
		total := decimal.RequireFromString(s)
		for n := 1; n <= 7; n++ {
			amounts := SplitAmounts(total, n)
			require.Len(t, amounts, n)
			sum := decimal.Zero
			for _, a := range amounts {
				sum = sum.Add(a)
			}
			assert.True(t, sum.Equal(total), "total %s across %d: sum %s", s, n, sum)
		}
	}
}

func TestSplitAmountsSingleRecipient(t *testing.T) {
	amounts := SplitAmounts(decimal.RequireFromString("73.57"), 1)
	require.Len(t, amounts, 1)
	assert.Equal(t, "73.57", amounts[0].StringFixed(2))
}
