package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyMarshalsFixedScale(t *testing.T) {
	cases := map[string]string{
		"120":    `"120.00"`,
		"0":      `"0.00"`,
		"80.5":   `"80.50"`,
		"275.25": `"275.25"`,
	}
	for in, want := range cases {
		raw, err := json.Marshal(NewMoney(decimal.RequireFromString(in)))
		require.NoError(t, err)
		assert.Equal(t, want, string(raw), in)
	}
}

func TestStudentTotalsRenderTwoDecimals(t *testing.T) {
	student := Student{
		ID:        1,
		TotalPaid: NewMoney(decimal.RequireFromString("100")),
		TotalDebt: NewMoney(decimal.Zero),
	}
	raw, err := json.Marshal(student)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_paid":"100.00"`)
	assert.Contains(t, string(raw), `"total_debt":"0.00"`)

	raw, err = json.Marshal(Student{ID: 2})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "total_paid")
}
