package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/grocery-api/pkg/money"
)

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"0":       "$0.00",
		"3.75":    "$3.75",
		"1234.5":  "$1,234.50",
		"1000000": "$1,000,000.00",
		"-12.5":   "-$12.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, money.Format(decimal.RequireFromString(in)), in)
	}
}
