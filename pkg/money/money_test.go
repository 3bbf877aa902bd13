package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/trebol-admin/pkg/money"
)

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"200":      "$200.00",
		"0":        "$0.00",
		"19.999":   "$20.00",
		"1234.5":   "$1234.50",
		"0.333333": "$0.33",
	}
	for in, want := range cases {
		assert.Equal(t, want, money.Format(decimal.RequireFromString(in)), in)
	}
}

// Tres líneas de 0.333 suman 0.999: el total se redondea una sola vez al mostrarse.
func TestFormat_RedondeaSoloAlFinal(t *testing.T) {
	sub := decimal.RequireFromString("0.333")
	total := sub.Add(sub).Add(sub)
	assert.Equal(t, "$1.00", money.Format(total))
	assert.Equal(t, "0.999", total.String())
}

func TestFormatES(t *testing.T) {
	assert.Equal(t, "$ 12.345,50", money.FormatES(decimal.RequireFromString("12345.5")))
	assert.Equal(t, "$ 100,00", money.FormatES(decimal.NewFromInt(100)))
	assert.Equal(t, "-$ 5,25", money.FormatES(decimal.RequireFromString("-5.25")))
}
