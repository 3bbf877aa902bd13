// Package money formatea montos para presentación. Los cálculos internos nunca redondean:
// el redondeo a 2 decimales ocurre solo aquí.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format devuelve el monto con 2 decimales y prefijo "$" (ej: "$1234.50"), igual que el panel web.
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatES devuelve el monto con separador de miles y coma decimal (ej: "$ 12.345,50").
// Se usa en documentos impresos (comprobantes PDF).
func FormatES(d decimal.Decimal) string {
	rounded := d.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	_, frac, _ := strings.Cut(rounded.StringFixed(2), ".")

	p := message.NewPrinter(language.Spanish)
	return sign + "$ " + p.Sprintf("%d", rounded.IntPart()) + "," + frac
}
