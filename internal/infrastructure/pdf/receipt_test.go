package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/infrastructure/pdf"
)

func TestGenerateReceipt(t *testing.T) {
	gen := pdf.NewReceiptGenerator(pdf.Store{Address: "Av. 18 de Julio 1234", Phone: "2900 0000"})
	sale := &entity.Sale{
		ID:         42,
		Cliente:    &entity.Client{ID: 9, Nombre: "Marta", Apellido: "Rojas", CI: "4567890"},
		Vendedor:   "ana",
		FechaVenta: time.Date(2025, 3, 20, 15, 30, 0, 0, time.UTC),
		Total:      decimal.RequireFromString("12345.50"),
		Detalles: []entity.SaleDetail{
			{Producto: &entity.Product{ID: 1, Nombre: "Anillo"}, ProductoID: 1, Cantidad: 2,
				PrecioUnitario: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(200)},
			{ProductoID: 2, ProductoNombre: "Collar", Cantidad: 1,
				PrecioUnitario: decimal.RequireFromString("12145.50"), Subtotal: decimal.RequireFromString("12145.50")},
		},
	}

	out, err := gen.GenerateReceipt(context.Background(), sale)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe ser un PDF")
}

func TestGenerateReceipt_SinClienteNiDetalles(t *testing.T) {
	gen := pdf.NewReceiptGenerator(pdf.Store{})

	out, err := gen.GenerateReceipt(context.Background(), &entity.Sale{ID: 7})

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateReceipt_VentaNil(t *testing.T) {
	_, err := pdf.NewReceiptGenerator(pdf.Store{}).GenerateReceipt(context.Background(), nil)
	assert.Error(t, err)
}

func TestReference(t *testing.T) {
	assert.Equal(t, "TREBOL-VENTA-000042", pdf.Reference(&entity.Sale{ID: 42}))
}
