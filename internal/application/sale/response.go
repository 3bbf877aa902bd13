package sale

import (
	"iter"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/pkg/money"
)

// ToResponse borrador para la UI; los montos formateados se redondean solo aquí.
func (d Draft) ToResponse() dto.DraftResponse {
	out := dto.DraftResponse{
		ClienteID:       d.SelectedClientID,
		Lineas:          make([]dto.DraftLineResponse, 0, len(d.Lines)),
		Total:           d.Total,
		TotalFormateado: money.Format(d.Total),
	}
	for _, l := range d.Lines {
		out.Lineas = append(out.Lineas, dto.DraftLineResponse{
			ProductID:          l.Product.ID,
			Nombre:             l.Product.Nombre,
			Cantidad:           l.Quantity,
			CantidadDisponible: l.Product.CantidadDisponible,
			PrecioUnitario:     l.UnitPrice,
			Subtotal:           l.Subtotal,
			PrecioFormateado:   money.Format(l.UnitPrice),
			SubtotalFormateado: money.Format(l.Subtotal),
		})
	}
	return out
}

// Suggestions materializa la búsqueda para la UI.
func Suggestions(products iter.Seq[entity.Product]) []dto.ProductSuggestion {
	out := []dto.ProductSuggestion{}
	for p := range products {
		out = append(out, dto.ProductSuggestion{
			ID:                 p.ID,
			Nombre:             p.Nombre,
			PrecioFormateado:   money.Format(p.Precio),
			CantidadDisponible: p.CantidadDisponible,
		})
	}
	return out
}
