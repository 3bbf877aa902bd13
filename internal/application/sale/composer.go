// Package sale arma ventas en memoria a partir de un snapshot del catálogo y las envía al backend.
package sale

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trebol-admin/internal/application/catalog"
	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/pkg/logger"
)

// MaxSuggestions tope de resultados de SearchProducts.
const MaxSuggestions = 10

// SaleGateway crea ventas en el backend. Lo implementa *api.Client.
type SaleGateway interface {
	CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*entity.Sale, error)
}

// TokenSource indica si hay un access token vigente. Lo implementa *session.Manager.
type TokenSource interface {
	AccessToken() string
}

// Line línea del borrador. Subtotal = UnitPrice × Quantity, sin redondear.
type Line struct {
	Product   entity.Product
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Draft copia del borrador para lectura.
type Draft struct {
	SelectedClientID *int
	Lines            []Line
	Total            decimal.Decimal
}

// Empty indica que el borrador no tiene cliente ni líneas.
func (d Draft) Empty() bool {
	return d.SelectedClientID == nil && len(d.Lines) == 0
}

// Option configura el Composer.
type Option func(*Composer)

// WithOutOfStockTracker registra los productos agotados después de cada venta aceptada.
func WithOutOfStockTracker(t *OutOfStockTracker) Option { return func(c *Composer) { c.tracker = t } }

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option { return func(c *Composer) { c.log = l.Component("sale") } }

// Composer borrador de venta ligado a un snapshot del catálogo.
//
// El stock se valida solo contra el snapshot: una venta hecha en paralelo desde otro puesto
// no se detecta hasta que el backend rechaza el envío.
type Composer struct {
	snapshot *catalog.Snapshot
	gw       SaleGateway
	auth     TokenSource
	tracker  *OutOfStockTracker
	log      *logger.Logger

	mu         sync.Mutex
	clientID   *int
	lines      []Line
	total      decimal.Decimal
	submitting bool // hay un envío en curso: el borrador no admite cambios
}

// NewComposer devuelve un borrador vacío sobre snapshot.
func NewComposer(snapshot *catalog.Snapshot, gw SaleGateway, auth TokenSource, opts ...Option) *Composer {
	if snapshot == nil {
		snapshot = &catalog.Snapshot{}
	}
	c := &Composer{
		snapshot: snapshot,
		gw:       gw,
		auth:     auth,
		log:      logger.Nop(),
		total:    decimal.Zero,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot catálogo sobre el que trabaja el borrador.
func (c *Composer) Snapshot() *catalog.Snapshot { return c.snapshot }

// Reset vacía el borrador (mismo estado que NewComposer).
func (c *Composer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Composer) resetLocked() {
	c.clientID = nil
	c.lines = nil
	c.total = decimal.Zero
}

// SelectClient fija el cliente de la venta. El ID debe existir en el snapshot.
func (c *Composer) SelectClient(clientID int) error {
	if _, ok := c.snapshot.Client(clientID); !ok {
		return domain.ErrNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return domain.ErrSubmitInProgress
	}
	id := clientID
	c.clientID = &id
	return nil
}

// SearchProducts sugerencias para term: productos con stock cuyo nombre contiene term (sin
// distinguir mayúsculas) o cuyo ID contiene term, en el orden del catálogo y como máximo
// MaxSuggestions. La secuencia es perezosa y se puede recorrer varias veces.
func (c *Composer) SearchProducts(term string) iter.Seq[entity.Product] {
	term = strings.TrimSpace(term)
	needle := strings.ToLower(term)
	products := c.snapshot.Products
	return func(yield func(entity.Product) bool) {
		if needle == "" {
			return
		}
		n := 0
		for _, p := range products {
			if !p.InStock() {
				continue
			}
			if !strings.Contains(strings.ToLower(p.Nombre), needle) && !strings.Contains(p.IDString(), term) {
				continue
			}
			if !yield(p) {
				return
			}
			n++
			if n == MaxSuggestions {
				return
			}
		}
	}
}

// FindProduct resuelve lo que el operador escribió sin elegir una sugerencia:
// nombre exacto (sin distinguir mayúsculas) o ID exacto.
func (c *Composer) FindProduct(term string) (entity.Product, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return entity.Product{}, false
	}
	for _, p := range c.snapshot.Products {
		if strings.EqualFold(p.Nombre, term) || p.IDString() == term {
			return p, true
		}
	}
	return entity.Product{}, false
}

// AddLine agrega qty unidades del producto. Si ya hay una línea se suman las cantidades;
// la suma no puede superar el stock del snapshot. Ante un error el borrador no cambia.
func (c *Composer) AddLine(productID, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	product, ok := c.snapshot.Product(productID)
	if !ok {
		return domain.ErrNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return domain.ErrSubmitInProgress
	}
	idx := c.indexLocked(productID)
	current := 0
	if idx >= 0 {
		current = c.lines[idx].Quantity
	}
	if current+qty > product.CantidadDisponible {
		return &domain.StockError{ProductID: productID, Available: product.CantidadDisponible, Requested: current + qty}
	}

	if idx >= 0 {
		line := &c.lines[idx]
		line.Quantity = current + qty
		line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	} else {
		c.lines = append(c.lines, Line{
			Product:   product,
			Quantity:  qty,
			UnitPrice: product.Precio,
			Subtotal:  product.Precio.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	c.recomputeLocked()
	return nil
}

// AdjustLineQuantity suma delta a la línea. Superar el stock se rechaza sin tocar la línea;
// llegar a 0 o menos elimina la línea. Sobre una línea inexistente no hace nada.
func (c *Composer) AdjustLineQuantity(productID, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return domain.ErrSubmitInProgress
	}
	idx := c.indexLocked(productID)
	if idx < 0 {
		return nil
	}
	line := &c.lines[idx]
	newQty := line.Quantity + delta
	if newQty > line.Product.CantidadDisponible {
		return &domain.StockError{ProductID: productID, Available: line.Product.CantidadDisponible, Requested: newQty}
	}
	if newQty <= 0 {
		c.removeLocked(idx)
	} else {
		line.Quantity = newQty
		line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(newQty)))
	}
	c.recomputeLocked()
	return nil
}

// RemoveLine elimina la línea del producto si existe.
func (c *Composer) RemoveLine(productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return domain.ErrSubmitInProgress
	}
	if idx := c.indexLocked(productID); idx >= 0 {
		c.removeLocked(idx)
	}
	c.recomputeLocked()
	return nil
}

// Draft copia del estado actual.
func (c *Composer) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := Draft{Lines: make([]Line, len(c.lines)), Total: c.total}
	copy(d.Lines, c.lines)
	if c.clientID != nil {
		id := *c.clientID
		d.SelectedClientID = &id
	}
	return d
}

// Total suma de los subtotales.
func (c *Composer) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Payload cuerpo que se enviaría a sales/ con el estado actual.
func (c *Composer) Payload() (dto.CreateSaleRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payloadLocked()
}

func (c *Composer) payloadLocked() (dto.CreateSaleRequest, error) {
	if c.clientID == nil {
		return dto.CreateSaleRequest{}, domain.ErrNoClientSelected
	}
	if len(c.lines) == 0 {
		return dto.CreateSaleRequest{}, domain.ErrEmptyDraft
	}
	req := dto.CreateSaleRequest{
		ClienteID: *c.clientID,
		Detalles:  make([]dto.SaleDetailRequest, 0, len(c.lines)),
		Total:     c.total,
	}
	for _, l := range c.lines {
		req.Detalles = append(req.Detalles, dto.SaleDetailRequest{
			ProductoID:     l.Product.ID,
			Cantidad:       l.Quantity,
			PrecioUnitario: l.UnitPrice,
			Subtotal:       l.Subtotal,
		})
	}
	return req, nil
}

// Submit envía la venta. Sin access token no se llama al backend. Si el backend la acepta el
// borrador queda vacío; si la rechaza queda intacto y el error trae los mensajes por campo
// (*domain.ValidationError).
//
// Mientras el envío está en curso el borrador queda congelado: un segundo Submit o cualquier
// cambio devuelve domain.ErrSubmitInProgress, así lo enviado es exactamente lo que se vacía.
func (c *Composer) Submit(ctx context.Context) (*entity.Sale, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, domain.ErrSubmitInProgress
	}
	req, err := c.payloadLocked()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.auth == nil || c.auth.AccessToken() == "" {
		c.mu.Unlock()
		return nil, domain.ErrNotAuthenticated
	}
	c.submitting = true
	c.mu.Unlock()

	created, err := c.gw.CreateSale(ctx, req)

	c.mu.Lock()
	c.submitting = false
	if err == nil {
		c.resetLocked()
	}
	c.mu.Unlock()

	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.log.Warn().Interface("fields", verr.Fields).Msg("venta rechazada por el backend")
		} else {
			c.log.Error().Err(err).Msg("no se pudo registrar la venta")
		}
		return nil, err
	}

	c.log.Info().Int("cliente_id", req.ClienteID).Int("lineas", len(req.Detalles)).
		Str("total", req.Total.String()).Msg("venta registrada")

	if c.tracker != nil {
		c.tracker.Register(ctx, req.Detalles)
	}
	return created, nil
}

func (c *Composer) indexLocked(productID int) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Composer) removeLocked(idx int) {
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}

func (c *Composer) recomputeLocked() {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal)
	}
	c.total = total
}
