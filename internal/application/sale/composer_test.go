package sale_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trebol-admin/internal/application/catalog"
	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/application/sale"
	"github.com/jhoicas/trebol-admin/internal/domain"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	mu       sync.Mutex
	requests []dto.CreateSaleRequest
	err      error
}

func (g *fakeGateway) CreateSale(_ context.Context, in dto.CreateSaleRequest) (*entity.Sale, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, in)
	if g.err != nil {
		return nil, g.err
	}
	return &entity.Sale{ID: len(g.requests), Total: in.Total}, nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func anillo() entity.Product {
	return entity.Product{ID: 1, Nombre: "Anillo", Precio: decimal.NewFromInt(100), CantidadDisponible: 3}
}

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Products: []entity.Product{
			anillo(),
			{ID: 2, Nombre: "Collar de perlas", Precio: decimal.RequireFromString("259.90"), CantidadDisponible: 5},
			{ID: 3, Nombre: "Aros de plata", Precio: decimal.RequireFromString("10.005"), CantidadDisponible: 4},
			{ID: 4, Nombre: "Anillo de compromiso", Precio: decimal.NewFromInt(1500), CantidadDisponible: 0},
			{ID: 12, Nombre: "Pulsera", Precio: decimal.RequireFromString("0.1"), CantidadDisponible: 10},
		},
		Clients: []entity.Client{{ID: 9, Nombre: "Marta", Apellido: "Rojas", CI: "4567890"}},
	}
}

func newComposer(t *testing.T) (*sale.Composer, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{}
	return sale.NewComposer(testSnapshot(), gw, staticToken("access")), gw
}

// requireSameDraft compara dos copias del borrador por valor (los decimales con Equal).
func requireSameDraft(t *testing.T, want, got sale.Draft, msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, want.SelectedClientID, got.SelectedClientID, msgAndArgs...)
	require.Len(t, got.Lines, len(want.Lines), msgAndArgs...)
	for i := range want.Lines {
		require.Equal(t, want.Lines[i].Product.ID, got.Lines[i].Product.ID, msgAndArgs...)
		require.Equal(t, want.Lines[i].Quantity, got.Lines[i].Quantity, msgAndArgs...)
		require.True(t, want.Lines[i].Subtotal.Equal(got.Lines[i].Subtotal), msgAndArgs...)
	}
	require.True(t, want.Total.Equal(got.Total), msgAndArgs...)
}

func sumSubtotals(d sale.Draft) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range d.Lines {
		sum = sum.Add(l.Subtotal)
	}
	return sum
}

// ──────────────────────────────────────────────────────────────────────────────
// AddLine / AdjustLineQuantity / RemoveLine
// ──────────────────────────────────────────────────────────────────────────────

func TestAddLine_EscenarioA_StockAcumulado(t *testing.T) {
	c, _ := newComposer(t)

	require.NoError(t, c.AddLine(1, 2))
	d := c.Draft()
	require.Len(t, d.Lines, 1)
	assert.Equal(t, 2, d.Lines[0].Quantity)
	assert.True(t, d.Lines[0].Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, d.Total.Equal(decimal.NewFromInt(200)))

	err := c.AddLine(1, 2)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var serr *domain.StockError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 3, serr.Available)
	assert.Equal(t, 4, serr.Requested)
	assert.Equal(t, d, c.Draft(), "el borrador no cambia")
}

func TestAddLine_MismoProductoSeFusiona(t *testing.T) {
	c, _ := newComposer(t)

	require.NoError(t, c.AddLine(1, 1))
	require.NoError(t, c.AddLine(2, 1))
	require.NoError(t, c.AddLine(1, 2))

	d := c.Draft()
	require.Len(t, d.Lines, 2, "una línea por producto")
	assert.Equal(t, 1, d.Lines[0].Product.ID, "se conserva el orden de inserción")
	assert.Equal(t, 3, d.Lines[0].Quantity)
	assert.True(t, d.Lines[0].Subtotal.Equal(decimal.NewFromInt(300)))
	assert.True(t, d.Total.Equal(decimal.RequireFromString("559.90")))
}

func TestAddLine_CantidadInvalida(t *testing.T) {
	c, _ := newComposer(t)

	assert.ErrorIs(t, c.AddLine(1, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddLine(1, -2), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddLine(99, 1), domain.ErrNotFound)
	assert.Empty(t, c.Draft().Lines)
}

// La cantidad se valida antes de buscar el producto: el error no depende del ID.
func TestAddLine_CantidadInvalida_ProductoInexistente(t *testing.T) {
	c, _ := newComposer(t)

	assert.ErrorIs(t, c.AddLine(99, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddLine(99, -1), domain.ErrInvalidQuantity)
	assert.Empty(t, c.Draft().Lines)
}

func TestAdjustLineQuantity_EscenarioB_LlegarACeroElimina(t *testing.T) {
	c, _ := newComposer(t)
	require.NoError(t, c.AddLine(1, 1))

	require.NoError(t, c.AdjustLineQuantity(1, -1))

	d := c.Draft()
	assert.Empty(t, d.Lines)
	assert.True(t, d.Total.IsZero())

	require.NoError(t, c.AdjustLineQuantity(1, -1), "sobre una línea ausente no hace nada")
	assert.Empty(t, c.Draft().Lines)
}

func TestAdjustLineQuantity_TopeDeStock(t *testing.T) {
	c, _ := newComposer(t)
	require.NoError(t, c.AddLine(1, 3))
	before := c.Draft()

	err := c.AdjustLineQuantity(1, +1)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, before, c.Draft(), "la línea no se recorta al máximo")

	require.NoError(t, c.AdjustLineQuantity(1, -1))
	d := c.Draft()
	assert.Equal(t, 2, d.Lines[0].Quantity)
	assert.True(t, d.Total.Equal(decimal.NewFromInt(200)))
}

func TestRemoveLine(t *testing.T) {
	c, _ := newComposer(t)
	require.NoError(t, c.AddLine(1, 1))
	require.NoError(t, c.AddLine(2, 2))

	require.NoError(t, c.RemoveLine(1))
	require.NoError(t, c.RemoveLine(1))

	d := c.Draft()
	require.Len(t, d.Lines, 1)
	assert.Equal(t, 2, d.Lines[0].Product.ID)
	assert.True(t, d.Total.Equal(decimal.RequireFromString("519.80")))
}

func TestTotal_SinRedondeoIntermedio(t *testing.T) {
	c, _ := newComposer(t)
	require.NoError(t, c.AddLine(3, 2))
	require.NoError(t, c.AddLine(12, 3))

	d := c.Draft()
	assert.Equal(t, "20.01", d.Lines[0].Subtotal.String(), "10.005 × 2 sin redondear")
	assert.Equal(t, "0.3", d.Lines[1].Subtotal.String())
	assert.Equal(t, "20.31", d.Total.String())

	resp := d.ToResponse()
	assert.Equal(t, "$10.01", resp.Lineas[0].PrecioFormateado)
	assert.Equal(t, "$20.31", resp.TotalFormateado)
}

// El total siempre es la suma de los subtotales y ninguna línea supera el stock del snapshot,
// para cualquier secuencia de operaciones. Una operación que falla deja el borrador igual.
func TestTotal_PropiedadSecuenciasAleatorias(t *testing.T) {
	snap := testSnapshot()
	ids := []int{1, 2, 3, 4, 12, 99}
	for seed := uint64(1); seed <= 50; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			r := rand.New(rand.NewPCG(seed, seed*31))
			c := sale.NewComposer(snap, &fakeGateway{}, staticToken("access"))
			for step := 0; step < 40; step++ {
				id := ids[r.IntN(len(ids))]
				before := c.Draft()
				var err error
				switch r.IntN(3) {
				case 0:
					err = c.AddLine(id, r.IntN(5)-1)
				case 1:
					err = c.AdjustLineQuantity(id, r.IntN(5)-2)
				default:
					err = c.RemoveLine(id)
				}
				d := c.Draft()
				if err != nil {
					requireSameDraft(t, before, d, "step %d: %v", step, err)
				}
				require.True(t, d.Total.Equal(sumSubtotals(d)), "step %d", step)
				seen := map[int]bool{}
				for _, l := range d.Lines {
					require.False(t, seen[l.Product.ID], "línea duplicada")
					seen[l.Product.ID] = true
					require.Positive(t, l.Quantity)
					p, _ := snap.Product(l.Product.ID)
					require.LessOrEqual(t, l.Quantity, p.CantidadDisponible)
					require.True(t, l.Subtotal.Equal(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))))
				}
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestSearchProducts(t *testing.T) {
	c, _ := newComposer(t)

	names := func(term string) []string {
		var out []string
		for p := range c.SearchProducts(term) {
			out = append(out, p.Nombre)
		}
		return out
	}

	assert.Equal(t, []string{"Anillo"}, names("ANI"), "sin stock no se sugiere")
	assert.Equal(t, []string{"Anillo", "Pulsera"}, names("1"), "coincidencia por ID")
	assert.Equal(t, []string{"Collar de perlas", "Aros de plata"}, names("de"))
	assert.Empty(t, names(""))
	assert.Empty(t, names("   "))
}

func TestSearchProducts_TopeYReinicio(t *testing.T) {
	snap := &catalog.Snapshot{}
	for i := 1; i <= 25; i++ {
		snap.Products = append(snap.Products, entity.Product{ID: i, Nombre: fmt.Sprintf("Cadena %d", i), Precio: decimal.NewFromInt(10), CantidadDisponible: 1})
	}
	c := sale.NewComposer(snap, &fakeGateway{}, staticToken("x"))

	seq := c.SearchProducts("cadena")
	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Len(t, first, sale.MaxSuggestions)
	assert.Equal(t, first, second, "la secuencia se puede recorrer de nuevo")

	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
	assert.Len(t, sale.Suggestions(seq), sale.MaxSuggestions)
}

func TestFindProduct(t *testing.T) {
	c, _ := newComposer(t)

	p, ok := c.FindProduct("  anillo ")
	require.True(t, ok)
	assert.Equal(t, 1, p.ID)

	p, ok = c.FindProduct("12")
	require.True(t, ok)
	assert.Equal(t, "Pulsera", p.Nombre)

	_, ok = c.FindProduct("anil")
	assert.False(t, ok, "solo coincidencia exacta")
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_EscenarioC_SinCliente(t *testing.T) {
	c, gw := newComposer(t)
	require.NoError(t, c.AddLine(1, 1))

	_, err := c.Submit(context.Background())

	require.ErrorIs(t, err, domain.ErrNoClientSelected)
	assert.Zero(t, gw.calls())
	assert.Len(t, c.Draft().Lines, 1)
}

func TestSubmit_BorradorVacio(t *testing.T) {
	c, gw := newComposer(t)
	require.NoError(t, c.SelectClient(9))

	_, err := c.Submit(context.Background())

	require.ErrorIs(t, err, domain.ErrEmptyDraft)
	assert.Zero(t, gw.calls())
}

func TestSubmit_SinToken_NoLlamaAlBackend(t *testing.T) {
	gw := &fakeGateway{}
	c := sale.NewComposer(testSnapshot(), gw, staticToken(""))
	require.NoError(t, c.SelectClient(9))
	require.NoError(t, c.AddLine(1, 1))

	_, err := c.Submit(context.Background())

	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Zero(t, gw.calls())
	assert.Len(t, c.Draft().Lines, 1)
}

func TestSelectClient_Inexistente(t *testing.T) {
	c, _ := newComposer(t)
	assert.ErrorIs(t, c.SelectClient(1234), domain.ErrNotFound)
	assert.Nil(t, c.Draft().SelectedClientID)
}

func TestSubmit_Aceptada_ResetIgualAlInicial(t *testing.T) {
	c, gw := newComposer(t)
	fresh, _ := newComposer(t)
	require.NoError(t, c.SelectClient(9))
	require.NoError(t, c.AddLine(1, 2))
	require.NoError(t, c.AddLine(2, 1))

	created, err := c.Submit(context.Background())

	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, 1, gw.calls())
	req := gw.requests[0]
	assert.Equal(t, 9, req.ClienteID)
	require.Len(t, req.Detalles, 2)
	assert.Equal(t, 1, req.Detalles[0].ProductoID)
	assert.Equal(t, 2, req.Detalles[0].Cantidad)
	assert.True(t, req.Detalles[0].PrecioUnitario.Equal(decimal.NewFromInt(100)))
	assert.True(t, req.Detalles[0].Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, req.Detalles[1].PrecioUnitario.Equal(decimal.RequireFromString("259.90")))
	assert.True(t, req.Total.Equal(decimal.RequireFromString("459.90")))

	assert.Equal(t, fresh.Draft(), c.Draft())
	assert.True(t, c.Draft().Empty())
}

func TestSubmit_RechazoDeValidacion_ConservaBorrador(t *testing.T) {
	c, gw := newComposer(t)
	gw.err = &domain.ValidationError{Fields: map[string][]string{"cliente_id": {"Cliente inválido."}}}
	require.NoError(t, c.SelectClient(9))
	require.NoError(t, c.AddLine(2, 2))
	before := c.Draft()

	_, err := c.Submit(context.Background())

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Cliente inválido."}, verr.Fields["cliente_id"])
	assert.Equal(t, before, c.Draft())
}

// Limitación aceptada: el stock solo se valida contra el snapshot. Si otro puesto vendió
// el mismo producto, el borrador pasa la validación local y el backend rechaza el envío.
func TestSubmit_StockDesactualizado_ElBackendRechaza(t *testing.T) {
	c, gw := newComposer(t)
	require.NoError(t, c.SelectClient(9))
	require.NoError(t, c.AddLine(1, 3), "el snapshot aún dice 3 disponibles")
	gw.err = &domain.ValidationError{Fields: map[string][]string{
		"detalles": {`{"cantidad":["No hay suficiente stock para Anillo. Disponible: 1"]}`},
	}}

	_, err := c.Submit(context.Background())

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, c.Draft().Lines, 1, "el operador puede corregir y reenviar")
	assert.Equal(t, 3, c.Draft().Lines[0].Quantity)
}

func TestSubmit_ErrorDeRed_ConservaBorrador(t *testing.T) {
	c, gw := newComposer(t)
	gw.err = fmt.Errorf("%w: timeout", domain.ErrNetwork)
	require.NoError(t, c.SelectClient(9))
	require.NoError(t, c.AddLine(1, 1))

	_, err := c.Submit(context.Background())

	require.ErrorIs(t, err, domain.ErrNetwork)
	assert.Len(t, c.Draft().Lines, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío en curso
// ──────────────────────────────────────────────────────────────────────────────

// blockingGateway retiene CreateSale hasta que se cierra release.
type blockingGateway struct {
	fakeGateway
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingGateway() *blockingGateway {
	return &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *blockingGateway) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*entity.Sale, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.fakeGateway.CreateSale(ctx, in)
}

// startSubmit deja un Submit bloqueado dentro del gateway y devuelve un canal con su resultado.
func startSubmit(t *testing.T, c *sale.Composer, gw *blockingGateway) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	<-gw.entered
	return done
}

func TestSubmit_DobleEnvio_RegistraUnaSolaVenta(t *testing.T) {
	gw := newBlockingGateway()
	c := sale.NewComposer(testSnapshot(), gw, staticToken("access"))
	require.NoError(t, c.SelectClient(9))
	require.NoError(t, c.AddLine(1, 1))

	done := startSubmit(t, c, gw)

	_, err := c.Submit(context.Background())
	require.ErrorIs(t, err, domain.ErrSubmitInProgress)

	close(gw.release)
	require.NoError(t, <-done)

	assert.Equal(t, 1, gw.calls())
	assert.True(t, c.Draft().Empty())
}

func TestSubmit_EnCurso_RechazaCambiosDelBorrador(t *testing.T) {
	gw := newBlockingGateway()
	c := sale.NewComposer(testSnapshot(), gw, staticToken("access"))
	require.NoError(t, c.SelectClient(9))
	require.NoError(t, c.AddLine(1, 1))
	before := c.Draft()

	done := startSubmit(t, c, gw)

	assert.ErrorIs(t, c.AddLine(2, 1), domain.ErrSubmitInProgress)
	assert.ErrorIs(t, c.AdjustLineQuantity(1, 1), domain.ErrSubmitInProgress)
	assert.ErrorIs(t, c.RemoveLine(1), domain.ErrSubmitInProgress)
	assert.ErrorIs(t, c.SelectClient(9), domain.ErrSubmitInProgress)
	requireSameDraft(t, before, c.Draft())

	close(gw.release)
	require.NoError(t, <-done)

	require.Len(t, gw.requests, 1)
	require.Len(t, gw.requests[0].Detalles, 1, "se envió solo lo que había al iniciar")
	assert.True(t, c.Draft().Empty())

	require.NoError(t, c.AddLine(2, 1), "terminado el envío se puede armar otra venta")
	assert.Len(t, c.Draft().Lines, 1)
}

func TestSubmit_EnCursoFallido_DesbloqueaElBorrador(t *testing.T) {
	gw := newBlockingGateway()
	gw.err = fmt.Errorf("%w: timeout", domain.ErrNetwork)
	c := sale.NewComposer(testSnapshot(), gw, staticToken("access"))
	require.NoError(t, c.SelectClient(9))
	require.NoError(t, c.AddLine(1, 1))

	done := startSubmit(t, c, gw)
	close(gw.release)
	require.ErrorIs(t, <-done, domain.ErrNetwork)

	require.NoError(t, c.AddLine(2, 1))
	assert.Len(t, c.Draft().Lines, 2)
}
