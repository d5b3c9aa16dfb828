package service_test

import (
	"context"
	"errors"

	"obraflow/internal/dto"
	"obraflow/internal/model"
	"obraflow/internal/repository"
	"obraflow/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubOrdenRepo is an in-memory OrdenRepository for testing.
type stubOrdenRepo struct {
	ordenes map[uuid.UUID]*model.Orden
	seq     int
}

func newStubOrdenRepo() *stubOrdenRepo {
	return &stubOrdenRepo{ordenes: make(map[uuid.UUID]*model.Orden)}
}

func (r *stubOrdenRepo) Create(_ context.Context, o *model.Orden) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.ordenes[o.ID] = o
	return nil
}

func (r *stubOrdenRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Orden, error) {
	o, ok := r.ordenes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrdenRepo) List(_ context.Context, _ dto.OrdenFilter) ([]model.Orden, int64, error) {
	out := make([]model.Orden, 0, len(r.ordenes))
	for _, o := range r.ordenes {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrdenRepo) Update(_ context.Context, o *model.Orden) error {
	if _, ok := r.ordenes[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.ordenes[o.ID] = o
	return nil
}

func (r *stubOrdenRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado model.EstadoOrden) error {
	o, ok := r.ordenes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Estado = estado
	return nil
}

func (r *stubOrdenRepo) NextNumero(_ context.Context) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubOrdenRepo) CountByEstado(_ context.Context, estado model.EstadoOrden) (int64, error) {
	var n int64
	for _, o := range r.ordenes {
		if o.Estado == estado {
			n++
		}
	}
	return n, nil
}

var _ repository.OrdenRepository = (*stubOrdenRepo)(nil)

// stubClienteRepo holds clientes by ID.
type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	return nil, 0, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Activo = false
	}
	return nil
}

func (r *stubClienteRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Activo = true
	}
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// stubProductoRepo holds productos by ID.
type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	return nil, 0, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubUnidadRepo matches filas the way the database does: exact tabla plus
// numerically equal altura.
type stubUnidadRepo struct {
	filas []model.FilaUnidad
}

func newStubUnidadRepo() *stubUnidadRepo { return &stubUnidadRepo{} }

func (r *stubUnidadRepo) agregar(f model.FilaUnidad) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.filas = append(r.filas, f)
}

func (r *stubUnidadRepo) FindFila(_ context.Context, tabla string, altura decimal.Decimal) (*model.FilaUnidad, error) {
	for i := range r.filas {
		if r.filas[i].Tabla == tabla && r.filas[i].Altura.Equal(altura) {
			return &r.filas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUnidadRepo) ListAlturas(_ context.Context, tabla string) ([]decimal.Decimal, error) {
	var alturas []decimal.Decimal
	for i := range r.filas {
		if r.filas[i].Tabla == tabla {
			alturas = append(alturas, r.filas[i].Altura)
		}
	}
	return alturas, nil
}

func (r *stubUnidadRepo) ValidarEsquemas(_ context.Context) error { return nil }

func (r *stubUnidadRepo) SeedFilas(_ context.Context, filas []model.FilaUnidad) error {
	for _, f := range filas {
		r.agregar(f)
	}
	return nil
}

var _ repository.UnidadRepository = (*stubUnidadRepo)(nil)

// stubTramoRepo is an in-memory TramoRepository. DB() returns nil so services
// run their transactional sections in direct mode.
type stubTramoRepo struct {
	tramos map[uuid.UUID]*model.Tramo
	items  map[uuid.UUID][]model.TramoItem

	failCreateItems bool
}

func newStubTramoRepo() *stubTramoRepo {
	return &stubTramoRepo{
		tramos: make(map[uuid.UUID]*model.Tramo),
		items:  make(map[uuid.UUID][]model.TramoItem),
	}
}

func (r *stubTramoRepo) DB() *gorm.DB { return nil }

func (r *stubTramoRepo) CreateTx(_ context.Context, _ *gorm.DB, t *model.Tramo) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	stored := *t
	r.tramos[t.ID] = &stored
	return nil
}

func (r *stubTramoRepo) CreateItemsTx(_ context.Context, _ *gorm.DB, items []model.TramoItem) error {
	if r.failCreateItems {
		return errors.New("insert items failed")
	}
	for _, it := range items {
		r.items[it.TramoID] = append(r.items[it.TramoID], it)
	}
	return nil
}

func (r *stubTramoRepo) UpdateTx(_ context.Context, _ *gorm.DB, t *model.Tramo) error {
	stored, ok := r.tramos[t.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Altura = t.Altura
	stored.Largo = t.Largo
	stored.Descripcion = t.Descripcion
	return nil
}

func (r *stubTramoRepo) DeleteItemsTx(_ context.Context, _ *gorm.DB, tramoID uuid.UUID) error {
	delete(r.items, tramoID)
	return nil
}

func (r *stubTramoRepo) DeleteHeader(_ context.Context, id uuid.UUID) error {
	delete(r.tramos, id)
	return nil
}

func (r *stubTramoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tramo, error) {
	t, ok := r.tramos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *t
	copia.Items = r.items[id]
	return &copia, nil
}

func (r *stubTramoRepo) ListByOrden(_ context.Context, ordenID uuid.UUID, estados []model.EstadoTramo) ([]model.Tramo, error) {
	var out []model.Tramo
	for id, t := range r.tramos {
		if t.OrdenID != ordenID {
			continue
		}
		if len(estados) > 0 && !contieneEstado(estados, t.Estado) {
			continue
		}
		copia := *t
		copia.Items = r.items[id]
		out = append(out, copia)
	}
	return out, nil
}

func (r *stubTramoRepo) ListItemsByTramoIDs(_ context.Context, tramoIDs []uuid.UUID) ([]model.TramoItem, error) {
	var out []model.TramoItem
	for _, id := range tramoIDs {
		out = append(out, r.items[id]...)
	}
	return out, nil
}

func (r *stubTramoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado model.EstadoTramo) error {
	t, ok := r.tramos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Estado = estado
	return nil
}

func (r *stubTramoRepo) CountByEstados(_ context.Context, estados []model.EstadoTramo) (int64, error) {
	var n int64
	for _, t := range r.tramos {
		if contieneEstado(estados, t.Estado) {
			n++
		}
	}
	return n, nil
}

func (r *stubTramoRepo) SumLargoByEstados(_ context.Context, estados []model.EstadoTramo) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range r.tramos {
		if contieneEstado(estados, t.Estado) {
			total = total.Add(t.Largo)
		}
	}
	return total, nil
}

var _ repository.TramoRepository = (*stubTramoRepo)(nil)

func contieneEstado(estados []model.EstadoTramo, e model.EstadoTramo) bool {
	for _, s := range estados {
		if s == e {
			return true
		}
	}
	return false
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	ordenRepo    *stubOrdenRepo
	clienteRepo  *stubClienteRepo
	productoRepo *stubProductoRepo
	unidadRepo   *stubUnidadRepo
	tramoRepo    *stubTramoRepo

	calculo service.CalculoService
	tramos  service.TramoService
	ordenes service.OrdenService
}

func newFixture() *fixture {
	f := &fixture{
		ordenRepo:    newStubOrdenRepo(),
		clienteRepo:  newStubClienteRepo(),
		productoRepo: newStubProductoRepo(),
		unidadRepo:   newStubUnidadRepo(),
		tramoRepo:    newStubTramoRepo(),
	}
	f.calculo = service.NewCalculoService(f.ordenRepo, f.productoRepo, f.unidadRepo)
	f.tramos = service.NewTramoService(f.tramoRepo, f.ordenRepo, f.calculo)
	f.ordenes = service.NewOrdenService(f.ordenRepo, f.clienteRepo, f.productoRepo, f.tramoRepo)
	return f
}

// seedOrdenGavion creates an active orden whose producto points at the
// muro gavión table, plus the altura-2 unit row.
func (f *fixture) seedOrdenGavion() *model.Orden {
	tabla := "unidades_muro_gavion"
	cliente := &model.Cliente{Nombre: "Constructora Sur", Activo: true}
	_ = f.clienteRepo.Create(context.Background(), cliente)
	producto := &model.Producto{Nombre: "Muro gavión", TablaUnidades: &tabla, Activo: true}
	_ = f.productoRepo.Create(context.Background(), producto)

	orden := &model.Orden{
		Numero:        1,
		Codigo:        "ORD-00001",
		ClienteID:     cliente.ID,
		ProductoID:    producto.ID,
		SolicitanteID: uuid.New(),
		Ubicacion:     "Ruta 40 km 12",
		Estado:        model.OrdenPendiente,
		Cliente:       cliente,
		Producto:      producto,
	}
	_ = f.ordenRepo.Create(context.Background(), orden)

	f.unidadRepo.agregar(model.FilaUnidad{
		Tabla:  tabla,
		Altura: dec("2"),
		Coeficientes: []model.CoeficienteUnidad{
			{Material: "seccion de muro", Coeficiente: dec("1.2")},
			{Material: "canasto 2x1x1", Coeficiente: dec("2.0")},
			{Material: "geotextil planar", Coeficiente: dec("2.0")},
			{Material: "alambre de amarre", Coeficiente: dec("3.2")},
			{Material: "piedra", Coeficiente: dec("3.15")},
			{Material: "tuberia", Coeficiente: dec("6.0")},
		},
	})
	return orden
}
