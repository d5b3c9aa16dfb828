package service

import (
	"context"
	"fmt"

	"obraflow/internal/calc"
	"obraflow/internal/dto"
	"obraflow/internal/model"
	"obraflow/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrdenService interface {
	Crear(ctx context.Context, solicitanteID uuid.UUID, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.OrdenResponse, error)
	Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.OrdenListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOrdenRequest) (*dto.OrdenResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, estado model.EstadoOrden) error
	// ObtenerTotales re-aggregates on every call — never cached, because the
	// underlying tramos can be edited or cancelled at any time.
	ObtenerTotales(ctx context.Context, ordenID uuid.UUID) (*dto.TotalesResponse, error)
	Resumen(ctx context.Context) (*dto.ResumenResponse, error)
}

type ordenService struct {
	repo         repository.OrdenRepository
	clienteRepo  repository.ClienteRepository
	productoRepo repository.ProductoRepository
	tramoRepo    repository.TramoRepository
}

func NewOrdenService(
	repo repository.OrdenRepository,
	clienteRepo repository.ClienteRepository,
	productoRepo repository.ProductoRepository,
	tramoRepo repository.TramoRepository,
) OrdenService {
	return &ordenService{repo: repo, clienteRepo: clienteRepo, productoRepo: productoRepo, tramoRepo: tramoRepo}
}

func (s *ordenService) Crear(ctx context.Context, solicitanteID uuid.UUID, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, calc.WrapError(calc.KindValidacion, "cliente_id inválido", err)
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, calc.WrapError(calc.KindValidacion, "producto_id inválido", err)
	}

	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "cliente no encontrado", err)
	}
	if !cliente.Activo {
		return nil, calc.NewError(calc.KindValidacion, fmt.Sprintf("el cliente %s está inactivo", cliente.Nombre))
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "producto no encontrado", err)
	}
	if !producto.Activo {
		return nil, calc.NewError(calc.KindValidacion, fmt.Sprintf("el producto %s está inactivo", producto.Nombre))
	}
	if producto.TablaUnidades != nil && *producto.TablaUnidades != "" && !calc.TablaConocida(*producto.TablaUnidades) {
		return nil, calc.NewError(calc.KindConfiguracion,
			fmt.Sprintf("el producto referencia una tabla de unidades desconocida: %q", *producto.TablaUnidades))
	}

	numero, err := s.repo.NextNumero(ctx)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error generando número de orden", err)
	}

	orden := model.Orden{
		Numero:        numero,
		Codigo:        fmt.Sprintf("ORD-%05d", numero),
		ClienteID:     clienteID,
		ProductoID:    productoID,
		SolicitanteID: solicitanteID,
		Ubicacion:     req.Ubicacion,
		Descripcion:   req.Descripcion,
		Estado:        model.OrdenPendiente,
	}
	if err := s.repo.Create(ctx, &orden); err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error creando orden", err)
	}

	orden.Cliente = cliente
	orden.Producto = producto
	return ordenToResponse(&orden), nil
}

func (s *ordenService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "orden no encontrada", err)
	}
	return ordenToResponse(orden), nil
}

func (s *ordenService) Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.OrdenListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ordenes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error listando órdenes", err)
	}
	items := make([]dto.OrdenResponse, 0, len(ordenes))
	for i := range ordenes {
		items = append(items, *ordenToResponse(&ordenes[i]))
	}
	return &dto.OrdenListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *ordenService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOrdenRequest) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "orden no encontrada", err)
	}
	if orden.Estado == model.OrdenCancelada {
		return nil, calc.NewError(calc.KindValidacion, "no se puede editar una orden cancelada")
	}

	if req.ClienteID != "" {
		clienteID, err := uuid.Parse(req.ClienteID)
		if err != nil {
			return nil, calc.WrapError(calc.KindValidacion, "cliente_id inválido", err)
		}
		if _, err := s.clienteRepo.FindByID(ctx, clienteID); err != nil {
			return nil, calc.WrapError(calc.KindNoEncontrado, "cliente no encontrado", err)
		}
		orden.ClienteID = clienteID
		orden.Cliente = nil
	}
	if req.ProductoID != "" {
		productoID, err := uuid.Parse(req.ProductoID)
		if err != nil {
			return nil, calc.WrapError(calc.KindValidacion, "producto_id inválido", err)
		}
		if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
			return nil, calc.WrapError(calc.KindNoEncontrado, "producto no encontrado", err)
		}
		orden.ProductoID = productoID
		orden.Producto = nil
	}
	if req.Ubicacion != "" {
		orden.Ubicacion = req.Ubicacion
	}
	if req.Descripcion != nil {
		orden.Descripcion = req.Descripcion
	}

	if err := s.repo.Update(ctx, orden); err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error actualizando orden", err)
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *ordenService) CambiarEstado(ctx context.Context, id uuid.UUID, estado model.EstadoOrden) error {
	if !model.EsEstadoOrdenValido(estado) {
		return calc.NewError(calc.KindValidacion, fmt.Sprintf("estado de orden inválido: %q", estado))
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return calc.WrapError(calc.KindNoEncontrado, "orden no encontrada", err)
	}
	if err := s.repo.UpdateEstado(ctx, id, estado); err != nil {
		return calc.WrapError(calc.KindPersistencia, "error cambiando estado de la orden", err)
	}
	return nil
}

// ── ObtenerTotales ────────────────────────────────────────────────────────────

func (s *ordenService) ObtenerTotales(ctx context.Context, ordenID uuid.UUID) (*dto.TotalesResponse, error) {
	orden, err := s.repo.FindByID(ctx, ordenID)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "orden no encontrada", err)
	}

	tramos, err := s.tramoRepo.ListByOrden(ctx, ordenID, model.EstadosTramoActivos)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error listando tramos", err)
	}

	totales := TotalesDeTramos(tramos)
	return &dto.TotalesResponse{
		OrdenID:    orden.ID.String(),
		Codigo:     orden.Codigo,
		Materiales: materialesToResponse(totales.Materiales),
		LargoTotal: totales.LargoTotal,
	}, nil
}

// TotalesDeTramos folds already-filtered (active) tramos into order totals.
func TotalesDeTramos(tramos []model.Tramo) calc.Totales {
	var items []calc.ItemPersistido
	largos := make([]decimal.Decimal, 0, len(tramos))
	for i := range tramos {
		largos = append(largos, tramos[i].Largo)
		for _, it := range tramos[i].Items {
			items = append(items, calc.ItemPersistido{
				Material: it.Material,
				Etiqueta: it.Etiqueta,
				Unidad:   it.Unidad,
				Valor:    it.Valor,
			})
		}
	}
	return calc.AgregarTotales(items, largos)
}

func (s *ordenService) Resumen(ctx context.Context) (*dto.ResumenResponse, error) {
	pendientes, err := s.repo.CountByEstado(ctx, model.OrdenPendiente)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error consultando resumen", err)
	}
	completadas, err := s.repo.CountByEstado(ctx, model.OrdenCompletada)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error consultando resumen", err)
	}
	canceladas, err := s.repo.CountByEstado(ctx, model.OrdenCancelada)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error consultando resumen", err)
	}
	tramosActivos, err := s.tramoRepo.CountByEstados(ctx, model.EstadosTramoActivos)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error consultando resumen", err)
	}
	largoActivo, err := s.tramoRepo.SumLargoByEstados(ctx, model.EstadosTramoActivos)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error consultando resumen", err)
	}

	return &dto.ResumenResponse{
		OrdenesPendientes:  pendientes,
		OrdenesCompletadas: completadas,
		OrdenesCanceladas:  canceladas,
		TramosActivos:      tramosActivos,
		LargoTotalActivo:   largoActivo,
	}, nil
}

func materialesToResponse(materiales []calc.MaterialTotal) []dto.MaterialTotalResponse {
	out := make([]dto.MaterialTotalResponse, 0, len(materiales))
	for _, m := range materiales {
		out = append(out, dto.MaterialTotalResponse{
			Material: m.Material,
			Etiqueta: m.Etiqueta,
			Unidad:   m.Unidad,
			Total:    m.Total,
		})
	}
	return out
}

func ordenToResponse(o *model.Orden) *dto.OrdenResponse {
	clienteNombre := ""
	if o.Cliente != nil {
		clienteNombre = o.Cliente.Nombre
	}
	productoNombre := ""
	if o.Producto != nil {
		productoNombre = o.Producto.Nombre
	}
	solicitanteNombre := ""
	if o.Solicitante != nil {
		solicitanteNombre = o.Solicitante.Nombre
	}
	return &dto.OrdenResponse{
		ID:          o.ID.String(),
		Codigo:      o.Codigo,
		Cliente:     clienteNombre,
		ClienteID:   o.ClienteID.String(),
		Producto:    productoNombre,
		ProductoID:  o.ProductoID.String(),
		Solicitante: solicitanteNombre,
		Ubicacion:   o.Ubicacion,
		Descripcion: o.Descripcion,
		Estado:      string(o.Estado),
		CreatedAt:   o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
