package dto

import "github.com/shopspring/decimal"

type CrearOrdenRequest struct {
	ClienteID   string  `json:"cliente_id"  validate:"required,uuid"`
	ProductoID  string  `json:"producto_id" validate:"required,uuid"`
	Ubicacion   string  `json:"ubicacion"   validate:"required"`
	Descripcion *string `json:"descripcion"`
}

type ActualizarOrdenRequest struct {
	ClienteID   string  `json:"cliente_id"  validate:"omitempty,uuid"`
	ProductoID  string  `json:"producto_id" validate:"omitempty,uuid"`
	Ubicacion   string  `json:"ubicacion"`
	Descripcion *string `json:"descripcion"`
}

type CambiarEstadoOrdenRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente completada cancelada"`
}

// OrdenFilter is bound from the query string of GET /v1/ordenes.
type OrdenFilter struct {
	Estado    string `form:"estado"` // pendiente | completada | cancelada | all
	ClienteID string `form:"cliente_id"`
	Buscar    string `form:"buscar"` // matches codigo and ubicacion
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrdenResponse struct {
	ID          string  `json:"id"`
	Codigo      string  `json:"codigo"`
	Cliente     string  `json:"cliente"`
	ClienteID   string  `json:"cliente_id"`
	Producto    string  `json:"producto"`
	ProductoID  string  `json:"producto_id"`
	Solicitante string  `json:"solicitante"`
	Ubicacion   string  `json:"ubicacion"`
	Descripcion *string `json:"descripcion,omitempty"`
	Estado      string  `json:"estado"`
	CreatedAt   string  `json:"created_at"`
}

type OrdenListResponse struct {
	Data  []OrdenResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// MaterialTotalResponse is one aggregated material line of the order totals.
type MaterialTotalResponse struct {
	Material string          `json:"material"`
	Etiqueta string          `json:"etiqueta"`
	Unidad   string          `json:"unidad"`
	Total    decimal.Decimal `json:"total"`
}

// TotalesResponse is recomputed on every read — underlying tramos can be
// edited or cancelled at any time, so it is never cached.
type TotalesResponse struct {
	OrdenID    string                  `json:"orden_id"`
	Codigo     string                  `json:"codigo"`
	Materiales []MaterialTotalResponse `json:"materiales"`
	LargoTotal decimal.Decimal         `json:"largo_total"`
}

// ResumenResponse feeds the dashboard: order counts per estado plus the
// aggregate active length across all non-cancelled orders.
type ResumenResponse struct {
	OrdenesPendientes  int64           `json:"ordenes_pendientes"`
	OrdenesCompletadas int64           `json:"ordenes_completadas"`
	OrdenesCanceladas  int64           `json:"ordenes_canceladas"`
	TramosActivos      int64           `json:"tramos_activos"`
	LargoTotalActivo   decimal.Decimal `json:"largo_total_activo"`
}
