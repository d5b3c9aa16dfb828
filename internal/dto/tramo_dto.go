package dto

import "github.com/shopspring/decimal"

// CrearTramoRequest registers a new segment. The item list is never accepted
// from the client — it is always recomputed server-side from altura and largo.
type CrearTramoRequest struct {
	OrdenID     string          `json:"orden_id" validate:"required,uuid"`
	Altura      decimal.Decimal `json:"altura"   validate:"required"`
	Largo       decimal.Decimal `json:"largo"    validate:"required"`
	Descripcion *string         `json:"descripcion"`
}

type ActualizarTramoRequest struct {
	Altura      decimal.Decimal `json:"altura" validate:"required"`
	Largo       decimal.Decimal `json:"largo"  validate:"required"`
	Descripcion *string         `json:"descripcion"`
}

// CalcularRequest previews a calculation without persisting anything.
type CalcularRequest struct {
	OrdenID string          `json:"orden_id" validate:"required,uuid"`
	Altura  decimal.Decimal `json:"altura"   validate:"required"`
	Largo   decimal.Decimal `json:"largo"    validate:"required"`
}

type TramoItemResponse struct {
	Material string          `json:"material"`
	Etiqueta string          `json:"etiqueta"`
	Unidad   string          `json:"unidad"`
	Valor    decimal.Decimal `json:"valor"`
}

type TramoResponse struct {
	ID          string              `json:"id"`
	OrdenID     string              `json:"orden_id"`
	Codigo      string              `json:"codigo"`
	Altura      decimal.Decimal     `json:"altura"`
	Largo       decimal.Decimal     `json:"largo"`
	Descripcion *string             `json:"descripcion,omitempty"`
	Estado      string              `json:"estado"`
	Items       []TramoItemResponse `json:"items"`
	CreatedAt   string              `json:"created_at"`
}

type CalculoResponse struct {
	Items []TramoItemResponse `json:"items"`
}

// AlturasResponse lists the discrete heights a unit table offers — the UI only
// presents heights that exist, which is what makes exact matching correct.
type AlturasResponse struct {
	Tabla   string            `json:"tabla"`
	Alturas []decimal.Decimal `json:"alturas"`
}
