package model

import (
	"time"

	"github.com/google/uuid"
)

// EstadoOrden is the lifecycle state of an order.
type EstadoOrden string

const (
	OrdenPendiente  EstadoOrden = "pendiente"
	OrdenCompletada EstadoOrden = "completada"
	OrdenCancelada  EstadoOrden = "cancelada"
)

// EsEstadoOrdenValido reports whether e is a known order state.
func EsEstadoOrdenValido(e EstadoOrden) bool {
	switch e {
	case OrdenPendiente, OrdenCompletada, OrdenCancelada:
		return true
	}
	return false
}

// Orden is a customer order for one product at one site. It owns zero or more
// Tramos, whose line items are re-aggregated on demand for receipts.
type Orden struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero int       `gorm:"uniqueIndex;not null"`
	// Codigo is the human-readable order code shown on receipts (ORD-00042).
	Codigo        string    `gorm:"uniqueIndex;not null"`
	ClienteID     uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID    uuid.UUID `gorm:"type:uuid;index;not null"`
	SolicitanteID uuid.UUID `gorm:"type:uuid;index;not null"`
	Ubicacion     string    `gorm:"not null"`
	Descripcion   *string
	Estado        EstadoOrden `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Cliente     *Cliente  `gorm:"foreignKey:ClienteID"`
	Producto    *Producto `gorm:"foreignKey:ProductoID"`
	Solicitante *Usuario  `gorm:"foreignKey:SolicitanteID"`
	Tramos      []Tramo   `gorm:"foreignKey:OrdenID"`
	Adjuntos    []Adjunto `gorm:"foreignKey:OrdenID"`
}
