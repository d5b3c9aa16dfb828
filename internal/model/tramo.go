package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoTramo is the lifecycle state of an order segment. "eliminado" is a
// soft-cancel: the row and its items remain for history but are excluded from
// active aggregation.
type EstadoTramo string

const (
	TramoPendiente  EstadoTramo = "pendiente"
	TramoCompletado EstadoTramo = "completado"
	TramoEliminado  EstadoTramo = "eliminado"
)

// EstadosTramoActivos is the state set that counts toward order totals.
var EstadosTramoActivos = []EstadoTramo{TramoPendiente, TramoCompletado}

// Tramo is one segment of an order: a wall stretch with its own height and
// linear length. Its material quantities are always recomputed server-side.
type Tramo struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Codigo is cosmetic (order code + timestamp); the real key is ID.
	Codigo      string          `gorm:"not null"`
	Altura      decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	Largo       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Descripcion *string
	Estado      EstadoTramo `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []TramoItem `gorm:"foreignKey:TramoID"`
}

// TramoItem is one computed material line item.
// Invariant: Valor = round(coeficiente(altura, material) × largo ÷ divisor, 3),
// and only positive values are stored.
type TramoItem struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TramoID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Material string          `gorm:"type:varchar(60);not null"`
	Etiqueta string          `gorm:"not null"`
	Unidad   string          `gorm:"type:varchar(10);not null"`
	Valor    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
}
