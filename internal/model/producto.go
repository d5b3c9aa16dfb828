package model

import (
	"time"

	"github.com/google/uuid"
)

// Producto is a catalog entry. TablaUnidades selects which unit-lookup table
// governs its material coefficients; nil means the product cannot be calculated
// (orders for it reject tramo registration with a configuration error).
type Producto struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string    `gorm:"index;not null"`
	Descripcion   *string
	TablaUnidades *string `gorm:"type:varchar(50)"`
	Activo        bool    `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
