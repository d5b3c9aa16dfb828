package model

import (
	"time"

	"github.com/google/uuid"
)

// Adjunto is a file attached to an order (site photos, signed quotes).
// Ruta is relative to the configured attachment storage directory.
type Adjunto struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenID       uuid.UUID `gorm:"type:uuid;index;not null"`
	NombreArchivo string    `gorm:"not null"`
	Ruta          string    `gorm:"not null"`
	TipoMime      string    `gorm:"type:varchar(100)"`
	Tamano        int64     `gorm:"not null"`
	SubidoPorID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
}
