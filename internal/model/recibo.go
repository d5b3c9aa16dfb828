package model

import (
	"time"

	"github.com/google/uuid"
)

// Receipt lifecycle states.
const (
	ReciboPendiente = "pendiente"
	ReciboEmitido   = "emitido"
	ReciboError     = "error"
)

// Recibo stores a generated order receipt.
// Estado: "pendiente" | "emitido" | "error"
type Recibo struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenID uuid.UUID `gorm:"type:uuid;index;not null"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath      *string `gorm:"column:pdf_path"`
	EmailDestino *string
	Estado       string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// Retry fields — used by retry_cron to re-attempt failed generation
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
