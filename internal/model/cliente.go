package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer of the construction-materials business.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Documento *string   `gorm:"type:varchar(30);uniqueIndex"`
	Telefono  *string
	Email     *string
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
