package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FilaUnidad is one row of a unit-lookup table: the material coefficients that
// apply at one discrete height. Heights are enumerated options, matched exactly
// — no interpolation between rows.
type FilaUnidad struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tabla  string          `gorm:"type:varchar(50);index:idx_fila_tabla_altura,unique;not null"`
	Altura decimal.Decimal `gorm:"type:decimal(6,2);index:idx_fila_tabla_altura,unique;not null"`

	Coeficientes []CoeficienteUnidad `gorm:"foreignKey:FilaUnidadID"`
}

// CoeficienteUnidad is one material coefficient of a unit row: quantity of the
// material per linear meter at the row's height.
type CoeficienteUnidad struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FilaUnidadID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Material     string          `gorm:"type:varchar(60);not null"`
	Coeficiente  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
}
