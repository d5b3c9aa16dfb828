package calc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// decimales is the rounding precision for every computed material value.
const decimales = 3

// Fila is one unit-table row: the coefficients that apply at one exact height.
type Fila struct {
	Tabla        string
	Altura       decimal.Decimal
	Coeficientes map[string]decimal.Decimal
}

// ItemCalculado is one computed material quantity ready to persist as a tramo item.
type ItemCalculado struct {
	Material string          `json:"material"`
	Etiqueta string          `json:"etiqueta"`
	Unidad   string          `json:"unidad"`
	Valor    decimal.Decimal `json:"valor"`
}

// CalcularItems computes the material quantities for largo linear meters at the
// row's height. For each material declared in the table's schema:
//
//	valor = round(coeficiente × largo ÷ divisor, 3)
//
// where divisor defaults to 1. Materials whose value rounds to zero or below are
// discarded. Recomputation with identical inputs is byte-identical — the tramo
// workflow relies on that to re-validate client-submitted calculations.
func CalcularItems(fila Fila, largo decimal.Decimal) ([]ItemCalculado, error) {
	if !largo.IsPositive() {
		return nil, NewError(KindValidacion, "el largo debe ser mayor a cero")
	}
	cols, ok := EsquemaDe(fila.Tabla)
	if !ok {
		return nil, NewError(KindConfiguracion, fmt.Sprintf("tabla de unidades desconocida: %q", fila.Tabla))
	}

	items := make([]ItemCalculado, 0, len(cols))
	for _, material := range cols {
		coef, ok := fila.Coeficientes[material]
		if !ok {
			continue
		}
		valor := coef.Mul(largo)
		if div, ok := divisores[material]; ok {
			valor = valor.Div(div)
		}
		valor = valor.Round(decimales)
		if valor.Cmp(decimal.Zero) <= 0 {
			continue
		}
		items = append(items, ItemCalculado{
			Material: material,
			Etiqueta: Etiqueta(material),
			Unidad:   Unidad(material),
			Valor:    valor,
		})
	}

	if len(items) == 0 {
		return nil, NewError(KindResultadoVacio, "el cálculo no produjo materiales con cantidad positiva")
	}
	return items, nil
}
