package calc

// totales.go — order-level aggregation over persisted tramo items. Kept pure so
// both the HTTP layer and the receipt worker fold the same way.

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ItemPersistido is the projection of a stored tramo item that aggregation needs.
type ItemPersistido struct {
	Material string
	Etiqueta string
	Unidad   string
	Valor    decimal.Decimal
}

// MaterialTotal is one aggregated material line in the order totals.
type MaterialTotal struct {
	Material string          `json:"material"`
	Etiqueta string          `json:"etiqueta"`
	Unidad   string          `json:"unidad"`
	Total    decimal.Decimal `json:"total"`
}

// Totales is the derived, never-persisted order summary.
type Totales struct {
	Materiales []MaterialTotal `json:"materiales"`
	LargoTotal decimal.Decimal `json:"largo_total"`
}

// AgregarTotales sums item values per material key and the lengths of the active
// tramos. Zero inputs yield empty totals, not an error. Output order follows the
// material key so repeated reads are identical. Unit and label prefer what the
// stored item carries, falling back to the static maps.
func AgregarTotales(items []ItemPersistido, largos []decimal.Decimal) Totales {
	sumas := make(map[string]decimal.Decimal, len(items))
	etiquetasVistas := make(map[string]string, len(items))
	unidadesVistas := make(map[string]string, len(items))

	for _, it := range items {
		sumas[it.Material] = sumas[it.Material].Add(it.Valor)
		if it.Etiqueta != "" {
			etiquetasVistas[it.Material] = it.Etiqueta
		}
		if it.Unidad != "" {
			unidadesVistas[it.Material] = it.Unidad
		}
	}

	claves := make([]string, 0, len(sumas))
	for k := range sumas {
		claves = append(claves, k)
	}
	sort.Strings(claves)

	materiales := make([]MaterialTotal, 0, len(claves))
	for _, k := range claves {
		etiqueta, ok := etiquetasVistas[k]
		if !ok {
			etiqueta = Etiqueta(k)
		}
		unidad, ok := unidadesVistas[k]
		if !ok {
			unidad = Unidad(k)
		}
		materiales = append(materiales, MaterialTotal{
			Material: k,
			Etiqueta: etiqueta,
			Unidad:   unidad,
			Total:    sumas[k].Round(decimales),
		})
	}

	largoTotal := decimal.Zero
	for _, l := range largos {
		largoTotal = largoTotal.Add(l)
	}

	return Totales{Materiales: materiales, LargoTotal: largoTotal.Round(decimales)}
}
