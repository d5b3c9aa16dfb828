package calc

// materiales.go — canonical material keys, static label/unit maps, divisor rules,
// and the declared schema of every unit table. The schemas are the allow-list:
// a product whose tabla_unidades is not listed here cannot be calculated.
//
// Column-name discovery was deliberately replaced by these explicit mappings:
// a unit table declares its ordered material columns here and the repository
// layer validates stored rows against the declaration at startup.

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Material keys — used verbatim as coefficient identifiers in filas_unidad and
// as the material field of persisted tramo items.
const (
	MatSeccionMuro     = "seccion de muro"
	MatMallaTriple     = "malla triple torsion"
	MatCanasto2x1x1    = "canasto 2x1x1"
	MatCanasto15x1x1   = "canasto 1.5x1x1"
	MatCanasto1x05x05  = "canasto 1x0.5x0.5"
	MatGeotextil1600   = "geotextil 1600"
	MatGeotextilPlanar = "geotextil planar"
	MatAlambreAmarre   = "alambre de amarre"
	MatPiedra          = "piedra"
	MatTuberia         = "tuberia"
)

// Unit table names accepted in producto.tabla_unidades.
const (
	TablaMuroGavion = "unidades_muro_gavion"
	TablaMuroClaro  = "unidades_muro_claro"
	TablaColchoneta = "unidades_colchoneta"
)

// UnidadGenerica is the fallback unit symbol for unmapped material keys.
const UnidadGenerica = "u"

// etiquetas maps material keys to display labels. Unmapped keys fall back to
// the raw key.
var etiquetas = map[string]string{
	MatSeccionMuro:     "Sección de muro",
	MatMallaTriple:     "Malla triple torsión",
	MatCanasto2x1x1:    "Canasto 2x1x1",
	MatCanasto15x1x1:   "Canasto 1.5x1x1",
	MatCanasto1x05x05:  "Canasto 1x0.5x0.5",
	MatGeotextil1600:   "Geotextil 1600",
	MatGeotextilPlanar: "Geotextil planar",
	MatAlambreAmarre:   "Alambre de amarre",
	MatPiedra:          "Piedra",
	MatTuberia:         "Tubería",
}

// unidades maps material keys to units of measure.
var unidades = map[string]string{
	MatSeccionMuro:     "m³",
	MatMallaTriple:     "m²",
	MatCanasto2x1x1:    "ud",
	MatCanasto15x1x1:   "ud",
	MatCanasto1x05x05:  "ud",
	MatGeotextil1600:   "m²",
	MatGeotextilPlanar: "m²",
	MatAlambreAmarre:   "kg",
	MatPiedra:          "m³",
	MatTuberia:         "ud",
}

// divisores holds the per-material packaging divisors. Canastos and the planar
// geotextile ship per 2 linear meters; tubería ships in 6-meter lengths.
// Materials absent from this map use the raw coefficient × largo value.
var divisores = map[string]decimal.Decimal{
	MatCanasto2x1x1:    decimal.NewFromInt(2),
	MatCanasto15x1x1:   decimal.NewFromInt(2),
	MatCanasto1x05x05:  decimal.NewFromInt(2),
	MatGeotextilPlanar: decimal.NewFromInt(2),
	MatTuberia:         decimal.NewFromInt(6),
}

// esquemas declares, per unit table, the ordered material columns it carries.
var esquemas = map[string][]string{
	TablaMuroGavion: {
		MatSeccionMuro, MatMallaTriple, MatCanasto2x1x1, MatCanasto15x1x1,
		MatCanasto1x05x05, MatGeotextil1600, MatGeotextilPlanar,
		MatAlambreAmarre, MatPiedra, MatTuberia,
	},
	TablaMuroClaro: {
		MatSeccionMuro, MatCanasto2x1x1, MatCanasto1x05x05,
		MatGeotextilPlanar, MatAlambreAmarre, MatPiedra, MatTuberia,
	},
	TablaColchoneta: {
		MatMallaTriple, MatGeotextil1600, MatAlambreAmarre, MatPiedra,
	},
}

// TablaConocida reports whether tabla is in the allow-list.
func TablaConocida(tabla string) bool {
	_, ok := esquemas[tabla]
	return ok
}

// EsquemaDe returns the ordered material columns declared for tabla.
func EsquemaDe(tabla string) ([]string, bool) {
	cols, ok := esquemas[tabla]
	return cols, ok
}

// Tablas returns every declared unit table name, sorted.
func Tablas() []string {
	out := make([]string, 0, len(esquemas))
	for t := range esquemas {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Etiqueta returns the display label for a material key, or the key itself.
func Etiqueta(material string) string {
	if e, ok := etiquetas[material]; ok {
		return e
	}
	return material
}

// Unidad returns the unit of measure for a material key, or the generic symbol.
func Unidad(material string) string {
	if u, ok := unidades[material]; ok {
		return u
	}
	return UnidadGenerica
}

// EsMaterialValido reports whether material belongs to tabla's declared schema.
func EsMaterialValido(tabla, material string) bool {
	cols, ok := esquemas[tabla]
	if !ok {
		return false
	}
	for _, c := range cols {
		if c == material {
			return true
		}
	}
	return false
}
