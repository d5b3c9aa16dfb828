package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func filaGavionAltura2() Fila {
	return Fila{
		Tabla:  TablaMuroGavion,
		Altura: dec("2"),
		Coeficientes: map[string]decimal.Decimal{
			MatSeccionMuro:     dec("1.2"),
			MatMallaTriple:     dec("8.6"),
			MatCanasto2x1x1:    dec("2.0"),
			MatGeotextilPlanar: dec("2.0"),
			MatAlambreAmarre:   dec("3.2"),
			MatPiedra:          dec("3.15"),
			MatTuberia:         dec("6.0"),
		},
	}
}

func valorDe(t *testing.T, items []ItemCalculado, material string) decimal.Decimal {
	t.Helper()
	for _, it := range items {
		if it.Material == material {
			return it.Valor
		}
	}
	t.Fatalf("material %q no está en el resultado", material)
	return decimal.Zero
}

func TestCalcularItems_CoeficientePorLargo(t *testing.T) {
	items, err := CalcularItems(filaGavionAltura2(), dec("12"))
	require.NoError(t, err)

	// 1.2 × 12
	assert.True(t, valorDe(t, items, MatSeccionMuro).Equal(dec("14.4")))
	// 8.6 × 12, sin divisor
	assert.True(t, valorDe(t, items, MatMallaTriple).Equal(dec("103.2")))
}

func TestCalcularItems_DivisoresFijos(t *testing.T) {
	items, err := CalcularItems(filaGavionAltura2(), dec("12"))
	require.NoError(t, err)

	// canastos y geotextil planar se dividen entre 2
	assert.True(t, valorDe(t, items, MatCanasto2x1x1).Equal(dec("12")))
	assert.True(t, valorDe(t, items, MatGeotextilPlanar).Equal(dec("12")))
	// tubería se divide entre 6: 6.0 × 12 ÷ 6
	assert.True(t, valorDe(t, items, MatTuberia).Equal(dec("12")))
}

func TestCalcularItems_RedondeoATresDecimales(t *testing.T) {
	fila := Fila{
		Tabla:  TablaColchoneta,
		Altura: dec("0.17"),
		Coeficientes: map[string]decimal.Decimal{
			MatMallaTriple: dec("6.2"),
		},
	}
	items, err := CalcularItems(fila, dec("1.333"))
	require.NoError(t, err)

	// 6.2 × 1.333 = 8.2646 → 8.265
	assert.Equal(t, "8.265", valorDe(t, items, MatMallaTriple).StringFixed(3))
}

func TestCalcularItems_DescartaValoresNoPositivos(t *testing.T) {
	fila := Fila{
		Tabla:  TablaMuroClaro,
		Altura: dec("1"),
		Coeficientes: map[string]decimal.Decimal{
			MatSeccionMuro:   dec("1.0"),
			MatAlambreAmarre: dec("0"),
			MatPiedra:        dec("-0.5"),
		},
	}
	items, err := CalcularItems(fila, dec("10"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, MatSeccionMuro, items[0].Material)
}

func TestCalcularItems_IgnoraMaterialesFueraDelEsquema(t *testing.T) {
	// malla triple no pertenece a unidades_muro_claro
	fila := Fila{
		Tabla:  TablaMuroClaro,
		Altura: dec("1"),
		Coeficientes: map[string]decimal.Decimal{
			MatSeccionMuro: dec("1.0"),
			MatMallaTriple: dec("4.3"),
		},
	}
	items, err := CalcularItems(fila, dec("5"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, MatSeccionMuro, items[0].Material)
}

func TestCalcularItems_LargoNoPositivo(t *testing.T) {
	_, err := CalcularItems(filaGavionAltura2(), dec("0"))
	assert.True(t, IsKind(err, KindValidacion))

	_, err = CalcularItems(filaGavionAltura2(), dec("-3"))
	assert.True(t, IsKind(err, KindValidacion))
}

func TestCalcularItems_TablaDesconocida(t *testing.T) {
	fila := filaGavionAltura2()
	fila.Tabla = "unidades_inexistente"
	_, err := CalcularItems(fila, dec("10"))
	assert.True(t, IsKind(err, KindConfiguracion))
}

func TestCalcularItems_ResultadoVacio(t *testing.T) {
	fila := Fila{
		Tabla:        TablaMuroGavion,
		Altura:       dec("2"),
		Coeficientes: map[string]decimal.Decimal{MatPiedra: dec("0")},
	}
	_, err := CalcularItems(fila, dec("10"))
	assert.True(t, IsKind(err, KindResultadoVacio))
}

func TestCalcularItems_Determinista(t *testing.T) {
	a, err := CalcularItems(filaGavionAltura2(), dec("7.5"))
	require.NoError(t, err)
	b, err := CalcularItems(filaGavionAltura2(), dec("7.5"))
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Material, b[i].Material)
		assert.True(t, a[i].Valor.Equal(b[i].Valor))
	}
}

func TestCalcularItems_SigueOrdenDelEsquema(t *testing.T) {
	items, err := CalcularItems(filaGavionAltura2(), dec("12"))
	require.NoError(t, err)

	cols, ok := EsquemaDe(TablaMuroGavion)
	require.True(t, ok)

	pos := make(map[string]int, len(cols))
	for i, c := range cols {
		pos[c] = i
	}
	for i := 1; i < len(items); i++ {
		assert.Less(t, pos[items[i-1].Material], pos[items[i].Material])
	}
}
