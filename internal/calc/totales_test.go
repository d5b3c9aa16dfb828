package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgregarTotales_SumaPorMaterial(t *testing.T) {
	items := []ItemPersistido{
		{Material: MatSeccionMuro, Etiqueta: "Sección de muro", Unidad: "m²", Valor: dec("14.4")},
		{Material: MatSeccionMuro, Etiqueta: "Sección de muro", Unidad: "m²", Valor: dec("9.6")},
		{Material: MatTuberia, Etiqueta: "Tubería", Unidad: "un", Valor: dec("12")},
	}
	tot := AgregarTotales(items, []decimal.Decimal{dec("12"), dec("8")})

	require.Len(t, tot.Materiales, 2)
	assert.True(t, tot.LargoTotal.Equal(dec("20")))

	bySum := map[string]decimal.Decimal{}
	for _, m := range tot.Materiales {
		bySum[m.Material] = m.Total
	}
	assert.True(t, bySum[MatSeccionMuro].Equal(dec("24")))
	assert.True(t, bySum[MatTuberia].Equal(dec("12")))
}

func TestAgregarTotales_SinItems(t *testing.T) {
	tot := AgregarTotales(nil, nil)
	assert.Empty(t, tot.Materiales)
	assert.True(t, tot.LargoTotal.IsZero())
}

func TestAgregarTotales_OrdenDeterminista(t *testing.T) {
	items := []ItemPersistido{
		{Material: MatTuberia, Valor: dec("1")},
		{Material: MatAlambreAmarre, Valor: dec("2")},
		{Material: MatPiedra, Valor: dec("3")},
	}
	a := AgregarTotales(items, nil)
	b := AgregarTotales(items, nil)

	require.Equal(t, len(a.Materiales), len(b.Materiales))
	for i := range a.Materiales {
		assert.Equal(t, a.Materiales[i].Material, b.Materiales[i].Material)
	}
	// ordenado por clave de material
	for i := 1; i < len(a.Materiales); i++ {
		assert.Less(t, a.Materiales[i-1].Material, a.Materiales[i].Material)
	}
}

func TestAgregarTotales_EtiquetaYUnidadDeRespaldo(t *testing.T) {
	// items viejos sin etiqueta/unidad persistida caen a los mapas estáticos
	items := []ItemPersistido{{Material: MatPiedra, Valor: dec("5")}}
	tot := AgregarTotales(items, nil)

	require.Len(t, tot.Materiales, 1)
	assert.Equal(t, Etiqueta(MatPiedra), tot.Materiales[0].Etiqueta)
	assert.Equal(t, Unidad(MatPiedra), tot.Materiales[0].Unidad)
}

func TestAgregarTotales_RedondeaSumas(t *testing.T) {
	items := []ItemPersistido{
		{Material: MatPiedra, Valor: dec("1.0005")},
		{Material: MatPiedra, Valor: dec("2.0002")},
	}
	tot := AgregarTotales(items, []decimal.Decimal{dec("0.3335")})

	require.Len(t, tot.Materiales, 1)
	assert.Equal(t, "3.001", tot.Materiales[0].Total.StringFixed(3))
	assert.Equal(t, "0.334", tot.LargoTotal.StringFixed(3))
}

func TestTablaConocida(t *testing.T) {
	assert.True(t, TablaConocida(TablaMuroGavion))
	assert.True(t, TablaConocida(TablaMuroClaro))
	assert.True(t, TablaConocida(TablaColchoneta))
	assert.False(t, TablaConocida("unidades_puente"))
}

func TestTablas_OrdenEstable(t *testing.T) {
	a := Tablas()
	b := Tablas()
	assert.Equal(t, a, b)
	require.Len(t, a, 3)
	for i := 1; i < len(a); i++ {
		assert.Less(t, a[i-1], a[i])
	}
}
