package service_test

import (
	"context"
	"testing"

	"obraflow/internal/calc"
	"obraflow/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcular_MuroGavionAltura2(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	items, err := f.calculo.Calcular(context.Background(), orden.ID, dec("2"), dec("12"))
	require.NoError(t, err)

	valores := map[string]string{}
	for _, it := range items {
		valores[it.Material] = it.Valor.String()
	}
	assert.Equal(t, "14.4", valores["seccion de muro"])
	// canastos y geotextil planar entre 2
	assert.Equal(t, "12", valores["canasto 2x1x1"])
	assert.Equal(t, "12", valores["geotextil planar"])
	// tubería entre 6
	assert.Equal(t, "12", valores["tuberia"])
	assert.Equal(t, "38.4", valores["alambre de amarre"])
	assert.Equal(t, "37.8", valores["piedra"])
}

func TestCalcular_AlturaInexistente(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	// 2.5 no está en la tabla: el match es exacto, nunca interpolado
	_, err := f.calculo.Calcular(context.Background(), orden.ID, dec("2.5"), dec("10"))
	assert.True(t, calc.IsKind(err, calc.KindNoEncontrado))
}

func TestCalcular_OrdenInexistente(t *testing.T) {
	f := newFixture()
	f.seedOrdenGavion()

	_, err := f.calculo.Calcular(context.Background(), uuid.New(), dec("2"), dec("10"))
	assert.True(t, calc.IsKind(err, calc.KindNoEncontrado))
}

func TestCalcular_ProductoSinTabla(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()
	orden.Producto.TablaUnidades = nil

	_, err := f.calculo.Calcular(context.Background(), orden.ID, dec("2"), dec("10"))
	assert.True(t, calc.IsKind(err, calc.KindConfiguracion))
}

func TestCalcular_TablaDesconocida(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()
	tabla := "unidades_represa"
	orden.Producto.TablaUnidades = &tabla

	_, err := f.calculo.Calcular(context.Background(), orden.ID, dec("2"), dec("10"))
	assert.True(t, calc.IsKind(err, calc.KindConfiguracion))
}

func TestCalcular_DimensionesNoPositivas(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	_, err := f.calculo.Calcular(context.Background(), orden.ID, dec("0"), dec("10"))
	assert.True(t, calc.IsKind(err, calc.KindValidacion))

	_, err = f.calculo.Calcular(context.Background(), orden.ID, dec("2"), dec("-1"))
	assert.True(t, calc.IsKind(err, calc.KindValidacion))
}

func TestListarAlturas(t *testing.T) {
	f := newFixture()
	f.seedOrdenGavion()
	f.unidadRepo.agregar(model.FilaUnidad{
		Tabla:  "unidades_muro_gavion",
		Altura: dec("3"),
		Coeficientes: []model.CoeficienteUnidad{
			{Material: "seccion de muro", Coeficiente: dec("2.4")},
		},
	})

	alturas, err := f.calculo.ListarAlturas(context.Background(), "unidades_muro_gavion")
	require.NoError(t, err)
	assert.Len(t, alturas, 2)

	_, err = f.calculo.ListarAlturas(context.Background(), "unidades_represa")
	assert.True(t, calc.IsKind(err, calc.KindConfiguracion))
}
