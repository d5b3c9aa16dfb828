package service_test

import (
	"context"
	"testing"

	"obraflow/internal/calc"
	"obraflow/internal/dto"
	"obraflow/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearTramo_PersisteItemsRecalculados(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	resp, err := f.tramos.Crear(context.Background(), dto.CrearTramoRequest{
		OrdenID: orden.ID.String(),
		Altura:  dec("2"),
		Largo:   dec("12"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.TramoPendiente), resp.Estado)
	assert.Contains(t, resp.Codigo, orden.Codigo)
	require.NotEmpty(t, resp.Items)

	// los items quedaron persistidos, no solo en la respuesta
	id := uuid.MustParse(resp.ID)
	stored, err := f.tramoRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, stored.Items, len(resp.Items))
}

func TestCrearTramo_OrdenCancelada(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()
	orden.Estado = model.OrdenCancelada

	_, err := f.tramos.Crear(context.Background(), dto.CrearTramoRequest{
		OrdenID: orden.ID.String(),
		Altura:  dec("2"),
		Largo:   dec("12"),
	})
	assert.True(t, calc.IsKind(err, calc.KindValidacion))
}

func TestCrearTramo_CompensaHeaderSiFallanItems(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()
	f.tramoRepo.failCreateItems = true

	_, err := f.tramos.Crear(context.Background(), dto.CrearTramoRequest{
		OrdenID: orden.ID.String(),
		Altura:  dec("2"),
		Largo:   dec("12"),
	})
	require.Error(t, err)
	assert.True(t, calc.IsKind(err, calc.KindPersistencia))

	// sin transacción real, el header insertado se elimina por compensación
	assert.Empty(t, f.tramoRepo.tramos)
}

func TestActualizarTramo_Recalcula(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	creado, err := f.tramos.Crear(context.Background(), dto.CrearTramoRequest{
		OrdenID: orden.ID.String(),
		Altura:  dec("2"),
		Largo:   dec("12"),
	})
	require.NoError(t, err)

	id := uuid.MustParse(creado.ID)
	resp, err := f.tramos.Actualizar(context.Background(), id, dto.ActualizarTramoRequest{
		Altura: dec("2"),
		Largo:  dec("8"),
	})
	require.NoError(t, err)

	valores := map[string]string{}
	for _, it := range resp.Items {
		valores[it.Material] = it.Valor.String()
	}
	// 1.2 × 8
	assert.Equal(t, "9.6", valores["seccion de muro"])
	// 6.0 × 8 ÷ 6
	assert.Equal(t, "8", valores["tuberia"])
}

func TestActualizarTramo_FallaDeCalculoNoTocaItems(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	creado, err := f.tramos.Crear(context.Background(), dto.CrearTramoRequest{
		OrdenID: orden.ID.String(),
		Altura:  dec("2"),
		Largo:   dec("12"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	// altura inexistente: el recálculo falla antes de tocar los items
	_, err = f.tramos.Actualizar(context.Background(), id, dto.ActualizarTramoRequest{
		Altura: dec("2.5"),
		Largo:  dec("12"),
	})
	assert.True(t, calc.IsKind(err, calc.KindNoEncontrado))

	stored, err := f.tramoRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, stored.Items, len(creado.Items))
	assert.True(t, stored.Altura.Equal(dec("2")))
	assert.True(t, stored.Largo.Equal(dec("12")))
}

func TestActualizarTramo_ResultadoVacioNoTocaItems(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	creado, err := f.tramos.Crear(context.Background(), dto.CrearTramoRequest{
		OrdenID: orden.ID.String(),
		Altura:  dec("2"),
		Largo:   dec("12"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	// un largo tan chico que todos los valores redondean a cero
	_, err = f.tramos.Actualizar(context.Background(), id, dto.ActualizarTramoRequest{
		Altura: dec("2"),
		Largo:  dec("0.0001"),
	})
	assert.True(t, calc.IsKind(err, calc.KindResultadoVacio))

	stored, err := f.tramoRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, stored.Items, len(creado.Items))
	assert.True(t, stored.Largo.Equal(dec("12")))
}

func TestActualizarTramo_Eliminado(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	creado, err := f.tramos.Crear(context.Background(), dto.CrearTramoRequest{
		OrdenID: orden.ID.String(),
		Altura:  dec("2"),
		Largo:   dec("12"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)
	require.NoError(t, f.tramos.Cancelar(context.Background(), id))

	_, err = f.tramos.Actualizar(context.Background(), id, dto.ActualizarTramoRequest{
		Altura: dec("2"),
		Largo:  dec("5"),
	})
	assert.True(t, calc.IsKind(err, calc.KindValidacion))
}

func TestCancelarTramo_SaleDelListadoActivo(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	creado, err := f.tramos.Crear(context.Background(), dto.CrearTramoRequest{
		OrdenID: orden.ID.String(),
		Altura:  dec("2"),
		Largo:   dec("12"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	require.NoError(t, f.tramos.Cancelar(context.Background(), id))

	activos, err := f.tramos.ListarPorOrden(context.Background(), orden.ID, false)
	require.NoError(t, err)
	assert.Empty(t, activos)

	// cancelar dos veces es un error de validación
	err = f.tramos.Cancelar(context.Background(), id)
	assert.True(t, calc.IsKind(err, calc.KindValidacion))

	// con incluir_eliminados el tramo sigue visible para historial
	todos, err := f.tramos.ListarPorOrden(context.Background(), orden.ID, true)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, string(model.TramoEliminado), todos[0].Estado)
}

func TestCompletarTramo(t *testing.T) {
	f := newFixture()
	orden := f.seedOrdenGavion()

	creado, err := f.tramos.Crear(context.Background(), dto.CrearTramoRequest{
		OrdenID: orden.ID.String(),
		Altura:  dec("2"),
		Largo:   dec("12"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	require.NoError(t, f.tramos.Completar(context.Background(), id))

	// completado sigue contando como activo
	activos, err := f.tramos.ListarPorOrden(context.Background(), orden.ID, false)
	require.NoError(t, err)
	require.Len(t, activos, 1)
	assert.Equal(t, string(model.TramoCompletado), activos[0].Estado)
}
