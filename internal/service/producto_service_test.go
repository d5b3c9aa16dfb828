package service_test

import (
	"context"
	"testing"

	"obraflow/internal/calc"
	"obraflow/internal/dto"
	"obraflow/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearProducto_NormalizaTabla(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo)

	tabla := "  Unidades_Muro_Gavion "
	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:        "Muro gavión",
		TablaUnidades: &tabla,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.TablaUnidades)
	assert.Equal(t, "unidades_muro_gavion", *resp.TablaUnidades)
	assert.True(t, resp.Activo)
}

func TestCrearProducto_SinTabla(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo)

	vacia := "   "
	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:        "Flete",
		TablaUnidades: &vacia,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.TablaUnidades)
}

func TestCrearProducto_TablaDesconocida(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo)

	tabla := "unidades_represa"
	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:        "Represa",
		TablaUnidades: &tabla,
	})
	assert.True(t, calc.IsKind(err, calc.KindValidacion))
	assert.ErrorContains(t, err, "unidades_muro_gavion")
}

func TestActualizarProducto_CambiaTabla(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo)

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{Nombre: "Colchoneta"})
	require.NoError(t, err)
	require.Nil(t, resp.TablaUnidades)

	tabla := "unidades_colchoneta"
	id := uuid.MustParse(resp.ID)
	actualizado, err := svc.Actualizar(context.Background(), id, dto.ActualizarProductoRequest{
		TablaUnidades: &tabla,
	})
	require.NoError(t, err)
	require.NotNil(t, actualizado.TablaUnidades)
	assert.Equal(t, tabla, *actualizado.TablaUnidades)
}
