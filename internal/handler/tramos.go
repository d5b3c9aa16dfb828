package handler

import (
	"net/http"

	"obraflow/internal/apierror"
	"obraflow/internal/dto"
	"obraflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TramosHandler struct {
	svc     service.TramoService
	calculo service.CalculoService
}

func NewTramosHandler(svc service.TramoService, calculo service.CalculoService) *TramosHandler {
	return &TramosHandler{svc: svc, calculo: calculo}
}

// Crear godoc
// @Summary Registrar un tramo de muro
// @Description Calcula los materiales para (altura, largo) según la tabla de unidades del producto de la orden y persiste el tramo con sus items. Si ningún material supera cero, no se escribe nada.
// @Tags tramos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearTramoRequest true "Dimensiones del tramo"
// @Success 201 {object} dto.TramoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/tramos [post]
func (h *TramosHandler) Crear(c *gin.Context) {
	var req dto.CrearTramoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary Editar un tramo
// @Description Recalcula los items con las nuevas dimensiones y reemplaza los anteriores. Si el recálculo queda vacío, el tramo original se conserva intacto.
// @Tags tramos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del tramo"
// @Param body body dto.ActualizarTramoRequest true "Nuevas dimensiones"
// @Success 200 {object} dto.TramoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/tramos/{id} [put]
func (h *TramosHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarTramoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar marks the tramo eliminado; its items stop counting toward totals.
func (h *TramosHandler) Cancelar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TramosHandler) Completar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Completar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TramosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorOrden godoc
// @Summary Listar tramos de una orden
// @Tags tramos
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la orden"
// @Param incluir_eliminados query bool false "Incluir tramos cancelados"
// @Success 200 {array} dto.TramoResponse
// @Router /v1/ordenes/{id}/tramos [get]
func (h *TramosHandler) ListarPorOrden(c *gin.Context) {
	ordenID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	incluirEliminados := c.Query("incluir_eliminados") == "true"
	resp, err := h.svc.ListarPorOrden(c.Request.Context(), ordenID, incluirEliminados)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Calcular godoc
// @Summary Previsualizar un cálculo de materiales
// @Description Ejecuta el cálculo sin persistir nada — mismo motor que el alta de tramos.
// @Tags tramos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CalcularRequest true "Dimensiones a calcular"
// @Success 200 {object} dto.CalculoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/tramos/calcular [post]
func (h *TramosHandler) Calcular(c *gin.Context) {
	var req dto.CalcularRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ordenID, err := uuid.Parse(req.OrdenID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("orden_id invalido"))
		return
	}
	items, err := h.calculo.Calcular(c.Request.Context(), ordenID, req.Altura, req.Largo)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.CalculoResponse{Items: make([]dto.TramoItemResponse, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.TramoItemResponse{
			Material: it.Material,
			Etiqueta: it.Etiqueta,
			Unidad:   it.Unidad,
			Valor:    it.Valor,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Alturas godoc
// @Summary Alturas disponibles de una tabla de unidades
// @Description El frontend solo ofrece alturas existentes; la búsqueda de coeficientes es por coincidencia exacta.
// @Tags unidades
// @Produce json
// @Security BearerAuth
// @Param tabla path string true "Nombre de la tabla de unidades"
// @Success 200 {object} dto.AlturasResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/unidades/{tabla}/alturas [get]
func (h *TramosHandler) Alturas(c *gin.Context) {
	tabla := c.Param("tabla")
	alturas, err := h.calculo.ListarAlturas(c.Request.Context(), tabla)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AlturasResponse{Tabla: tabla, Alturas: alturas})
}
