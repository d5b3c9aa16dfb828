package handler

import (
	"net/http"

	"obraflow/internal/apierror"
	"obraflow/internal/dto"
	"obraflow/internal/middleware"
	"obraflow/internal/model"
	"obraflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdenesHandler struct{ svc service.OrdenService }

func NewOrdenesHandler(svc service.OrdenService) *OrdenesHandler {
	return &OrdenesHandler{svc: svc}
}

// Crear godoc
// @Summary Registrar una nueva orden
// @Description Crea una orden de pedido para un cliente y producto activos. El código ORD-xxxxx se asigna del lado del servidor.
// @Tags ordenes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearOrdenRequest true "Datos de la orden"
// @Success 201 {object} dto.OrdenResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/ordenes [post]
func (h *OrdenesHandler) Crear(c *gin.Context) {
	var req dto.CrearOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	solicitanteID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), solicitanteID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrdenesHandler) ObtenerPorID(c *gin.Context) {
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

// Listar godoc
// @Summary Listar órdenes
// @Tags ordenes
// @Produce json
// @Security BearerAuth
// @Param estado query string false "pendiente | completada | cancelada | all"
// @Param cliente_id query string false "Filtrar por cliente"
// @Param buscar query string false "Búsqueda parcial por código o ubicación"
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Registros por página (default 50)"
// @Success 200 {object} dto.OrdenListResponse
// @Router /v1/ordenes [get]
func (h *OrdenesHandler) Listar(c *gin.Context) {
	var filter dto.OrdenFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ordenes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdenesHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarOrdenRequest
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

func (h *OrdenesHandler) CambiarEstado(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarEstado(c.Request.Context(), id, model.EstadoOrden(req.Estado)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Totales godoc
// @Summary Totales de materiales de la orden
// @Description Agrega los items de todos los tramos activos (pendiente + completado). Se recalcula en cada lectura.
// @Tags ordenes
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la orden"
// @Success 200 {object} dto.TotalesResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ordenes/{id}/totales [get]
func (h *OrdenesHandler) Totales(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerTotales(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary Resumen para el dashboard
// @Tags ordenes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResumenResponse
// @Router /v1/ordenes/resumen [get]
func (h *OrdenesHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
