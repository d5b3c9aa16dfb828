package handler

import (
	"net/http"

	"obraflow/internal/dto"
	"obraflow/internal/service"

	"github.com/gin-gonic/gin"
)

type RecibosHandler struct{ svc service.ReciboService }

func NewRecibosHandler(svc service.ReciboService) *RecibosHandler {
	return &RecibosHandler{svc: svc}
}

// Solicitar godoc
// @Summary Solicitar recibo de materiales
// @Description Registra la solicitud y despacha la generación del PDF al pool de workers. Responde 202 con el recibo en estado pendiente.
// @Tags recibos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la orden"
// @Param body body dto.SolicitarReciboRequest true "Destino opcional del email"
// @Success 202 {object} dto.ReciboResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ordenes/{id}/recibos [post]
func (h *RecibosHandler) Solicitar(c *gin.Context) {
	ordenID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SolicitarReciboRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Solicitar(c.Request.Context(), ordenID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

func (h *RecibosHandler) ObtenerPorID(c *gin.Context) {
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

// UltimoPorOrden returns the most recent recibo of an order so the UI can poll
// for the async generation result.
func (h *RecibosHandler) UltimoPorOrden(c *gin.Context) {
	ordenID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorOrden(c.Request.Context(), ordenID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
