package handler

import (
	"net/http"

	"obraflow/internal/apierror"
	"obraflow/internal/middleware"
	"obraflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxAdjuntoSize caps uploads at 10 MiB.
const maxAdjuntoSize = 10 << 20

type AdjuntosHandler struct{ svc service.AdjuntoService }

func NewAdjuntosHandler(svc service.AdjuntoService) *AdjuntosHandler {
	return &AdjuntosHandler{svc: svc}
}

// Subir godoc
// @Summary Adjuntar archivo a una orden
// @Description Sube un archivo multipart (fotos de obra, presupuestos firmados). Máximo 10 MiB.
// @Tags adjuntos
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la orden"
// @Param archivo formData file true "Archivo a adjuntar"
// @Success 201 {object} dto.AdjuntoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/ordenes/{id}/adjuntos [post]
func (h *AdjuntosHandler) Subir(c *gin.Context) {
	ordenID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("archivo requerido"))
		return
	}
	if fileHeader.Size > maxAdjuntoSize {
		c.JSON(http.StatusBadRequest, apierror.New("el archivo supera el tamaño máximo (10 MiB)"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("no se pudo leer el archivo"))
		return
	}
	defer src.Close()

	claims := middleware.GetClaims(c)
	subidoPorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Subir(
		c.Request.Context(),
		ordenID,
		subidoPorID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		src,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AdjuntosHandler) ListarPorOrden(c *gin.Context) {
	ordenID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorOrden(c.Request.Context(), ordenID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Descargar streams the stored file with its original name.
func (h *AdjuntosHandler) Descargar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	adjunto, f, err := h.svc.Abrir(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="`+adjunto.NombreArchivo+`"`)
	c.Header("Content-Type", adjunto.TipoMime)
	c.File(f.Name())
}

func (h *AdjuntosHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
