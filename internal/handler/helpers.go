package handler

import (
	"net/http"
	"reflect"

	"obraflow/internal/apierror"
	"obraflow/internal/calc"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps typed calculation errors to HTTP statuses. Untyped errors
// become a 400 with the error message, matching the rest of the API surface.
func respondError(c *gin.Context, err error) {
	switch {
	case calc.IsKind(err, calc.KindNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case calc.IsKind(err, calc.KindValidacion):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case calc.IsKind(err, calc.KindConfiguracion), calc.IsKind(err, calc.KindResultadoVacio):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case calc.IsKind(err, calc.KindPersistencia):
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

// parseIDParam reads a :id-style path param as UUID, writing the 400 itself.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}
