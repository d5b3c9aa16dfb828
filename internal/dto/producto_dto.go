package dto

type CrearProductoRequest struct {
	Nombre      string  `json:"nombre" validate:"required"`
	Descripcion *string `json:"descripcion"`
	// TablaUnidades must name a declared unit-table schema; nil = not calculable.
	TablaUnidades *string `json:"tabla_unidades"`
}

type ActualizarProductoRequest struct {
	Nombre        string  `json:"nombre"`
	Descripcion   *string `json:"descripcion"`
	TablaUnidades *string `json:"tabla_unidades"`
}

type ProductoFilter struct {
	Nombre string `form:"nombre"`
	Activo string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductoResponse struct {
	ID            string  `json:"id"`
	Nombre        string  `json:"nombre"`
	Descripcion   *string `json:"descripcion,omitempty"`
	TablaUnidades *string `json:"tabla_unidades,omitempty"`
	Activo        bool    `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
