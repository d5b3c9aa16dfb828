package router

import (
	"time"

	"obraflow/internal/config"
	"obraflow/internal/handler"
	"obraflow/internal/infra"
	"obraflow/internal/middleware"
	"obraflow/internal/repository"
	"obraflow/internal/service"
	"obraflow/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	mailerCB *infra.CircuitBreaker,
	dispatcher *worker.Dispatcher,
	storage *infra.AdjuntoStorage,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	unidadRepo := repository.NewUnidadRepository(db)
	ordenRepo := repository.NewOrdenRepository(db)
	tramoRepo := repository.NewTramoRepository(db)
	reciboRepo := repository.NewReciboRepository(db)
	adjuntoRepo := repository.NewAdjuntoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	productoSvc := service.NewProductoService(productoRepo)
	calculoSvc := service.NewCalculoService(ordenRepo, productoRepo, unidadRepo)
	tramoSvc := service.NewTramoService(tramoRepo, ordenRepo, calculoSvc)
	ordenSvc := service.NewOrdenService(ordenRepo, clienteRepo, productoRepo, tramoRepo)
	reciboSvc := service.NewReciboService(reciboRepo, ordenRepo, dispatcher)
	adjuntoSvc := service.NewAdjuntoService(adjuntoRepo, ordenRepo, storage)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ordenesH := handler.NewOrdenesHandler(ordenSvc)
	tramosH := handler.NewTramosHandler(tramoSvc, calculoSvc)
	recibosH := handler.NewRecibosHandler(reciboSvc)
	adjuntosH := handler.NewAdjuntosHandler(adjuntoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailerCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: solicitante registers orders and tramos on site;
		// administrador additionally manages the catalog and users.

		ambos := middleware.RequireRole("solicitante", "administrador")
		soloAdmin := middleware.RequireRole("administrador")

		// Órdenes
		v1.POST("/ordenes", ambos, ordenesH.Crear)
		v1.GET("/ordenes", ambos, ordenesH.Listar)
		v1.GET("/ordenes/resumen", ambos, ordenesH.Resumen)
		v1.GET("/ordenes/:id", ambos, ordenesH.ObtenerPorID)
		v1.PUT("/ordenes/:id", ambos, ordenesH.Actualizar)
		v1.PATCH("/ordenes/:id/estado", soloAdmin, ordenesH.CambiarEstado)
		v1.GET("/ordenes/:id/totales", ambos, ordenesH.Totales)
		v1.GET("/ordenes/:id/tramos", ambos, tramosH.ListarPorOrden)

		// Tramos
		v1.POST("/tramos", ambos, tramosH.Crear)
		v1.POST("/tramos/calcular", ambos, tramosH.Calcular)
		v1.GET("/tramos/:id", ambos, tramosH.ObtenerPorID)
		v1.PUT("/tramos/:id", ambos, tramosH.Actualizar)
		v1.DELETE("/tramos/:id", ambos, tramosH.Cancelar)
		v1.PATCH("/tramos/:id/completar", ambos, tramosH.Completar)

		// Tablas de unidades
		v1.GET("/unidades/:tabla/alturas", ambos, tramosH.Alturas)

		// Recibos
		v1.POST("/ordenes/:id/recibos", ambos, recibosH.Solicitar)
		v1.GET("/ordenes/:id/recibos/ultimo", ambos, recibosH.UltimoPorOrden)
		v1.GET("/recibos/:id", ambos, recibosH.ObtenerPorID)

		// Adjuntos
		v1.POST("/ordenes/:id/adjuntos", ambos, adjuntosH.Subir)
		v1.GET("/ordenes/:id/adjuntos", ambos, adjuntosH.ListarPorOrden)
		v1.GET("/adjuntos/:id", ambos, adjuntosH.Descargar)
		v1.DELETE("/adjuntos/:id", soloAdmin, adjuntosH.Eliminar)

		// Clientes — all authenticated can read, administrador writes
		v1.GET("/clientes", ambos, clientesH.Listar)
		v1.GET("/clientes/:id", ambos, clientesH.ObtenerPorID)
		clientes := v1.Group("/clientes", soloAdmin)
		{
			clientes.POST("", clientesH.Crear)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Desactivar)
			clientes.PATCH("/:id/reactivar", clientesH.Reactivar)
		}

		// Productos — all authenticated can read, administrador writes
		v1.GET("/productos", ambos, productosH.Listar)
		v1.GET("/productos/:id", ambos, productosH.ObtenerPorID)
		productos := v1.Group("/productos", soloAdmin)
		{
			productos.POST("", productosH.Crear)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Desactivar)
			productos.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		// Usuarios — administrador only
		usuarios := v1.Group("/usuarios", soloAdmin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
