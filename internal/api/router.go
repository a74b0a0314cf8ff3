package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/empresatop10/employee-manager/docs"
	"github.com/empresatop10/employee-manager/internal/api/handler"
	"github.com/empresatop10/employee-manager/internal/api/middleware"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Accounts  ports.AccountService
	Directory ports.DirectoryService
	Tokens    ports.TokenIssuer
	// Checks feed the readiness check, keyed by dependency name.
	Checks map[string]handler.PingFunc
	Log    zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	promCfg := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	promHandlerCfg := echoprometheus.HandlerConfig{}
	if d.Registry != nil {
		promCfg.Registerer = d.Registry
		promHandlerCfg.Gatherer = d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	// --- Handlers ---
	accountHandler := handler.NewAccountHandler(d.Accounts, d.Log)
	employeeHandler := handler.NewEmployeeHandler(d.Accounts, d.Directory)
	projectHandler := handler.NewProjectHandler(d.Directory)
	taskHandler := handler.NewTaskHandler(d.Directory)
	catalogHandler := handler.NewCatalogHandler(d.Directory)
	healthHandler := handler.NewHealthHandler(d.Checks)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandlerCfg))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")

	// --- Public account routes ---
	v1.POST("/login", accountHandler.Login)
	v1.POST("/recover-password", accountHandler.RecoverPassword)
	v1.GET("/reset-password/:hash", accountHandler.CheckResetToken)
	v1.POST("/reset-password/:hash", accountHandler.ResetPassword)

	// --- Authenticated routes ---
	auth := v1.Group("", middleware.Auth(d.Tokens))
	staff := middleware.Staff()

	auth.PUT("/change-password", accountHandler.ChangePassword)
	auth.POST("/device-token", accountHandler.DeviceToken)
	auth.POST("/contact", accountHandler.Contact)

	auth.GET("/users", employeeHandler.List)
	auth.POST("/users", employeeHandler.Create, staff)
	auth.GET("/users/me", employeeHandler.Me)
	auth.GET("/users/:id", employeeHandler.Get)
	auth.PATCH("/users/:id", employeeHandler.Update)

	auth.GET("/projects", projectHandler.List)
	auth.POST("/projects", projectHandler.Create, staff)
	auth.GET("/projects/:id", projectHandler.Get)
	auth.PUT("/projects/:id", projectHandler.Update, staff)
	auth.DELETE("/projects/:id", projectHandler.Delete, staff)

	auth.GET("/tasks", taskHandler.List)
	auth.POST("/tasks", taskHandler.Create)
	auth.GET("/tasks/:id", taskHandler.Get)
	auth.PATCH("/tasks/:id", taskHandler.Update)
	auth.DELETE("/tasks/:id", taskHandler.Delete)

	auth.GET("/departments", catalogHandler.ListDepartments)
	auth.GET("/departments/:id", catalogHandler.GetDepartment)
	auth.GET("/jobs", catalogHandler.ListJobs)
	auth.GET("/jobs/:id", catalogHandler.GetJob)
	auth.GET("/clients", catalogHandler.ListClients)
	auth.GET("/clients/:id", catalogHandler.GetClient)
	auth.GET("/permissions/:kind", catalogHandler.Permissions)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
