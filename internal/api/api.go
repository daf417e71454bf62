package api

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	oapimiddleware "github.com/oapi-codegen/echo-middleware"
	"go.uber.org/zap"

	"github.com/rinesakuci/campus-hub/internal/controller"
	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/service"
	"github.com/rinesakuci/campus-hub/internal/util"
)

const shutdownTimeout = 5 * time.Second

type API struct {
	server          *echo.Echo
	controller      *controller.Controller
	tokens          *service.TokenService
	log             *zap.SugaredLogger
	gracefulTimeout time.Duration
	allowedOrigins  []string
}

func NewAPI(c *controller.Controller, tokens *service.TokenService, l *zap.SugaredLogger, sc *util.ServerConfig) *API {
	e := echo.New()

	e.Server.Addr = sc.ServerAddr
	e.Server.WriteTimeout = sc.WriteTimeout
	e.Server.ReadTimeout = sc.ReadTimeout
	e.Server.IdleTimeout = sc.IdleTimeout
	e.HTTPErrorHandler = ErrorHandler(l)

	return &API{
		server:          e,
		controller:      c,
		tokens:          tokens,
		log:             l,
		gracefulTimeout: sc.GracefulTimeout,
		allowedOrigins:  sc.AllowedOrigins,
	}
}

func (a *API) Run(ctxBackground context.Context) {
	ctx, stop := signal.NotifyContext(ctxBackground, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	swagger, err := controller.GetSwagger()
	if err != nil {
		a.log.Fatalf("Failed to load OpenAPI specification: %v", err)
	}
	swagger.Servers = nil

	if len(a.allowedOrigins) > 0 {
		a.server.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     a.allowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}
	a.server.Use(echomiddleware.RequestLoggerWithConfig(GetLoggerMiddlewareConfig(a)))

	a.registerRoutes(swagger)

	a.ListenGracefulShutdown(ctx)
}

func (a *API) registerRoutes(swagger *openapi3.T) {
	a.server.GET("/health", a.controller.Health)

	g := a.server.Group("/api")
	g.Use(oapimiddleware.OapiRequestValidatorWithOptions(swagger, &oapimiddleware.Options{
		Options: openapi3filter.Options{
			// Tokens are checked by AuthRequired, not the validator.
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}))

	auth := g.Group("/auth")
	auth.POST("/register", a.controller.Register)
	auth.POST("/login", a.controller.Login)
	auth.POST("/refresh", a.controller.Refresh)
	auth.POST("/logout", a.controller.Logout)

	protected := g.Group("", AuthRequired(a.tokens, a.log))
	admin := RequireRole(models.RoleAdmin)

	protected.GET("/courses", a.controller.ListCourses)
	protected.POST("/courses", a.controller.CreateCourse, admin)

	protected.GET("/events", a.controller.ListEvents)
	protected.POST("/events", a.controller.CreateEvent, admin)

	protected.GET("/assignments", a.controller.ListAssignments)
	protected.GET("/assignments/by-course/:courseId", a.controller.ListAssignmentsByCourse)
	protected.GET("/assignments/:id", a.controller.GetAssignment)
	protected.POST("/assignments", a.controller.CreateAssignment, admin)

	protected.GET("/comments", a.controller.ListComments)
	protected.POST("/comments", a.controller.CreateComment)

	protected.GET("/notifications", a.controller.ListNotifications)
	protected.POST("/notifications", a.controller.CreateNotification, admin)

	users := protected.Group("/users", admin)
	users.GET("", a.controller.ListUsers)
	users.POST("", a.controller.CreateUser)
	users.PUT("/:id", a.controller.UpdateUser)
	users.PATCH("/:id/password", a.controller.UpdateUserPassword)
	users.DELETE("/:id", a.controller.DeleteUser)
}

func (a *API) ListenGracefulShutdown(ctx context.Context) {
	go func() {
		err := a.server.Start(a.server.Server.Addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()
	a.log.Infof("Listening on: %s", a.server.Server.Addr)

	<-ctx.Done()
	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		a.log.Errorf("shutdown: %v", err)
	}

	longShutdown := make(chan struct{}, 1)

	go func() {
		time.Sleep(a.gracefulTimeout)
		longShutdown <- struct{}{}
	}()

	select {
	case <-shutdownCtx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			a.log.Info("server shutdown completed")
		} else {
			a.log.Errorf("server shutdown: %v", ctx.Err())
		}
	case <-longShutdown:
		a.log.Infof("finished")
	}
}
