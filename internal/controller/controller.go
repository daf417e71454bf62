package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/service"
	"github.com/rinesakuci/campus-hub/internal/storage"
	"github.com/rinesakuci/campus-hub/internal/storage/redis"
	"github.com/rinesakuci/campus-hub/internal/util"
)

type Controller struct {
	zapLogger   *zap.SugaredLogger
	authService *service.AuthService
	notify      *service.NotifyService
	storage     storage.Storage
	docs        storage.DocumentStorage
	courseCache *redis.CourseCache
	serverCfg   *util.ServerConfig
}

// NewController wires the HTTP handlers. courseCache may be nil, in which
// case course listings always hit the relational store.
func NewController(
	logger *zap.SugaredLogger,
	authService *service.AuthService,
	notify *service.NotifyService,
	store storage.Storage,
	docs storage.DocumentStorage,
	courseCache *redis.CourseCache,
	serverCfg *util.ServerConfig,
) *Controller {
	return &Controller{
		zapLogger:   logger,
		authService: authService,
		notify:      notify,
		storage:     store,
		docs:        docs,
		courseCache: courseCache,
		serverCfg:   serverCfg,
	}
}

// (GET /health).
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, models.OkResponse{Ok: true})
}

func identityFrom(ctx echo.Context) (*models.Identity, error) {
	identity, ok := ctx.Get(models.MwIdentityKey).(*models.Identity)
	if !ok || identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return identity, nil
}
