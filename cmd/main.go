package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/rinesakuci/campus-hub/internal/api"
	"github.com/rinesakuci/campus-hub/internal/controller"
	"github.com/rinesakuci/campus-hub/internal/migrations"
	"github.com/rinesakuci/campus-hub/internal/service"
	"github.com/rinesakuci/campus-hub/internal/storage/mongo"
	"github.com/rinesakuci/campus-hub/internal/storage/postgres"
	"github.com/rinesakuci/campus-hub/internal/storage/redis"
	"github.com/rinesakuci/campus-hub/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	defer dbCleanup()

	if err := migrations.RunMigrations(db, logger, "./internal/migrations"); err != nil {
		logger.Fatal(zap.Error(err))
	}

	mongoDB, mongoCleanup, err := util.NewMongoDatabase(ctx, logger, util.NewMongoConfig())
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	defer mongoCleanup()

	redisClient, redisCleanup, err := util.NewRedisClient(logger, util.NewRedisConfig())
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	defer redisCleanup()

	store := postgres.NewStorage(db)
	docs := mongo.NewStorage(mongoDB)
	courseCache := redis.NewCourseCache(redisClient)

	tokenService := service.NewTokenService(util.NewTokenConfig())
	authService := service.NewAuthService(tokenService, store, logger)
	notifyService := service.NewNotifyService(docs, logger)

	if err := authService.SeedAdmin(ctx, util.NewAdminSeedConfig()); err != nil {
		logger.Fatal(zap.Error(err))
	}

	serverConfig := util.NewServerConfig()
	ctrl := controller.NewController(logger, authService, notifyService, store, docs, courseCache, serverConfig)

	apiServer := api.NewAPI(ctrl, tokenService, logger, serverConfig)
	apiServer.Run(ctx)
}
