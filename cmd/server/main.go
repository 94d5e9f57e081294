package main

import (
	"context"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/swagger"
	"github.com/playforge/updatedist/internal/app"
	"github.com/playforge/updatedist/internal/delivery/http/handlers"
	"github.com/playforge/updatedist/internal/delivery/http/routers"
	deliverygrpc "github.com/playforge/updatedist/internal/delivery/grpc"
	"github.com/playforge/updatedist/internal/pkg/auth"
	"github.com/playforge/updatedist/internal/pkg/config"
	"github.com/playforge/updatedist/internal/usecases"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// main wires the HTTP entrypoint: the fiber app, the route table, and
// the cron-driven orphan sweep, all assembled through fx.
func main() {
	fx.New(
		app.Module(),
		fx.Provide(
			handlers.NewVersionHandler,
			handlers.NewManifestHandler,
			handlers.NewJobsHandler,
		),
		fx.Invoke(registerServer),
	).Run()
}

func registerServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	introspector auth.TokenIntrospector,
	cleanup usecases.CleanupService,
	versions usecases.VersionService,
	uploads usecases.UploadCoordinator,
	versionHandler *handlers.VersionHandler,
	manifestHandler *handlers.ManifestHandler,
	jobsHandler *handlers.JobsHandler,
) {
	fiberApp := fiber.New(fiber.Config{})
	fiberApp.Use(logger.New())
	fiberApp.Use(cors.New())
	fiberApp.Get("/swagger/*", swagger.HandlerDefault)
	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routers.SetupRoutes(fiberApp, introspector, versionHandler, manifestHandler, jobsHandler)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(deliverygrpc.AuthInterceptor(introspector)))
	deliverygrpc.RegisterUpdateServiceServer(grpcServer, deliverygrpc.NewUpdateService(versions, uploads))

	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@every 5m", func() {
		if err := cleanup.SweepOrphanedUploads(context.Background()); err != nil {
			log.Warn("orphan sweep failed", zap.Error(err))
		}
	}); err != nil {
		log.Fatal("failed to schedule orphan sweep", zap.Error(err))
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sweeper.Start()
			go func() {
				if err := fiberApp.Listen(":" + cfg.API.Port); err != nil {
					log.Error("fiber server stopped", zap.Error(err))
				}
			}()

			lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
			if err != nil {
				return err
			}
			go func() {
				if err := grpcServer.Serve(lis); err != nil {
					log.Error("grpc server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			grpcServer.GracefulStop()
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return fiberApp.ShutdownWithContext(shutdownCtx)
		},
	})
}
