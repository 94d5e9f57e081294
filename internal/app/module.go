// Package app assembles the process-singleton handles (Mongo, Redis,
// blob stores, core usecases) that every entrypoint needs, via
// go.uber.org/fx — the teacher's own indirect dependency, promoted to
// direct and put to its intended use.
package app

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/internal/infrastructure/cache"
	"github.com/playforge/updatedist/internal/infrastructure/catalog"
	"github.com/playforge/updatedist/internal/infrastructure/queue"
	"github.com/playforge/updatedist/internal/infrastructure/storage"
	"github.com/playforge/updatedist/internal/pkg/auth"
	"github.com/playforge/updatedist/internal/pkg/config"
	"github.com/playforge/updatedist/internal/usecases"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const mongoDatabase = "updates"

// InputStore and OutputStore distinguish the two BlobStore handles fx
// must keep separate instances of — named per repositories.Store.
type InputStore struct {
	repositories.BlobStore
}

type OutputStore struct {
	repositories.BlobStore
}

// Module provides every process-singleton dependency shared by
// cmd/server and cmd/worker.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideMongoClient,
			provideRedisClient,
			provideCatalog,
			provideCache,
			provideQueue,
			provideInputStore,
			provideOutputStore,
			provideIntrospector,
			provideUploadCoordinator,
			usecases.NewManifestResolver,
			usecases.NewServerDirectory,
			provideVersionService,
			provideCleanupService,
			providePipelineWorker,
		),
	)
}

func provideConfig() *config.Config {
	return config.Load()
}

func provideLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func provideMongoClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing mongo client")
			return client.Disconnect(ctx)
		},
	})
	return client, nil
}

func provideRedisClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Username: cfg.Redis.User,
		Password: cfg.Redis.Pass,
	})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing redis client")
			return client.Close()
		},
	})
	return client
}

func provideCatalog(client *mongo.Client) repositories.CatalogStore {
	return catalog.NewMongo(client, mongoDatabase)
}

func provideCache(client *redis.Client) repositories.ManifestCache {
	return cache.NewRedisCache(client)
}

func provideQueue(cfg *config.Config, client *redis.Client) repositories.JobQueue {
	return queue.NewRedisQueue(client, cfg.Queue.Name)
}

func provideInputStore(cfg *config.Config) (InputStore, error) {
	s, err := storage.New(storage.Config{
		Provider:        storage.Provider(cfg.Input.Provider),
		BasePath:        cfg.Input.BasePath,
		Bucket:          cfg.Input.Bucket,
		Subpath:         cfg.Input.Subpath,
		Region:          cfg.Input.Region,
		AccessKeyID:     cfg.Input.AccessKeyID,
		SecretAccessKey: cfg.Input.SecretAccessKey,
		CredentialsJSON: []byte(cfg.Input.CredentialsJSON),
	})
	return InputStore{s}, err
}

func provideOutputStore(cfg *config.Config) (OutputStore, error) {
	s, err := storage.New(storage.Config{
		Provider:        storage.Provider(cfg.Output.Provider),
		BasePath:        cfg.Output.BasePath,
		Bucket:          cfg.Output.Bucket,
		Subpath:         cfg.Output.Subpath,
		Region:          cfg.Output.Region,
		AccessKeyID:     cfg.Output.AccessKeyID,
		SecretAccessKey: cfg.Output.SecretAccessKey,
		CredentialsJSON: []byte(cfg.Output.CredentialsJSON),
	})
	return OutputStore{s}, err
}

func provideIntrospector(cfg *config.Config) auth.TokenIntrospector {
	return auth.NewHTTPIntrospector(cfg.OpenID.IssuerURL, cfg.OpenID.ClientID, cfg.OpenID.ClientSecret)
}

func provideUploadCoordinator(catalog repositories.CatalogStore, in InputStore, q repositories.JobQueue, log *zap.Logger) usecases.UploadCoordinator {
	return usecases.NewUploadCoordinator(catalog, in.BlobStore, q, log)
}

func provideVersionService(catalog repositories.CatalogStore, q repositories.JobQueue, log *zap.Logger) usecases.VersionService {
	return usecases.NewVersionService(catalog, q, log)
}

func provideCleanupService(catalog repositories.CatalogStore, in InputStore, log *zap.Logger) usecases.CleanupService {
	return usecases.NewCleanupService(catalog, in.BlobStore, log)
}

func providePipelineWorker(catalog repositories.CatalogStore, in InputStore, out OutputStore, log *zap.Logger) usecases.PipelineWorker {
	return usecases.NewPipelineWorker(catalog, in.BlobStore, out.BlobStore, "/tmp/updatedist", log)
}
