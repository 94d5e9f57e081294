package main

import (
	"context"
	"time"

	"github.com/playforge/updatedist/internal/app"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/internal/pkg/config"
	"github.com/playforge/updatedist/internal/usecases"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// main is the BRPOP-style job consumer: lease, dispatch by kind,
// complete or fail — the same loop shape as the teacher's worker, now
// driven by the typed JobQueue instead of a raw redis list.
func main() {
	fx.New(
		app.Module(),
		fx.Invoke(registerWorker),
	).Run()
}

func registerWorker(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, q repositories.JobQueue, worker usecases.PipelineWorker) {
	if !cfg.RunsWorkers() {
		log.Info("UPDATES_QUEUE_PROCESS < 1, worker loop disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for i := int64(0); i < cfg.Queue.ProcessCount; i++ {
				go runLoop(ctx, log, q, worker)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func runLoop(ctx context.Context, log *zap.Logger, q repositories.JobQueue, worker usecases.PipelineWorker) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		lease, err := q.LeaseNext(ctx)
		if err != nil {
			log.Warn("lease next failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if lease == nil {
			continue
		}

		payload := lease.Payload()
		if err := dispatch(ctx, worker, payload, lease); err != nil {
			log.Error("job failed", zap.String("job_id", lease.JobID()), zap.String("kind", string(payload.Kind)), zap.Error(err))
			if failErr := lease.Fail(ctx, err); failErr != nil {
				log.Error("failed to mark job failed", zap.Error(failErr))
			}
			continue
		}

		if err := lease.Complete(ctx); err != nil {
			log.Error("failed to mark job complete", zap.Error(err))
		}
	}
}

func dispatch(ctx context.Context, worker usecases.PipelineWorker, payload entities.JobPayload, lease repositories.Lease) error {
	switch payload.Kind {
	case entities.JobProcessUpload:
		return worker.ProcessUpload(ctx, payload, lease)
	case entities.JobProcessPublish:
		return worker.ProcessPublish(ctx, payload, lease)
	default:
		return nil
	}
}
