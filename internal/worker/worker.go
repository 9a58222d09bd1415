package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/ovalstats/cricket-data-api/internal/config"
	"github.com/ovalstats/cricket-data-api/internal/service"
	"github.com/ovalstats/cricket-data-api/internal/tasks"
	"go.uber.org/zap"
)

// RunWorkers runs the asynq server processing sync tasks and the scheduler
// enqueueing them on the configured interval. It blocks until ctx is
// cancelled or either component fails.
func RunWorkers(ctx context.Context, cfg *config.Config, syncService *service.SyncService, logger *zap.Logger) error {
	redisConnOpts := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(
		redisConnOpts,
		asynq.Config{
			// Sync runs are serialized: resource types write disjoint
			// partitions, but one full run at a time is all the upstream
			// provider needs to see.
			Concurrency: 1,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Named("AsynqServerErrorHandler").Error("Asynq task processing failed",
					zap.String("task_type", task.Type()),
					zap.ByteString("payload", task.Payload()),
					zap.Error(err),
				)
			}),
			Logger: NewAsynqLoggerAdapter(logger.Named("AsynqServer")),
		},
	)

	mux := asynq.NewServeMux()
	syncHandler := tasks.NewSyncRunHandler(syncService, logger)
	mux.HandleFunc(tasks.TypeSyncRun, syncHandler.ProcessTask)

	errChan := make(chan error, 2)

	go func() {
		logger.Info("Starting Asynq Server...")
		if err := srv.Run(mux); err != nil {
			errChan <- fmt.Errorf("asynq server error: %w", err)
			return
		}
		logger.Info("Asynq Server stopped.")
	}()

	scheduler := asynq.NewScheduler(
		redisConnOpts,
		&asynq.SchedulerOpts{
			Logger: NewAsynqLoggerAdapter(logger.Named("AsynqScheduler")),
		},
	)

	syncTask, err := tasks.NewSyncRunTask(cfg.Sync.Interval)
	if err != nil {
		return fmt.Errorf("scheduler task creation error: %w", err)
	}

	schedule := fmt.Sprintf("@every %s", cfg.Sync.Interval)
	entryID, err := scheduler.Register(schedule, syncTask)
	if err != nil {
		return fmt.Errorf("scheduler registration error: %w", err)
	}
	logger.Info("Registered periodic sync run",
		zap.String("entry_id", entryID),
		zap.String("schedule", schedule),
	)

	go func() {
		logger.Info("Starting Asynq Scheduler...")
		if err := scheduler.Run(); err != nil {
			errChan <- fmt.Errorf("asynq scheduler error: %w", err)
			return
		}
		logger.Info("Asynq Scheduler stopped.")
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down Asynq Scheduler...")
		scheduler.Shutdown()
		logger.Info("Shutting down Asynq Server...")
		srv.Shutdown()
		return nil
	case err := <-errChan:
		scheduler.Shutdown()
		srv.Shutdown()
		return err
	}
}

type asynqLoggerAdapter struct {
	logger *zap.Logger
}

func NewAsynqLoggerAdapter(logger *zap.Logger) *asynqLoggerAdapter {
	return &asynqLoggerAdapter{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

func (l *asynqLoggerAdapter) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}
func (l *asynqLoggerAdapter) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}
func (l *asynqLoggerAdapter) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}
func (l *asynqLoggerAdapter) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}
func (l *asynqLoggerAdapter) Fatal(args ...interface{}) {
	l.logger.Fatal(fmt.Sprint(args...))
}
