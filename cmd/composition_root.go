package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"dispatch/internal/adapters/out/csvdataset"
	"dispatch/internal/adapters/out/filestore"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/carrierrepo"
	"dispatch/internal/adapters/out/redislock"
	"dispatch/internal/adapters/out/s3store"
	"dispatch/internal/adapters/out/traveltime"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. gormDB may be nil,
// in which case roster-backed handlers are unavailable and batches read hours
// from the prediction file (or 0).
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	engine     services.AssignmentEngine
	recorder   ports.RunRecorder
	logger     *slog.Logger
	batch      *batchState
}

// batchState is shared by copies of a root so every trigger contends for one lease.
type batchState struct {
	once sync.Once
	lock ports.BatchLock
	err  error
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, recorder ports.RunRecorder, logger *slog.Logger) CompositionRoot {
	root := CompositionRoot{
		cfg:      cfg,
		gormDB:   gormDB,
		engine:   services.NewAssignmentEngine(),
		recorder: recorder,
		logger:   logger,
		batch:    &batchState{},
	}
	if gormDB != nil {
		root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
	}
	return root
}

func (c *CompositionRoot) HasRoster() bool {
	return c.gormDB != nil
}

func (c *CompositionRoot) carrierUoWFactory() commands.CarrierUoWFactory {
	return FuncCarrierUoWFactory(func() commands.CarrierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAssignJobsCommandHandler() commands.AssignJobsCommandHandler {
	return commands.NewAssignJobsCommandHandler(c.engine, c.recorder)
}

func (c *CompositionRoot) CreateDispatchJobsCommandHandler() (commands.DispatchJobsCommandHandler, error) {
	estimator, err := traveltime.NewEstimator(traveltime.DefaultProfile())
	if err != nil {
		return commands.DispatchJobsCommandHandler{}, err
	}
	return commands.NewDispatchJobsCommandHandler(c.carrierUoWFactory(), estimator, c.engine, c.recorder), nil
}

func (c *CompositionRoot) CreateCreateCarrierCommandHandler() commands.CreateCarrierCommandHandler {
	return commands.NewCreateCarrierCommandHandler(c.carrierUoWFactory())
}

func (c *CompositionRoot) CreateResetCarrierHoursCommandHandler() commands.ResetCarrierHoursCommandHandler {
	return commands.NewResetCarrierHoursCommandHandler(c.carrierUoWFactory())
}

func (c *CompositionRoot) CreateGetAllCarriersQueryHandler() queries.GetAllCarriersQueryHandler {
	return queries.NewGetAllCarriersQueryHandler(c.gormDB)
}

// CreateRunBatchCommandHandler reads from S3 when S3_BUCKET is set and from
// LOCAL_DATA_DIR otherwise. The lease is held in Redis when REDIS_ADDR is set.
func (c *CompositionRoot) CreateRunBatchCommandHandler(ctx context.Context) (*commands.RunBatchCommandHandler, error) {
	codec := csvdataset.NewCodec()

	source, sink, err := c.batchStorage(ctx, codec.Extension())
	if err != nil {
		return nil, err
	}

	lock, err := c.BatchLock()
	if err != nil {
		return nil, err
	}

	var roster ports.CarrierRoster
	if c.gormDB != nil {
		roster = carrierrepo.NewGormCarrierRepository(c.gormDB)
	}

	return commands.NewRunBatchCommandHandler(commands.RunBatchDependencies{
		Source:   source,
		Sink:     sink,
		Codec:    codec,
		Lock:     lock,
		Roster:   roster,
		Engine:   c.engine,
		Recorder: c.recorder,
		Logger:   c.logger,
		Options: commands.BatchOptions{
			DeleteInput:  c.cfg.BatchDeleteInput,
			DeriveJobIDs: c.cfg.BatchDeriveJobIDs,
			LockTTL:      c.cfg.BatchLockTTL,
		},
	})
}

func (c *CompositionRoot) batchStorage(ctx context.Context, extension string) (ports.PredictionSource, ports.ResultSink, error) {
	if c.cfg.S3Bucket == "" {
		source, err := filestore.NewSource(filepath.Join(c.cfg.LocalDataDir, "predictions"), extension)
		if err != nil {
			return nil, nil, err
		}
		sink, err := filestore.NewSink(filepath.Join(c.cfg.LocalDataDir, "optimized"))
		if err != nil {
			return nil, nil, err
		}
		return source, sink, nil
	}

	client, err := s3store.NewClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	source, err := s3store.NewSource(client, c.cfg.S3Bucket, c.cfg.S3PredictionsPrefix, extension)
	if err != nil {
		return nil, nil, err
	}
	sink, err := s3store.NewSink(client, c.cfg.S3Bucket, c.cfg.S3OptimizedPrefix)
	if err != nil {
		return nil, nil, err
	}
	return source, sink, nil
}

// BatchLock returns the lease shared by every batch handler built from this
// root: Redis when REDIS_ADDR is set, otherwise one in-process lock.
func (c *CompositionRoot) BatchLock() (ports.BatchLock, error) {
	c.batch.once.Do(func() {
		if c.cfg.RedisAddr == "" {
			c.batch.lock = redislock.NewLocalLock()
			return
		}
		c.batch.lock, c.batch.err = redislock.NewLock(redis.NewClient(&redis.Options{Addr: c.cfg.RedisAddr}))
	})
	return c.batch.lock, c.batch.err
}

// CreateJobManager schedules the configured jobs. An empty schedule disables a job.
func (c *CompositionRoot) CreateJobManager(ctx context.Context) (*jobs.JobManager, error) {
	var batchJob *jobs.BatchAssignmentJob
	if c.cfg.BatchSchedule != "" {
		handler, err := c.CreateRunBatchCommandHandler(ctx)
		if err != nil {
			return nil, fmt.Errorf("batch handler: %w", err)
		}
		batchJob = jobs.NewBatchAssignmentJob(handler, c.cfg.BatchSchedule, c.cfg.MaxHours, c.logger)
	}

	var shiftJob *jobs.ShiftResetJob
	if c.cfg.ShiftResetSchedule != "" && c.HasRoster() {
		handler := c.CreateResetCarrierHoursCommandHandler()
		shiftJob = jobs.NewShiftResetJob(&handler, c.cfg.ShiftResetSchedule, c.logger)
	}

	return jobs.NewJobManager(batchJob, shiftJob), nil
}

type FuncCarrierUoWFactory func() commands.CarrierUoW

func (f FuncCarrierUoWFactory) Create() commands.CarrierUoW {
	return f()
}
