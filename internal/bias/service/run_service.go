package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/repository"
	"golang-fundamental-bias/internal/bias/strategy"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/common"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/metrics"
	"golang-fundamental-bias/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RunService executes pipelines and keeps their run history.
type RunService interface {
	Execute(ctx context.Context, req dto.RunRequest) (*entity.BiasRun, error)
	Enqueue(ctx context.Context, mode entity.RunMode, trigger string) (string, error)
	Recalculate(ctx context.Context, trigger string) error
	Modes() []entity.RunMode
	FindRecent(ctx context.Context, limit int) ([]dto.RunResponse, error)
	FindByRunID(ctx context.Context, runID string) (*dto.RunResponse, error)
}

// NewRunService creates a new RunService.
func NewRunService(
	runRepo repository.BiasRunRepository,
	publisher TriggerPublisher,
	log *logger.Logger,
	recorder *metrics.Recorder,
	strategies []strategy.RunStrategy,
) RunService {
	strategyMap := make(map[entity.RunMode]strategy.RunStrategy)
	for _, s := range strategies {
		strategyMap[s.GetType()] = s
	}

	return &runService{
		runRepo:    runRepo,
		publisher:  publisher,
		logger:     log,
		metrics:    recorder,
		strategies: strategyMap,
		now:        utils.TimeNowUTC,
	}
}

type runService struct {
	runRepo    repository.BiasRunRepository
	publisher  TriggerPublisher
	logger     *logger.Logger
	metrics    *metrics.Recorder
	strategies map[entity.RunMode]strategy.RunStrategy
	now        func() time.Time
}

// Execute runs one pipeline and records it. The returned run is non-nil
// whenever a history row was written, even when the pipeline failed.
func (s *runService) Execute(ctx context.Context, req dto.RunRequest) (*entity.BiasRun, error) {
	runStrategy, ok := s.strategies[req.Mode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dto.ErrUnknownMode, req.Mode)
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if req.Trigger == "" {
		req.Trigger = common.TriggerCLI
	}

	run := &entity.BiasRun{
		RunID:     req.RunID,
		Mode:      req.Mode,
		Trigger:   req.Trigger,
		Status:    entity.StatusRunning,
		StartedAt: s.now(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run history: %w", err)
	}

	ctx = logger.WithRunID(ctx, run.RunID)
	s.logger.InfoContext(ctx, "Run started", logger.StringField("mode", string(run.Mode)), logger.StringField("trigger", run.Trigger))

	outcome, runErr := runStrategy.Execute(ctx, req)
	if runErr != nil {
		s.logger.ErrorContext(ctx, "Run failed", logger.ErrorField(runErr), logger.StringField("mode", string(run.Mode)))
		run.Status = entity.StatusFailed
		run.ErrorMessage = sql.NullString{String: runErr.Error(), Valid: true}
	} else {
		run.Status = entity.StatusCompleted
	}
	if outcome.Signal != "" {
		run.Signal = sql.NullString{String: string(outcome.Signal), Valid: true}
	}
	if outcome.Output != nil {
		if output, err := json.Marshal(outcome.Output); err == nil {
			run.Output = datatypes.JSON(output)
		} else {
			s.logger.WarnContext(ctx, "Failed to marshal run output", logger.ErrorField(err))
		}
	}

	completedAt := s.now()
	run.CompletedAt = sql.NullTime{Time: completedAt, Valid: true}
	elapsed := completedAt.Sub(run.StartedAt)
	s.metrics.RecordRun(string(run.Mode), string(run.Status), elapsed.Seconds())

	// The run context may already be past its deadline.
	updateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.runRepo.Update(updateCtx, run); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update run history", logger.ErrorField(err))
	}

	s.logger.InfoContext(ctx, "Run finished",
		logger.StringField("mode", string(run.Mode)),
		logger.StringField("status", string(run.Status)),
		logger.Field("elapsed", elapsed),
	)
	if runErr != nil {
		return run, fmt.Errorf("run %s failed: %w", run.RunID, runErr)
	}
	return run, nil
}

// Enqueue publishes a run request on the recalculation stream and returns its id.
func (s *runService) Enqueue(ctx context.Context, mode entity.RunMode, trigger string) (string, error) {
	if _, ok := s.strategies[mode]; !ok {
		return "", fmt.Errorf("%w: %s", dto.ErrUnknownMode, mode)
	}
	if s.publisher == nil {
		return "", fmt.Errorf("no trigger stream configured")
	}

	req := dto.RunRequest{RunID: uuid.NewString(), Mode: mode, Trigger: trigger}
	if err := s.publisher.Publish(ctx, req); err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "Run enqueued",
		logger.StringField("run_id", req.RunID),
		logger.StringField("mode", string(mode)),
		logger.StringField("trigger", trigger),
	)
	return req.RunID, nil
}

// Recalculate enqueues an hourly recompute.
func (s *runService) Recalculate(ctx context.Context, trigger string) error {
	_, err := s.Enqueue(ctx, entity.ModeHourly, trigger)
	return err
}

// Modes returns the run modes with a registered strategy, sorted.
func (s *runService) Modes() []entity.RunMode {
	modes := make([]entity.RunMode, 0, len(s.strategies))
	for mode := range s.strategies {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

func (s *runService) FindRecent(ctx context.Context, limit int) ([]dto.RunResponse, error) {
	runs, err := s.runRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RunResponse, 0, len(runs))
	for i := range runs {
		out = append(out, toRunResponse(&runs[i]))
	}
	return out, nil
}

func (s *runService) FindByRunID(ctx context.Context, runID string) (*dto.RunResponse, error) {
	run, err := s.runRepo.FindByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	resp := toRunResponse(run)
	return &resp, nil
}

func toRunResponse(run *entity.BiasRun) dto.RunResponse {
	resp := dto.RunResponse{
		RunID:        run.RunID,
		Mode:         string(run.Mode),
		Trigger:      run.Trigger,
		Status:       string(run.Status),
		Signal:       run.Signal.String,
		StartedAt:    run.StartedAt,
		ErrorMessage: run.ErrorMessage.String,
	}
	if run.CompletedAt.Valid {
		resp.CompletedAt = utils.ToPointer(run.CompletedAt.Time)
	}
	if len(run.Output) > 0 {
		resp.Output = json.RawMessage(run.Output)
	}
	return resp
}
