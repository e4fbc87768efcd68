package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/common"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/utils"

	"github.com/robfig/cron/v3"
)

// RunEnqueuer publishes run requests.
type RunEnqueuer interface {
	Enqueue(ctx context.Context, mode entity.RunMode, trigger string) (string, error)
}

// SchedulerService enqueues every pipeline on its cron schedule.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessSchedules(ctx context.Context, now time.Time)
	NextExecutions() map[entity.RunMode]time.Time
}

type modeSchedule struct {
	mode          entity.RunMode
	expression    string
	schedule      cron.Schedule
	nextExecution time.Time
}

type schedulerService struct {
	enqueuer        RunEnqueuer
	logger          *logger.Logger
	pollingInterval time.Duration

	mu        sync.Mutex
	schedules []*modeSchedule
}

// NewSchedulerService parses one cron expression per mode. Modes with an
// empty expression are not scheduled.
func NewSchedulerService(enqueuer RunEnqueuer, log *logger.Logger, pollingInterval time.Duration, specs map[entity.RunMode]string) (SchedulerService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	now := utils.TimeNowUTC()

	modes := make([]entity.RunMode, 0, len(specs))
	for mode := range specs {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })

	schedules := make([]*modeSchedule, 0, len(modes))
	for _, mode := range modes {
		expression := specs[mode]
		if expression == "" {
			continue
		}
		schedule, err := parser.Parse(expression)
		if err != nil {
			return nil, fmt.Errorf("invalid cron expression %q for %s: %w", expression, mode, err)
		}
		schedules = append(schedules, &modeSchedule{
			mode:          mode,
			expression:    expression,
			schedule:      schedule,
			nextExecution: schedule.Next(now),
		})
	}

	return &schedulerService{
		enqueuer:        enqueuer,
		logger:          log,
		pollingInterval: pollingInterval,
		schedules:       schedules,
	}, nil
}

// Start begins the periodic schedule processing loop.
func (s *schedulerService) Start(ctx context.Context) {
	for _, sch := range s.schedules {
		s.logger.Info("Pipeline scheduled",
			logger.StringField("mode", string(sch.mode)),
			logger.StringField("cron", sch.expression),
			logger.Field("next_execution", sch.nextExecution),
		)
	}

	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessSchedules(ctx, utils.TimeNowUTC())
		}
	}
}

// ProcessSchedules enqueues every mode that is due. A mode whose enqueue
// fails stays due and is retried on the next poll.
func (s *schedulerService) ProcessSchedules(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sch := range s.schedules {
		if now.Before(sch.nextExecution) {
			continue
		}

		runID, err := s.enqueuer.Enqueue(ctx, sch.mode, common.TriggerCron)
		if err != nil {
			s.logger.Error("Failed to enqueue scheduled run", logger.ErrorField(err), logger.StringField("mode", string(sch.mode)))
			continue
		}

		sch.nextExecution = sch.schedule.Next(now)
		s.logger.Info("Scheduled run enqueued",
			logger.StringField("run_id", runID),
			logger.StringField("mode", string(sch.mode)),
			logger.Field("next_execution", sch.nextExecution),
		)
	}
}

// NextExecutions returns the next due time of every scheduled mode.
func (s *schedulerService) NextExecutions() map[entity.RunMode]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[entity.RunMode]time.Time, len(s.schedules))
	for _, sch := range s.schedules {
		out[sch.mode] = sch.nextExecution
	}
	return out
}
