package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/service"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/common"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/redis"
	"golang-fundamental-bias/pkg/utils"

	goRedis "github.com/redis/go-redis/v9"
)

// RunExecutor executes one run request.
type RunExecutor interface {
	Execute(ctx context.Context, req dto.RunRequest) (*entity.BiasRun, error)
}

// RedisConsumer executes the run requests published on the recalculation stream.
type RedisConsumer struct {
	cfg         *config.Config
	redisClient *redis.Client
	executor    RunExecutor
	logger      *logger.Logger
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(cfg *config.Config, redisClient *redis.Client, runService service.RunService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		cfg:         cfg,
		redisClient: redisClient,
		executor:    runService,
		logger:      log,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the consumer's processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.ProcessRecalculation, common.RedisStreamBiasRecalculate, c.cfg.Scheduler.RunTimeout)
}

// RegisterStreamHandler runs fn in a loop until the consumer stops.
func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// ProcessRecalculation reads and executes a single run request.
func (c *RedisConsumer) ProcessRecalculation(ctx context.Context) {
	streams, err := c.redisClient.XReadGroup(ctx, &goRedis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamBiasRecalculate, ">"},
		Count:    1,
		Block:    c.cfg.Scheduler.StreamReadTimeout,
	}).Result()
	if err != nil {
		// Expected while idle or shutting down.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, goRedis.Nil) {
			return
		}
		c.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}
	message := streams[0].Messages[0]
	defer c.ack(ctx, message.ID)

	req, err := DecodeRunRequest(message.Values)
	if err != nil {
		c.logger.Error("Failed to decode run request", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}
	if req.Trigger == "" {
		req.Trigger = common.TriggerStream
	}

	if _, err := c.executor.Execute(ctx, req); err != nil {
		c.logger.Error("Stream run failed", logger.ErrorField(err), logger.Field("message_id", message.ID), logger.StringField("run_id", req.RunID))
	}
}

func (c *RedisConsumer) ack(ctx context.Context, id string) {
	ackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := c.redisClient.XAck(ackCtx, common.RedisStreamBiasRecalculate, common.RedisStreamGroup, id).Err(); err != nil {
		c.logger.Error("Failed to acknowledge message", logger.ErrorField(err), logger.Field("message_id", id))
	}
}

// DecodeRunRequest reads the JSON payload field of a stream message.
func DecodeRunRequest(values map[string]interface{}) (dto.RunRequest, error) {
	var req dto.RunRequest
	raw, ok := values[common.RedisStreamPayloadField].(string)
	if !ok {
		return req, errors.New("field 'payload' not found or not a string in stream message")
	}
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return req, err
	}
	if req.Mode == "" {
		return req, errors.New("run request has no mode")
	}
	return req, nil
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
