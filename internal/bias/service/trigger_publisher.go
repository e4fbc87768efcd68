package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/pkg/common"
	"golang-fundamental-bias/pkg/redis"

	goRedis "github.com/redis/go-redis/v9"
)

// TriggerPublisher enqueues run requests on the recalculation stream.
type TriggerPublisher interface {
	Publish(ctx context.Context, req dto.RunRequest) error
}

type redisTriggerPublisher struct {
	redisClient *redis.Client
	maxLen      int64
}

// NewRedisTriggerPublisher creates a publisher on the bias.recalculate stream.
func NewRedisTriggerPublisher(redisClient *redis.Client, maxLen int64) TriggerPublisher {
	return &redisTriggerPublisher{redisClient: redisClient, maxLen: maxLen}
}

func (p *redisTriggerPublisher) Publish(ctx context.Context, req dto.RunRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal run request: %w", err)
	}

	err = p.redisClient.XAdd(ctx, &goRedis.XAddArgs{
		Stream: common.RedisStreamBiasRecalculate,
		Values: map[string]interface{}{common.RedisStreamPayloadField: string(payload)},
		MaxLen: p.maxLen,
		Approx: true,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish run request: %w", err)
	}
	return nil
}
