package common

const (
	RedisStreamBiasRecalculate = "bias.recalculate"

	RedisStreamGroup    = "bias-engine-group"
	RedisStreamConsumer = "bias-engine-consumer"

	RedisStreamPayloadField = "payload"
)

// Run triggers recorded on every run history row.
const (
	TriggerCLI        = "cli"
	TriggerCron       = "cron"
	TriggerStream     = "stream"
	TriggerAPI        = "api"
	TriggerHighImpact = "high_impact"
)
