package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DeadLetterKey holds receipt deliveries that failed processing. Nothing
// retries them automatically: an operator drains the list once SMTP is back.
const DeadLetterKey = "dlq:" + QueueReceipt

// DeadReceipt is one failed delivery, kept with enough context to replay it.
type DeadReceipt struct {
	Receipt  ReceiptJobPayload `json:"receipt"`
	Reason   string            `json:"reason"`
	FailedAt time.Time         `json:"failed_at"`
}

// ParkDeadReceipt moves a failed receipt job onto the dead letter list.
// A payload that no longer unmarshals parks with empty fields; the reason
// records what went wrong either way.
func ParkDeadReceipt(ctx context.Context, rdb *redis.Client, raw json.RawMessage, cause error) {
	var payload ReceiptJobPayload
	_ = json.Unmarshal(raw, &payload)

	entry := DeadReceipt{
		Receipt:  payload,
		Reason:   cause.Error(),
		FailedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("dlq: failed to marshal dead receipt")
		return
	}
	if err := rdb.LPush(ctx, DeadLetterKey, data).Err(); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("dlq: failed to park receipt")
		return
	}

	log.Warn().
		Str("to", payload.ToEmail).
		Str("reason", entry.Reason).
		Msg("dlq: receipt delivery parked")
}

// DLQLength reports how many deliveries are parked, for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, DeadLetterKey).Result()
}
