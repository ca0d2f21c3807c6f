package worker

// receipt_worker.go
// Processes receipt-delivery jobs from QueueReceipt: mails the rendered
// plain-text receipt to the customer via SMTP.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wesglu/checkbox/internal/infra"

	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ReceiptWorker processes receipt-delivery jobs from QueueReceipt.
type ReceiptWorker struct {
	mailer *infra.Mailer
}

// NewReceiptWorker creates a ReceiptWorker with the provided SMTP mailer.
func NewReceiptWorker(mailer *infra.Mailer) *ReceiptWorker {
	return &ReceiptWorker{mailer: mailer}
}

// Process sends the receipt text to the customer. A returned error moves the
// job to the dead letter queue.
func (w *ReceiptWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("receipt_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("receipt_worker: empty to_email — skipping")
		return nil
	}

	if err := w.mailer.SendReceipt(payload.ToEmail, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("receipt_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("receipt_worker: receipt sent")
	return nil
}
