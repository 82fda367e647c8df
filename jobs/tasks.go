package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/medbill/medbill/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload, opts ...asynq.Option) (*asynq.Task, error) {
	if payload.To == "" {
		return nil, fmt.Errorf("jobs: mail recipient required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data, opts...), nil
}

// Mailer delivers a rendered email.
type Mailer interface {
	Send(ctx context.Context, msg SendEmailPayload) error
}

// MailJob processes TaskTypeSendEmail tasks.
type MailJob struct {
	mailer  Mailer
	metrics *jobmetrics.Metrics
	logger  *slog.Logger
}

// NewMailJob constructs MailJob. metrics may be nil.
func NewMailJob(mailer Mailer, metrics *jobmetrics.Metrics, logger *slog.Logger) *MailJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &MailJob{mailer: mailer, metrics: metrics, logger: logger}
}

// Handle decodes the payload and sends the mail. Malformed payloads are not retried.
func (j *MailJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track(TaskTypeSendEmail)
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.To == "" {
		j.logger.Error("mail payload invalid", slog.Any("error", err))
		return tracker.End(fmt.Errorf("decode mail payload: %w", asynq.SkipRetry))
	}
	if err := j.mailer.Send(ctx, payload); err != nil {
		j.logger.Warn("mail send failed", slog.String("to", payload.To), slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger.Info("mail sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	return tracker.End(nil)
}
