package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/notify"
	"github.com/vistara-fest/backend/pkg/queue"
)

// Exporter mirrors registrations into the organisers' spreadsheet.
type Exporter interface {
	AppendRegistration(ctx context.Context, p queue.RegistrationPayload) error
	MarkVerified(ctx context.Context, p queue.RegistrationPayload) error
}

// Source is the consumer side of the job queue.
type Source interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// Processor handles registration notification and export jobs.
type Processor struct {
	source   Source
	mailer   notify.Mailer
	alerter  notify.Alerter
	exporter Exporter
	backoff  time.Duration
	logger   *zap.Logger
}

// NewProcessor creates a processor. A nil exporter skips sheet jobs.
func NewProcessor(source Source, mailer notify.Mailer, alerter notify.Alerter, exporter Exporter, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		source:   source,
		mailer:   mailer,
		alerter:  alerter,
		exporter: exporter,
		backoff:  queue.RetryBackoff,
		logger:   logger,
	}
}

// Process executes one job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	var payload queue.RegistrationPayload
	if err := job.Decode(&payload); err != nil {
		return err
	}
	log := p.logger.With(zap.String("job_id", job.ID), zap.String("registration_id", payload.RegistrationID))

	switch job.Type {
	case queue.JobTypeVerifiedEmail:
		if payload.Email == "" {
			log.Warn("verified registration has no email, skipping")
			return nil
		}
		subject, html, text, err := notify.Render(notify.TemplateRegistrationVerified, payload)
		if err != nil {
			return err
		}
		if err := p.mailer.Send(ctx, payload.Email, subject, html, text); err != nil {
			return err
		}
		log.Info("verification email sent")
	case queue.JobTypeRegistrationAlert:
		if err := p.alerter.NewRegistration(ctx, payload); err != nil {
			return err
		}
	case queue.JobTypeSheetsAppend:
		if p.exporter == nil {
			log.Debug("sheets export disabled")
			return nil
		}
		return p.exporter.AppendRegistration(ctx, payload)
	case queue.JobTypeSheetsMarkVerified:
		if p.exporter == nil {
			log.Debug("sheets export disabled")
			return nil
		}
		return p.exporter.MarkVerified(ctx, payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker stopping")
			return
		default:
		}

		job, err := p.source.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.String("type", string(job.Type)), zap.Error(err))
			if reErr := p.source.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *Processor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
