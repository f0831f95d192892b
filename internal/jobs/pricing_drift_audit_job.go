package jobs

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const auditPageSize = 500

type driftAuditor interface {
	Handle(ctx context.Context, cmd commands.AuditPricingDriftCommand) (commands.AuditPricingDriftResult, error)
}

// PricingDriftAuditJob periodically re-derives the breakdowns of recently
// placed orders with the config version each was priced under.
type PricingDriftAuditJob struct {
	handler  driftAuditor
	schedule string
	window   time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

// NewPricingDriftAuditJob creates the audit job. schedule is a cron spec with
// a seconds field; every run checks the orders placed within window.
func NewPricingDriftAuditJob(handler driftAuditor, schedule string, window time.Duration, logger *slog.Logger) *PricingDriftAuditJob {
	return &PricingDriftAuditJob{
		handler:  handler,
		schedule: schedule,
		window:   window,
		timeout:  time.Minute,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "pricing_drift_audit_job"),
		now:      time.Now,
	}
}

// Start schedules the audit.
func (j *PricingDriftAuditJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_ = j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pricing drift audit job started",
		"schedule", j.schedule, "window", j.window.String())
	return nil
}

// RunOnce audits the current window immediately.
func (j *PricingDriftAuditJob) RunOnce(ctx context.Context) error {
	cmd, err := commands.NewAuditPricingDriftCommand(j.now().Add(-j.window), auditPageSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Pricing drift audit misconfigured", "error", err)
		return err
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Pricing drift audit failed", "error", err)
		return err
	}

	level := slog.LevelInfo
	if result.Drifted > 0 || result.Skipped > 0 {
		level = slog.LevelWarn
	}
	j.logger.Log(ctx, level, "Pricing drift audit finished",
		"checked", result.Checked,
		"drifted", result.Drifted,
		"skipped", result.Skipped,
	)
	return nil
}

// Stop stops the scheduler and waits for a running audit to finish.
func (j *PricingDriftAuditJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Pricing drift audit job stopped")
}
