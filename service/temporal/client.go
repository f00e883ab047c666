package temporal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"
)

// Client is a production implementation of Scheduler that talks to Temporal.
type Client struct {
	client    client.Client
	taskQueue string
	logger    *slog.Logger
}

// NewClient creates a new Temporal client.
func NewClient(host, namespace, taskQueue string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("connecting to temporal",
		"host", host,
		"namespace", namespace,
		"task_queue", taskQueue,
	)

	c, err := client.Dial(client.Options{
		HostPort:  host,
		Namespace: namespace,
		Logger:    newTemporalLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Temporal: %w", err)
	}

	return &Client{
		client:    c,
		taskQueue: taskQueue,
		logger:    logger,
	}, nil
}

// Close closes the underlying Temporal connection.
func (c *Client) Close() {
	c.client.Close()
}

// CreateScanSchedule creates the Temporal schedule for collection runs.
func (c *Client) CreateScanSchedule(ctx context.Context, input BurnReportInput, interval time.Duration) error {
	c.logger.Debug("creating scan schedule",
		"schedule_id", scanScheduleID,
		"wallet", input.WalletAddress,
		"mint", input.TokenMint,
		"interval", interval,
	)

	_, err := c.client.ScheduleClient().Create(ctx, client.ScheduleOptions{
		ID: scanScheduleID,
		Spec: client.ScheduleSpec{
			Intervals: []client.ScheduleIntervalSpec{
				{Every: interval},
			},
		},
		Action: &client.ScheduleWorkflowAction{
			ID:        fmt.Sprintf("burn-report-%s", input.TokenMint),
			Workflow:  "BurnReportWorkflow",
			TaskQueue: c.taskQueue,
			Args:      []interface{}{input},
		},
		Memo: map[string]interface{}{
			"wallet_address": input.WalletAddress,
			"token_mint":     input.TokenMint,
			"created_by":     "burnwatch",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create schedule %q: %w", scanScheduleID, err)
	}

	c.logger.Info("created scan schedule", "schedule_id", scanScheduleID, "interval", interval)
	return nil
}

// DeleteScanSchedule deletes the collection schedule.
func (c *Client) DeleteScanSchedule(ctx context.Context) error {
	handle := c.client.ScheduleClient().GetHandle(ctx, scanScheduleID)
	if err := handle.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete schedule %q: %w", scanScheduleID, err)
	}
	c.logger.Info("deleted scan schedule", "schedule_id", scanScheduleID)
	return nil
}

// PauseScanSchedule pauses the collection schedule.
func (c *Client) PauseScanSchedule(ctx context.Context, note string) error {
	handle := c.client.ScheduleClient().GetHandle(ctx, scanScheduleID)
	if err := handle.Pause(ctx, client.SchedulePauseOptions{Note: note}); err != nil {
		return fmt.Errorf("failed to pause schedule %q: %w", scanScheduleID, err)
	}
	c.logger.Info("paused scan schedule", "schedule_id", scanScheduleID)
	return nil
}

// ResumeScanSchedule resumes a paused collection schedule.
func (c *Client) ResumeScanSchedule(ctx context.Context, note string) error {
	handle := c.client.ScheduleClient().GetHandle(ctx, scanScheduleID)
	if err := handle.Unpause(ctx, client.ScheduleUnpauseOptions{Note: note}); err != nil {
		return fmt.Errorf("failed to resume schedule %q: %w", scanScheduleID, err)
	}
	c.logger.Info("resumed scan schedule", "schedule_id", scanScheduleID)
	return nil
}

// TriggerScanSchedule requests an immediate collection run.
func (c *Client) TriggerScanSchedule(ctx context.Context) error {
	handle := c.client.ScheduleClient().GetHandle(ctx, scanScheduleID)
	if err := handle.Trigger(ctx, client.ScheduleTriggerOptions{}); err != nil {
		return fmt.Errorf("failed to trigger schedule %q: %w", scanScheduleID, err)
	}
	c.logger.Info("triggered scan schedule", "schedule_id", scanScheduleID)
	return nil
}

// temporalLogger adapts slog to Temporal's logger interface.
type temporalLogger struct {
	logger *slog.Logger
}

func newTemporalLogger(logger *slog.Logger) *temporalLogger {
	return &temporalLogger{logger: logger}
}

func (l *temporalLogger) Debug(msg string, keyvals ...interface{}) {
	l.logger.Debug(msg, keyvals...)
}

func (l *temporalLogger) Info(msg string, keyvals ...interface{}) {
	l.logger.Info(msg, keyvals...)
}

func (l *temporalLogger) Warn(msg string, keyvals ...interface{}) {
	l.logger.Warn(msg, keyvals...)
}

func (l *temporalLogger) Error(msg string, keyvals ...interface{}) {
	l.logger.Error(msg, keyvals...)
}
