package temporal

import (
	"context"
	"time"
)

// Scheduler manages the Temporal schedule that triggers collection runs.
type Scheduler interface {
	// CreateScanSchedule creates a schedule that triggers BurnReportWorkflow
	// on the given interval.
	CreateScanSchedule(ctx context.Context, input BurnReportInput, interval time.Duration) error

	// DeleteScanSchedule deletes the collection schedule.
	DeleteScanSchedule(ctx context.Context) error

	// PauseScanSchedule pauses the collection schedule.
	PauseScanSchedule(ctx context.Context, note string) error

	// ResumeScanSchedule resumes a paused collection schedule.
	ResumeScanSchedule(ctx context.Context, note string) error

	// TriggerScanSchedule requests an immediate run outside the schedule.
	TriggerScanSchedule(ctx context.Context) error
}

// scanScheduleID is the fixed Temporal schedule ID for the collection run.
// There is exactly one scheduled scan per deployment.
const scanScheduleID = "burnwatch-scan"
