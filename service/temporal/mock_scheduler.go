package temporal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockScheduler is a mock implementation of Scheduler for testing.
type MockScheduler struct {
	mu        sync.Mutex
	created   bool
	paused    bool
	interval  time.Duration
	input     BurnReportInput
	triggers  int
	createErr error
	deleteErr error
}

// NewMockScheduler creates a new MockScheduler.
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

// CreateScanSchedule records that the schedule was created.
func (m *MockScheduler) CreateScanSchedule(ctx context.Context, input BurnReportInput, interval time.Duration) error {
	if m.createErr != nil {
		return m.createErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.created = true
	m.paused = false
	m.interval = interval
	m.input = input
	return nil
}

// DeleteScanSchedule records that the schedule was deleted.
func (m *MockScheduler) DeleteScanSchedule(ctx context.Context) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.created {
		return fmt.Errorf("schedule %q not found", scanScheduleID)
	}
	m.created = false
	return nil
}

// PauseScanSchedule records that the schedule was paused.
func (m *MockScheduler) PauseScanSchedule(ctx context.Context, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.created {
		return fmt.Errorf("schedule %q not found", scanScheduleID)
	}
	m.paused = true
	return nil
}

// ResumeScanSchedule records that the schedule was resumed.
func (m *MockScheduler) ResumeScanSchedule(ctx context.Context, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.created {
		return fmt.Errorf("schedule %q not found", scanScheduleID)
	}
	m.paused = false
	return nil
}

// TriggerScanSchedule records an immediate run request.
func (m *MockScheduler) TriggerScanSchedule(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.created {
		return fmt.Errorf("schedule %q not found", scanScheduleID)
	}
	m.triggers++
	return nil
}

// SetCreateError makes CreateScanSchedule return an error.
func (m *MockScheduler) SetCreateError(err error) {
	m.createErr = err
}

// SetDeleteError makes DeleteScanSchedule return an error.
func (m *MockScheduler) SetDeleteError(err error) {
	m.deleteErr = err
}

// ScheduleExists reports whether the schedule has been created.
func (m *MockScheduler) ScheduleExists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

// SchedulePaused reports whether the schedule is paused.
func (m *MockScheduler) SchedulePaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// ScheduleInterval returns the interval the schedule was created with.
func (m *MockScheduler) ScheduleInterval() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval, m.created
}

// TriggerCount returns the number of immediate runs requested.
func (m *MockScheduler) TriggerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.triggers
}

// Reset clears all state and errors.
func (m *MockScheduler) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = false
	m.paused = false
	m.interval = 0
	m.input = BurnReportInput{}
	m.triggers = 0
	m.createErr = nil
	m.deleteErr = nil
}
