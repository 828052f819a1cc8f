package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ganado/internal/config"
	"github.com/mamadbah2/ganado/internal/domain/models"
	"github.com/mamadbah2/ganado/internal/service/reporting"
)

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Reconciliation(ctx context.Context, window reporting.Window) (models.ReconciliationSnapshot, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(models.ReconciliationSnapshot), args.Error(1)
}

func (m *MockReporter) FormatReconciliation(snap models.ReconciliationSnapshot) string {
	return "resumen " + snap.Window
}

type MockSnapshots struct {
	mock.Mock
}

func (m *MockSnapshots) SaveSnapshot(ctx context.Context, snapshot models.ReconciliationSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyOwner(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

var reportingCfg = config.ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "UTC", Currency: "COP"}

func TestRunWeeklyReport(t *testing.T) {
	ctx := context.Background()
	rep := new(MockReporter)
	snaps := new(MockSnapshots)
	notifier := new(MockNotifier)
	snap := models.ReconciliationSnapshot{Window: "week"}

	rep.On("Reconciliation", ctx, reporting.WindowWeek).Return(snap, nil)
	snaps.On("SaveSnapshot", ctx, snap).Return(nil)
	notifier.On("NotifyOwner", ctx, "resumen week").Return(nil)

	s, err := NewScheduler(reportingCfg, rep, snaps, notifier, nil)
	require.NoError(t, err)

	require.NoError(t, s.RunWeeklyReport(ctx))
	snaps.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRunWeeklyReport_StoreFailureSkipsNotification(t *testing.T) {
	ctx := context.Background()
	rep := new(MockReporter)
	snaps := new(MockSnapshots)
	notifier := new(MockNotifier)

	rep.On("Reconciliation", ctx, reporting.WindowWeek).Return(models.ReconciliationSnapshot{}, nil)
	snaps.On("SaveSnapshot", ctx, mock.Anything).Return(models.ErrStorage)

	s, err := NewScheduler(reportingCfg, rep, snaps, notifier, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.RunWeeklyReport(ctx), models.ErrStorage)
	notifier.AssertNotCalled(t, "NotifyOwner", mock.Anything, mock.Anything)
}

func TestRunWeeklyReport_WithoutNotifier(t *testing.T) {
	ctx := context.Background()
	rep := new(MockReporter)
	snaps := new(MockSnapshots)

	rep.On("Reconciliation", ctx, reporting.WindowWeek).Return(models.ReconciliationSnapshot{}, nil)
	snaps.On("SaveSnapshot", ctx, mock.Anything).Return(nil)

	s, err := NewScheduler(reportingCfg, rep, snaps, nil, nil)
	require.NoError(t, err)

	assert.NoError(t, s.RunWeeklyReport(ctx))
}

func TestRunWeeklyReport_ReconciliationError(t *testing.T) {
	ctx := context.Background()
	rep := new(MockReporter)
	snaps := new(MockSnapshots)
	rep.On("Reconciliation", ctx, reporting.WindowWeek).Return(models.ReconciliationSnapshot{}, errors.New("boom"))

	s, err := NewScheduler(reportingCfg, rep, snaps, nil, nil)
	require.NoError(t, err)

	assert.Error(t, s.RunWeeklyReport(ctx))
	snaps.AssertNotCalled(t, "SaveSnapshot", mock.Anything, mock.Anything)
}

func TestStart_InvalidSchedule(t *testing.T) {
	cfg := reportingCfg
	cfg.CronSchedule = "every friday"

	s, err := NewScheduler(cfg, new(MockReporter), new(MockSnapshots), nil, nil)
	require.NoError(t, err)

	assert.Error(t, s.Start())
}

func TestNewScheduler_BadTimezone(t *testing.T) {
	cfg := reportingCfg
	cfg.Timezone = "Mars/Olympus"

	_, err := NewScheduler(cfg, new(MockReporter), new(MockSnapshots), nil, nil)
	assert.Error(t, err)
}
