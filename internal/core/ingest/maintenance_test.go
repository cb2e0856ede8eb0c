package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbfleet/internal/model"
)

func newTestMaintenance(store Store, sink AlertSink) (*Maintenance, *time.Time) {
	m := NewMaintenance(store, sink)
	now := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func seedHost(t *testing.T, store *fakeStore, hostname string, updatedAt time.Time) {
	t.Helper()
	require.NoError(t, store.Hosts().Create(&model.CurrentHost{
		Hostname:  hostname,
		HostType:  "oracledb",
		UpdatedAt: updatedAt,
	}))
}

func TestAgeCurrentHosts(t *testing.T) {
	store := newFakeStore()
	m, now := newTestMaintenance(store, nil)

	seedHost(t, store, "stale1", now.Add(-400*time.Hour))
	seedHost(t, store, "stale2", now.Add(-361*time.Hour))
	seedHost(t, store, "fresh", now.Add(-time.Hour))

	aged, err := m.AgeCurrentHosts(context.Background(), 360*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, aged)

	// 超龄主机已从当前表移入历史表
	for _, hostname := range []string{"stale1", "stale2"} {
		host, err := store.Hosts().FindByHostname(hostname)
		require.NoError(t, err)
		assert.Nil(t, host)
	}
	fresh, err := store.Hosts().FindByHostname("fresh")
	require.NoError(t, err)
	assert.NotNil(t, fresh)

	require.Len(t, store.historical, 2)
	for _, h := range store.historical {
		assert.Equal(t, *now, h.ArchivedAt)
	}
}

func TestPurgeHistory(t *testing.T) {
	store := newFakeStore()
	m, now := newTestMaintenance(store, nil)

	store.historical = []model.HistoricalHost{
		{Hostname: "old", ArchivedAt: now.Add(-800 * time.Hour)},
		{Hostname: "recent", ArchivedAt: now.Add(-10 * time.Hour)},
	}

	purged, err := m.PurgeHistory(context.Background(), 720*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	require.Len(t, store.historical, 1)
	assert.Equal(t, "recent", store.historical[0].Hostname)
}

func TestFreshnessCheck(t *testing.T) {
	store := newFakeStore()
	sink := &recordingSink{}
	m, now := newTestMaintenance(store, sink)

	threshold := 7 * 24 * time.Hour
	seedHost(t, store, "silent", now.Add(-threshold-24*time.Hour))
	seedHost(t, store, "talking", now.Add(-time.Hour))

	created, err := m.FreshnessCheck(context.Background(), threshold)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.Len(t, store.alerts, 1)
	alert := store.alerts[0]
	assert.Equal(t, "silent", alert.Hostname)
	assert.Equal(t, model.AlertCodeNoData, alert.Code)
	assert.Equal(t, model.SeverityMajor, alert.Severity)
	assert.Contains(t, alert.Description, "8 days")
	require.Len(t, sink.alerts, 1)

	// 再次执行不重复告警
	created, err = m.FreshnessCheck(context.Background(), threshold)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, store.alerts, 1)
}
