package ingest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
	"dbfleet/pkg/constants"
	"dbfleet/pkg/responses"
)

// fakeStore 内存实现, 事务失败时整体回滚
type fakeStore struct {
	mu            sync.Mutex
	hosts         map[string]*model.CurrentHost
	historical    []model.HistoricalHost
	alerts        []model.Alert
	clusters      map[string]*model.ClusterInfo
	nextAlertID   int64
	nextClusterID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hosts:    make(map[string]*model.CurrentHost),
		clusters: make(map[string]*model.ClusterInfo),
	}
}

type fakeHosts struct{ *fakeStore }
type fakeAlerts struct{ *fakeStore }
type fakeClusters struct{ *fakeStore }

func (s *fakeStore) Hosts() HostStore       { return fakeHosts{s} }
func (s *fakeStore) Alerts() AlertStore     { return fakeAlerts{s} }
func (s *fakeStore) Clusters() ClusterStore { return fakeClusters{s} }

func (s *fakeStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(backup)
		return err
	}
	return nil
}

type fakeStoreState struct {
	hosts      map[string]*model.CurrentHost
	historical []model.HistoricalHost
	alerts     []model.Alert
	clusters   map[string]*model.ClusterInfo
}

func (s *fakeStore) snapshot() fakeStoreState {
	state := fakeStoreState{
		hosts:      make(map[string]*model.CurrentHost, len(s.hosts)),
		historical: append([]model.HistoricalHost(nil), s.historical...),
		alerts:     append([]model.Alert(nil), s.alerts...),
		clusters:   make(map[string]*model.ClusterInfo, len(s.clusters)),
	}
	for k, v := range s.hosts {
		clone := *v
		state.hosts[k] = &clone
	}
	for k, v := range s.clusters {
		clone := *v
		clone.VMs = append([]model.VMInfo(nil), v.VMs...)
		state.clusters[k] = &clone
	}
	return state
}

func (s *fakeStore) restore(state fakeStoreState) {
	s.hosts = state.hosts
	s.historical = state.historical
	s.alerts = state.alerts
	s.clusters = state.clusters
}

func (s fakeHosts) FindByHostname(hostname string) (*model.CurrentHost, error) {
	host, ok := s.hosts[hostname]
	if !ok {
		return nil, nil
	}
	clone := *host
	return &clone, nil
}

func (s fakeHosts) FindAllNotUpdatedSince(t time.Time) ([]model.CurrentHost, error) {
	var stale []model.CurrentHost
	for _, host := range s.hosts {
		if !host.UpdatedAt.After(t) {
			stale = append(stale, *host)
		}
	}
	return stale, nil
}

func (s fakeHosts) DeleteHistoricalOlderThan(t time.Time) (int64, error) {
	var kept []model.HistoricalHost
	var deleted int64
	for _, h := range s.historical {
		if h.ArchivedAt.After(t) {
			kept = append(kept, h)
		} else {
			deleted++
		}
	}
	s.historical = kept
	return deleted, nil
}

func (s fakeHosts) Create(host *model.CurrentHost) error {
	clone := *host
	s.hosts[host.Hostname] = &clone
	return nil
}

func (s fakeHosts) Delete(host *model.CurrentHost) error {
	delete(s.hosts, host.Hostname)
	return nil
}

func (s fakeHosts) CreateHistorical(host *model.HistoricalHost) error {
	s.historical = append(s.historical, *host)
	return nil
}

func (s fakeHosts) ClearClusterBackReference(hostname string) error {
	if host, ok := s.hosts[hostname]; ok {
		host.AssociatedClusterName = nil
		host.AssociatedHypervisorHostname = nil
	}
	return nil
}

func (s fakeHosts) SetClusterBackReference(hostname, clusterName, physicalHost string) error {
	if host, ok := s.hosts[hostname]; ok {
		host.AssociatedClusterName = &clusterName
		host.AssociatedHypervisorHostname = &physicalHost
	}
	return nil
}

func (s fakeAlerts) Create(alert *model.Alert) error {
	s.nextAlertID++
	alert.ID = s.nextAlertID
	s.alerts = append(s.alerts, *alert)
	return nil
}

func (s fakeAlerts) ExistsByHostnameAndCode(hostname string, code model.AlertCode) (bool, error) {
	for _, a := range s.alerts {
		if a.Hostname == hostname && a.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s fakeAlerts) ExistsNewByHostnameAndCode(hostname string, code model.AlertCode) (bool, error) {
	for _, a := range s.alerts {
		if a.Hostname == hostname && a.Code == code && a.Status == model.AlertStatusNew {
			return true, nil
		}
	}
	return false, nil
}

func (s fakeClusters) FindByName(name string) (*model.ClusterInfo, error) {
	cluster, ok := s.clusters[name]
	if !ok {
		return nil, nil
	}
	clone := *cluster
	clone.VMs = append([]model.VMInfo(nil), cluster.VMs...)
	return &clone, nil
}

func (s fakeClusters) Create(cluster *model.ClusterInfo) error {
	s.nextClusterID++
	cluster.ID = s.nextClusterID
	clone := *cluster
	clone.VMs = append([]model.VMInfo(nil), cluster.VMs...)
	s.clusters[cluster.Name] = &clone
	return nil
}

func (s fakeClusters) DeleteByName(name string) error {
	delete(s.clusters, name)
	return nil
}

func (s fakeClusters) FindVMByHostname(hostname string) (*model.VMInfo, error) {
	short := strings.ToLower(strings.SplitN(hostname, ".", 2)[0])
	for _, cluster := range s.clusters {
		for _, vm := range cluster.VMs {
			if strings.ToLower(strings.SplitN(vm.HostName, ".", 2)[0]) == short {
				clone := vm
				return &clone, nil
			}
		}
	}
	return nil, nil
}

// recordingSink 按投递顺序记录告警
type recordingSink struct {
	mu     sync.Mutex
	alerts []model.Alert
}

func (s *recordingSink) Publish(alert model.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
}

func oracleSnapshot(t *testing.T, hostname, databases string, extra *dto.ExtraInfoDoc) *dto.HostSnapshot {
	t.Helper()
	return snapshotWithExtra(t, hostname, "oracledb", databases, nil, extra)
}

func newTestCoordinator(store Store, sink AlertSink, updateRate time.Duration) (*Coordinator, *time.Time) {
	c := NewCoordinator(store, sink, updateRate)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestSubmitInsertsFirstSnapshot(t *testing.T) {
	store := newFakeStore()
	sink := &recordingSink{}
	c, _ := newTestCoordinator(store, sink, time.Minute)

	extra := &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Partitioning", Status: true}}},
		},
	}
	result, err := c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1", extra))
	require.NoError(t, err)
	assert.Equal(t, constants.IngestInserted, result)

	host, err := store.Hosts().FindByHostname("h1")
	require.NoError(t, err)
	require.NotNil(t, host)
	assert.Equal(t, "DB1", host.Databases)
	assert.Empty(t, store.historical)

	// 告警持久化顺序: NEW_SERVER → NEW_DATABASE → NEW_OPTION
	require.Len(t, store.alerts, 3)
	assert.Equal(t, model.AlertCodeNewServer, store.alerts[0].Code)
	assert.Equal(t, model.AlertCodeNewDatabase, store.alerts[1].Code)
	assert.Equal(t, model.AlertCodeNewOption, store.alerts[2].Code)
	for i, alert := range store.alerts {
		assert.Equal(t, "h1", alert.Hostname)
		assert.Equal(t, int64(i+1), alert.ID)
	}

	// 事务提交后按同样顺序投递
	require.Len(t, sink.alerts, 3)
	assert.Equal(t, model.AlertCodeNewServer, sink.alerts[0].Code)
}

func TestSubmitUpdateArchivesPrevious(t *testing.T) {
	store := newFakeStore()
	c, now := newTestCoordinator(store, nil, time.Minute)

	_, err := c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1", &dto.ExtraInfoDoc{}))
	require.NoError(t, err)
	firstUpdate := *now

	*now = now.Add(2 * time.Minute)
	result, err := c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1 DB2", &dto.ExtraInfoDoc{}))
	require.NoError(t, err)
	assert.Equal(t, constants.IngestUpdated, result)

	host, err := store.Hosts().FindByHostname("h1")
	require.NoError(t, err)
	require.NotNil(t, host)
	assert.Equal(t, "DB1 DB2", host.Databases)
	assert.Equal(t, *now, host.UpdatedAt)

	require.Len(t, store.historical, 1)
	archived := store.historical[0]
	assert.Equal(t, "h1", archived.Hostname)
	assert.Equal(t, "DB1", archived.Databases)
	assert.Equal(t, firstUpdate, archived.UpdatedAt)
	assert.False(t, archived.ArchivedAt.Before(archived.UpdatedAt))
}

func TestSubmitRejectsWithinUpdateRate(t *testing.T) {
	store := newFakeStore()
	c, now := newTestCoordinator(store, nil, time.Minute)

	_, err := c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1", &dto.ExtraInfoDoc{}))
	require.NoError(t, err)
	alertsBefore := len(store.alerts)

	*now = now.Add(30 * time.Second)
	_, err = c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1 DB2", &dto.ExtraInfoDoc{}))
	require.ErrorIs(t, err, responses.ErrRateLimited)

	// 被拒绝的提交不落任何状态
	host, err := store.Hosts().FindByHostname("h1")
	require.NoError(t, err)
	assert.Equal(t, "DB1", host.Databases)
	assert.Empty(t, store.historical)
	assert.Len(t, store.alerts, alertsBefore)
}

func TestSubmitRejectsConcurrentSameHost(t *testing.T) {
	store := newFakeStore()
	c, _ := newTestCoordinator(store, nil, 0)

	// 占住h1的入库锁, 模拟在途提交
	mu := c.lockFor("h1")
	mu.Lock()
	defer mu.Unlock()

	_, err := c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1", &dto.ExtraInfoDoc{}))
	require.ErrorIs(t, err, responses.ErrRateLimited)

	// 其他主机不受影响
	_, err = c.Submit(context.Background(), oracleSnapshot(t, "h2", "DB1", &dto.ExtraInfoDoc{}))
	require.NoError(t, err)
}

func TestSubmitContinuesOnFeatureSchemaMismatch(t *testing.T) {
	store := newFakeStore()
	c, now := newTestCoordinator(store, nil, time.Minute)

	_, err := c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1", &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Spatial", Status: false}}},
		},
	}))
	require.NoError(t, err)

	*now = now.Add(2 * time.Minute)
	result, err := c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1", &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Partitioning", Status: true}}},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, constants.IngestUpdated, result)

	host, err := store.Hosts().FindByHostname("h1")
	require.NoError(t, err)
	require.NotNil(t, host)
	assert.Equal(t, *now, host.UpdatedAt)
	require.Len(t, store.historical, 1)
}

func TestSubmitFixesBackReferenceFromStoredVM(t *testing.T) {
	store := newFakeStore()
	c, _ := newTestCoordinator(store, nil, time.Minute)

	require.NoError(t, store.Clusters().Create(&model.ClusterInfo{
		Name: "C1",
		VMs: []model.VMInfo{
			{Name: "vm-h1", ClusterName: "C1", HostName: "H1.corp.local", PhysicalHost: "hv01"},
		},
	}))

	_, err := c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1", &dto.ExtraInfoDoc{}))
	require.NoError(t, err)

	host, err := store.Hosts().FindByHostname("h1")
	require.NoError(t, err)
	require.NotNil(t, host)
	require.NotNil(t, host.AssociatedClusterName)
	assert.Equal(t, "C1", *host.AssociatedClusterName)
	require.NotNil(t, host.AssociatedHypervisorHostname)
	assert.Equal(t, "hv01", *host.AssociatedHypervisorHostname)
}

func virtualizationSnapshot(t *testing.T, hostname string, clusters []dto.ClusterDoc) *dto.HostSnapshot {
	t.Helper()

	raw, err := json.Marshal(&dto.ExtraInfoDoc{Clusters: clusters})
	require.NoError(t, err)
	return &dto.HostSnapshot{
		Hostname:     hostname,
		HostType:     "virtualization",
		AgentVersion: "1.6.1",
		Extra:        raw,
	}
}

func TestSubmitVirtualizationReconcilesClusters(t *testing.T) {
	store := newFakeStore()
	c, now := newTestCoordinator(store, nil, time.Minute)

	_, err := c.Submit(context.Background(), oracleSnapshot(t, "h1", "DB1", &dto.ExtraInfoDoc{}))
	require.NoError(t, err)

	clusters := []dto.ClusterDoc{
		{Name: "C1", Type: "vmware", CPU: 64, Sockets: 4, VMs: []dto.VMDoc{
			{Name: "vm-h1", Hostname: "h1", PhysicalHost: "hv01"},
		}},
	}
	_, err = c.Submit(context.Background(), virtualizationSnapshot(t, "esx01", clusters))
	require.NoError(t, err)

	cluster, err := store.Clusters().FindByName("C1")
	require.NoError(t, err)
	require.NotNil(t, cluster)
	require.Len(t, cluster.VMs, 1)
	assert.Equal(t, "C1", cluster.VMs[0].ClusterName)

	host, err := store.Hosts().FindByHostname("h1")
	require.NoError(t, err)
	require.NotNil(t, host.AssociatedClusterName)
	assert.Equal(t, "C1", *host.AssociatedClusterName)

	// 下一份快照不再包含C1: 集群删除, 成员主机的关联清空
	*now = now.Add(2 * time.Minute)
	_, err = c.Submit(context.Background(), virtualizationSnapshot(t, "esx01", nil))
	require.NoError(t, err)

	cluster, err = store.Clusters().FindByName("C1")
	require.NoError(t, err)
	assert.Nil(t, cluster)

	host, err = store.Hosts().FindByHostname("h1")
	require.NoError(t, err)
	assert.Nil(t, host.AssociatedClusterName)
	assert.Nil(t, host.AssociatedHypervisorHostname)
}

func TestAbsenceReport(t *testing.T) {
	store := newFakeStore()
	sink := &recordingSink{}
	c, _ := newTestCoordinator(store, sink, time.Minute)

	require.NoError(t, c.AbsenceReport(context.Background(), "lost-host"))
	require.Len(t, store.alerts, 1)
	assert.Equal(t, model.AlertCodeMissingHost, store.alerts[0].Code)
	assert.Equal(t, model.SeverityNotice, store.alerts[0].Severity)
	require.Len(t, sink.alerts, 1)

	// 已有MISSING_HOST告警时不再重复创建
	require.NoError(t, c.AbsenceReport(context.Background(), "lost-host"))
	assert.Len(t, store.alerts, 1)
	assert.Len(t, sink.alerts, 1)
}
