package ingest

import (
	"context"
	"fmt"
	"time"

	"dbfleet/internal/model"
	"dbfleet/internal/pkg/metrics"
)

// Maintenance 定时维护任务的执行逻辑
// 调度由scheduler负责, 这里只做状态变更
type Maintenance struct {
	store Store
	sink  AlertSink

	now func() time.Time
}

func NewMaintenance(store Store, sink AlertSink) *Maintenance {
	return &Maintenance{
		store: store,
		sink:  sink,
		now:   time.Now,
	}
}

// AgeCurrentHosts 将超龄的当前主机归档到历史表
// 每台主机的归档与删除在同一事务内完成
func (m *Maintenance) AgeCurrentHosts(ctx context.Context, maxAge time.Duration) (int, error) {
	now := m.now()
	stale, err := m.store.Hosts().FindAllNotUpdatedSince(now.Add(-maxAge))
	if err != nil {
		return 0, err
	}

	aged := 0
	for i := range stale {
		host := stale[i]
		err := m.store.Transaction(ctx, func(tx Store) error {
			if err := tx.Hosts().CreateHistorical(host.ToHistorical(now)); err != nil {
				return err
			}
			return tx.Hosts().Delete(&host)
		})
		if err != nil {
			return aged, err
		}
		aged++
	}
	return aged, nil
}

// PurgeHistory 删除超过保留期的历史快照
func (m *Maintenance) PurgeHistory(ctx context.Context, retention time.Duration) (int64, error) {
	var purged int64
	err := m.store.Transaction(ctx, func(tx Store) error {
		var err error
		purged, err = tx.Hosts().DeleteHistoricalOlderThan(m.now().Add(-retention))
		return err
	})
	return purged, err
}

// FreshnessCheck 为长期未上报的主机创建NO_DATA告警
// 同一主机已有未确认的NO_DATA告警时跳过
func (m *Maintenance) FreshnessCheck(ctx context.Context, threshold time.Duration) (int, error) {
	now := m.now()
	stale, err := m.store.Hosts().FindAllNotUpdatedSince(now.Add(-threshold))
	if err != nil {
		return 0, err
	}

	var created []model.Alert
	err = m.store.Transaction(ctx, func(tx Store) error {
		for _, host := range stale {
			exists, err := tx.Alerts().ExistsNewByHostnameAndCode(host.Hostname, model.AlertCodeNoData)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			days := int(now.Sub(host.UpdatedAt).Hours() / 24)
			alert := model.Alert{
				Hostname:    host.Hostname,
				Code:        model.AlertCodeNoData,
				Severity:    model.SeverityMajor,
				Status:      model.AlertStatusNew,
				Description: fmt.Sprintf("No data received from host %s for %d days (last update %s)", host.Hostname, days, host.UpdatedAt.Format("2006-01-02 15:04:05")),
				Date:        now,
			}
			if err := tx.Alerts().Create(&alert); err != nil {
				return err
			}
			metrics.AlertTotal.WithLabelValues(string(alert.Code)).Inc()
			created = append(created, alert)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if m.sink != nil {
		for _, alert := range created {
			m.sink.Publish(alert)
		}
	}
	return len(created), nil
}
