package repository

import (
	"context"

	"gorm.io/gorm"

	"dbfleet/internal/core/ingest"
)

// Store 基于gorm的入库存储实现
// Transaction内的回调拿到同一事务上的Store
type Store struct {
	db       *gorm.DB
	hosts    *HostRepository
	alerts   *AlertRepository
	clusters *ClusterRepository
}

var _ ingest.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		hosts:    NewHostRepository(db),
		alerts:   NewAlertRepository(db),
		clusters: NewClusterRepository(db),
	}
}

func (s *Store) Hosts() ingest.HostStore {
	return s.hosts
}

func (s *Store) Alerts() ingest.AlertStore {
	return s.alerts
}

func (s *Store) Clusters() ingest.ClusterStore {
	return s.clusters
}

// Transaction 在单个数据库事务中执行fn
func (s *Store) Transaction(ctx context.Context, fn func(tx ingest.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
