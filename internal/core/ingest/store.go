package ingest

import (
	"context"
	"time"

	"dbfleet/internal/model"
)

// HostStore 入库与维护流程需要的主机存储操作
type HostStore interface {
	FindByHostname(hostname string) (*model.CurrentHost, error)
	FindAllNotUpdatedSince(t time.Time) ([]model.CurrentHost, error)
	Create(host *model.CurrentHost) error
	Delete(host *model.CurrentHost) error
	CreateHistorical(host *model.HistoricalHost) error
	DeleteHistoricalOlderThan(t time.Time) (int64, error)
	ClearClusterBackReference(hostname string) error
	SetClusterBackReference(hostname, clusterName, physicalHost string) error
}

// AlertStore 入库流程需要的告警存储操作
type AlertStore interface {
	Create(alert *model.Alert) error
	ExistsByHostnameAndCode(hostname string, code model.AlertCode) (bool, error)
	ExistsNewByHostnameAndCode(hostname string, code model.AlertCode) (bool, error)
}

// ClusterStore 集群重建需要的存储操作
type ClusterStore interface {
	FindByName(name string) (*model.ClusterInfo, error)
	Create(cluster *model.ClusterInfo) error
	DeleteByName(name string) error
	FindVMByHostname(hostname string) (*model.VMInfo, error)
}

// Store 入库子系统的存储入口
// Transaction内的所有写操作在同一事务中执行, 禁止部分生效
type Store interface {
	Hosts() HostStore
	Alerts() AlertStore
	Clusters() ClusterStore
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// AlertSink 告警的异步下游, 事务提交后投递
type AlertSink interface {
	Publish(alert model.Alert)
}
