package dto

import (
	"time"
)

// HostListRequest 主机列表查询
type HostListRequest struct {
	Page        int     `form:"page,default=1" binding:"min=1"`
	PageSize    int     `form:"page_size,default=20" binding:"min=1,max=200"`
	Environment *string `form:"environment"`
	Location    *string `form:"location"`
	HostType    *string `form:"host_type" binding:"omitempty,oneof=oracledb virtualization exadata"`
	Search      *string `form:"search"` // 模糊匹配 hostname/databases
}

// HostSummary 主机列表项
type HostSummary struct {
	ID                    int64     `json:"id"`
	Hostname              string    `json:"hostname"`
	Environment           string    `json:"environment"`
	Location              string    `json:"location"`
	HostType              string    `json:"host_type"`
	AgentVersion          string    `json:"agent_version"`
	Databases             string    `json:"databases"`
	AssociatedClusterName *string   `json:"associated_cluster_name,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// HostDetailResponse 主机详情(含类型化文档)
type HostDetailResponse struct {
	HostSummary
	Schemas                      string        `json:"schemas"`
	ServerVersion                string        `json:"server_version"`
	AssociatedHypervisorHostname *string       `json:"associated_hypervisor_hostname,omitempty"`
	HostInfo                     *HostInfoDoc  `json:"host_info,omitempty"`
	ExtraInfo                    *ExtraInfoDoc `json:"extra_info,omitempty"`
	Tags                         []DatabaseTag `json:"tags"`
}

// DatabaseTag 数据库标签
type DatabaseTag struct {
	ID     int64  `json:"id"`
	Dbname string `json:"dbname"`
	Tag    string `json:"tag"`
}

// HistoricalHostResponse 历史快照
type HistoricalHostResponse struct {
	HostSummary
	ArchivedAt time.Time `json:"archived_at"`
}

// DashboardResponse 仪表盘聚合
type DashboardResponse struct {
	HostCount        int64            `json:"host_count"`
	HostsByType      map[string]int64 `json:"hosts_by_type"`
	HostsByEnv       map[string]int64 `json:"hosts_by_env"`
	DatabaseCount    int              `json:"database_count"`
	ClusterCount     int64            `json:"cluster_count"`
	NewAlertCount    int64            `json:"new_alert_count"`
	RecentAlerts     []AlertResponse  `json:"recent_alerts"`
	TopSegmentAdvice []SegmentAdvice  `json:"top_segment_advice"`
}

// SegmentAdvice 段顾问建议(仪表盘用)
type SegmentAdvice struct {
	Hostname string  `json:"hostname"`
	Dbname   string  `json:"dbname"`
	Advice   string  `json:"advice"`
	Reclaim  float64 `json:"reclaim"`
}
