package model

import (
	"time"

	"gorm.io/datatypes"
)

const CurrentHostTableName = "current_host"
const HistoricalHostTableName = "historical_host"

// CurrentHost 当前主机快照
// 用途: 每个hostname只保留最新一条已接受的快照
//
// ExtraInfo/HostInfo 为Agent上报的原始JSON文档,
// 仪表盘查询按Agent字段名(Databases/Features/Licenses等)下钻
type CurrentHost struct {
	ID                           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Hostname                     string         `gorm:"size:255;not null;uniqueIndex" json:"hostname"`
	Environment                  string         `gorm:"size:64" json:"environment"`
	Location                     string         `gorm:"size:128" json:"location"`
	HostType                     string         `gorm:"size:32;not null;index" json:"host_type"` // oracledb/virtualization/exadata
	AgentVersion                 string         `gorm:"size:64" json:"agent_version"`
	ServerVersion                string         `gorm:"size:64" json:"server_version"`
	Databases                    string         `gorm:"type:text" json:"databases"` // 空格分隔的数据库名
	Schemas                      string         `gorm:"type:text" json:"schemas"`
	ExtraInfo                    datatypes.JSON `gorm:"column:extra_info" json:"extra_info"`
	HostInfo                     datatypes.JSON `gorm:"column:host_info" json:"host_info"`
	AssociatedClusterName        *string        `gorm:"size:255" json:"associated_cluster_name,omitempty"`
	AssociatedHypervisorHostname *string        `gorm:"size:255" json:"associated_hypervisor_hostname,omitempty"`
	UpdatedAt                    time.Time      `gorm:"column:updated_at;not null;index;autoUpdateTime:false" json:"updated_at"`
}

func (CurrentHost) TableName() string {
	return CurrentHostTableName
}

// HistoricalHost 历史主机快照
// 用途: 当前快照被新快照替换或老化时归档于此, 仅追加
type HistoricalHost struct {
	ID                           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Hostname                     string         `gorm:"size:255;not null;index" json:"hostname"`
	Environment                  string         `gorm:"size:64" json:"environment"`
	Location                     string         `gorm:"size:128" json:"location"`
	HostType                     string         `gorm:"size:32" json:"host_type"`
	AgentVersion                 string         `gorm:"size:64" json:"agent_version"`
	ServerVersion                string         `gorm:"size:64" json:"server_version"`
	Databases                    string         `gorm:"type:text" json:"databases"`
	Schemas                      string         `gorm:"type:text" json:"schemas"`
	ExtraInfo                    datatypes.JSON `gorm:"column:extra_info" json:"extra_info"`
	HostInfo                     datatypes.JSON `gorm:"column:host_info" json:"host_info"`
	AssociatedClusterName        *string        `gorm:"size:255" json:"associated_cluster_name,omitempty"`
	AssociatedHypervisorHostname *string        `gorm:"size:255" json:"associated_hypervisor_hostname,omitempty"`
	UpdatedAt                    time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	ArchivedAt                   time.Time      `gorm:"column:archived_at;not null;index;autoCreateTime:false" json:"archived_at"`
}

func (HistoricalHost) TableName() string {
	return HistoricalHostTableName
}

// ToHistorical 将当前快照转换为历史快照
func (h *CurrentHost) ToHistorical(archivedAt time.Time) *HistoricalHost {
	return &HistoricalHost{
		Hostname:                     h.Hostname,
		Environment:                  h.Environment,
		Location:                     h.Location,
		HostType:                     h.HostType,
		AgentVersion:                 h.AgentVersion,
		ServerVersion:                h.ServerVersion,
		Databases:                    h.Databases,
		Schemas:                      h.Schemas,
		ExtraInfo:                    h.ExtraInfo,
		HostInfo:                     h.HostInfo,
		AssociatedClusterName:        h.AssociatedClusterName,
		AssociatedHypervisorHostname: h.AssociatedHypervisorHostname,
		UpdatedAt:                    h.UpdatedAt,
		ArchivedAt:                   archivedAt,
	}
}
