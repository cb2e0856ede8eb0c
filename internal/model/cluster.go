package model

import "time"

const ClusterInfoTableName = "cluster_info"
const VMInfoTableName = "vm_info"

// ClusterInfo 虚拟化集群
// 用途: 由virtualization类型快照的 Extra.Clusters 重建, 整体替换式更新
type ClusterInfo struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Type      string    `gorm:"size:64" json:"type"`
	CPU       int       `gorm:"column:cpu" json:"cpu"`
	Sockets   int       `json:"sockets"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`

	// 集群独占其VM, 删除集群时级联删除
	VMs []VMInfo `gorm:"foreignKey:ClusterID;constraint:OnDelete:CASCADE" json:"vms"`
}

func (ClusterInfo) TableName() string {
	return ClusterInfoTableName
}

// VMInfo 集群成员虚拟机
type VMInfo struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ClusterID    int64  `gorm:"column:cluster_id;not null;index" json:"cluster_id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	ClusterName  string `gorm:"size:255;not null" json:"cluster_name"`
	HostName     string `gorm:"size:255;index" json:"host_name"`
	PhysicalHost string `gorm:"size:255" json:"physical_host"`
}

func (VMInfo) TableName() string {
	return VMInfoTableName
}
