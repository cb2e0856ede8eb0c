package dto

import (
	"time"

	"dbfleet/internal/model"
)

// ClusterListRequest 集群列表查询
type ClusterListRequest struct {
	Filter *string `form:"filter"` // 模糊匹配集群名/VM名
}

// ClusterResponse 集群
type ClusterResponse struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	CPU       int          `json:"cpu"`
	Sockets   int          `json:"sockets"`
	UpdatedAt time.Time    `json:"updated_at"`
	VMs       []VMResponse `json:"vms"`
}

// VMResponse 集群成员VM
type VMResponse struct {
	Name         string `json:"name"`
	HostName     string `json:"host_name"`
	PhysicalHost string `json:"physical_host"`
}

// ToClusterResponse 模型转响应
func ToClusterResponse(c *model.ClusterInfo) *ClusterResponse {
	vms := make([]VMResponse, len(c.VMs))
	for i, vm := range c.VMs {
		vms[i] = VMResponse{
			Name:         vm.Name,
			HostName:     vm.HostName,
			PhysicalHost: vm.PhysicalHost,
		}
	}
	return &ClusterResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		CPU:       c.CPU,
		Sockets:   c.Sockets,
		UpdatedAt: c.UpdatedAt,
		VMs:       vms,
	}
}
