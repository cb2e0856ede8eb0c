package ingest

import (
	"time"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
)

// ReconcileClusters 按虚拟化快照整体重建集群
// prev为上一快照中的集群列表, next为新快照中的集群列表
// 调用方保证整个过程处于同一事务内
//
// 步骤:
//  1. prev中存在而next中不存在的集群: 清理成员主机的集群关联后删除
//  2. next中的每个集群: 若同名集群已存在则先清理再删除, 然后整体写入
//  3. 新集群的每个成员VM: 若存在同名当前主机(精确匹配)则回填集群关联
func ReconcileClusters(store Store, prev, next []dto.ClusterDoc, now time.Time) error {
	nextNames := make(map[string]struct{}, len(next))
	for _, c := range next {
		nextNames[c.Name] = struct{}{}
	}

	for _, c := range prev {
		if _, kept := nextNames[c.Name]; !kept {
			if err := removeCluster(store, c.Name); err != nil {
				return err
			}
		}
	}

	for _, c := range next {
		if err := removeCluster(store, c.Name); err != nil {
			return err
		}

		cluster := &model.ClusterInfo{
			Name:      c.Name,
			Type:      c.Type,
			CPU:       c.CPU,
			Sockets:   c.Sockets,
			UpdatedAt: now,
			VMs:       make([]model.VMInfo, 0, len(c.VMs)),
		}
		for _, vm := range c.VMs {
			hostname := vm.Hostname
			if hostname == "" {
				hostname = vm.Name
			}
			clusterName := vm.ClusterName
			if clusterName == "" {
				clusterName = c.Name
			}
			cluster.VMs = append(cluster.VMs, model.VMInfo{
				Name:         vm.Name,
				ClusterName:  clusterName,
				HostName:     hostname,
				PhysicalHost: vm.PhysicalHost,
			})
		}
		if err := store.Clusters().Create(cluster); err != nil {
			return err
		}

		for _, vm := range cluster.VMs {
			host, err := store.Hosts().FindByHostname(vm.HostName)
			if err != nil {
				return err
			}
			if host == nil {
				continue
			}
			if err := store.Hosts().SetClusterBackReference(vm.HostName, vm.ClusterName, vm.PhysicalHost); err != nil {
				return err
			}
		}
	}
	return nil
}

// removeCluster 删除已存储的集群, 删除前清理成员主机的集群关联
func removeCluster(store Store, name string) error {
	cluster, err := store.Clusters().FindByName(name)
	if err != nil {
		return err
	}
	if cluster == nil {
		return nil
	}
	for _, vm := range cluster.VMs {
		host, err := store.Hosts().FindByHostname(vm.HostName)
		if err != nil {
			return err
		}
		if host == nil {
			continue
		}
		if err := store.Hosts().ClearClusterBackReference(vm.HostName); err != nil {
			return err
		}
	}
	return store.Clusters().DeleteByName(name)
}
