package repository

import (
	"gorm.io/gorm"

	"dbfleet/internal/model"
)

type ClusterRepository struct {
	db *gorm.DB
}

func NewClusterRepository(db *gorm.DB) *ClusterRepository {
	return &ClusterRepository{db: db}
}

// FindByName 按名称查询集群(含虚拟机)
func (r *ClusterRepository) FindByName(name string) (*model.ClusterInfo, error) {
	var cluster model.ClusterInfo
	err := r.db.Preload("VMs").Where("name = ?", name).First(&cluster).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

// Create 写入集群及其虚拟机
func (r *ClusterRepository) Create(cluster *model.ClusterInfo) error {
	return r.db.Create(cluster).Error
}

// DeleteByName 按名称删除集群, 先删除其虚拟机
func (r *ClusterRepository) DeleteByName(name string) error {
	var cluster model.ClusterInfo
	err := r.db.Where("name = ?", name).First(&cluster).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if err := r.db.Where("cluster_id = ?", cluster.ID).Delete(&model.VMInfo{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&cluster).Error
}

// List 集群列表查询, filter为空时返回全部
func (r *ClusterRepository) List(filter string) ([]model.ClusterInfo, error) {
	var clusters []model.ClusterInfo
	query := r.db.Preload("VMs")
	if filter != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter+"%")
	}
	err := query.Order("name ASC").Find(&clusters).Error
	return clusters, err
}

// FindVMByHostname 按主机名查询虚拟机, 忽略大小写与域名后缀
func (r *ClusterRepository) FindVMByHostname(hostname string) (*model.VMInfo, error) {
	var vm model.VMInfo
	err := r.db.
		Where("LOWER(SUBSTRING_INDEX(host_name, '.', 1)) = LOWER(SUBSTRING_INDEX(?, '.', 1))", hostname).
		First(&vm).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vm, nil
}
