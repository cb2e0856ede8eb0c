package repository

import (
	"time"

	"gorm.io/gorm"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
)

type HostRepository struct {
	db *gorm.DB
}

func NewHostRepository(db *gorm.DB) *HostRepository {
	return &HostRepository{db: db}
}

// FindByHostname 查询当前主机, 不存在时返回(nil, nil)
func (r *HostRepository) FindByHostname(hostname string) (*model.CurrentHost, error) {
	var host model.CurrentHost
	err := r.db.Where("hostname = ?", hostname).First(&host).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &host, nil
}

// Create 插入当前主机
func (r *HostRepository) Create(host *model.CurrentHost) error {
	return r.db.Create(host).Error
}

// Delete 删除当前主机
func (r *HostRepository) Delete(host *model.CurrentHost) error {
	return r.db.Delete(host).Error
}

// FindAllNotUpdatedSince 查询updated_at早于指定时间的当前主机
func (r *HostRepository) FindAllNotUpdatedSince(t time.Time) ([]model.CurrentHost, error) {
	var hosts []model.CurrentHost
	err := r.db.Where("updated_at <= ?", t).Order("updated_at ASC").Find(&hosts).Error
	return hosts, err
}

// FindAll 查询全部当前主机
func (r *HostRepository) FindAll() ([]model.CurrentHost, error) {
	var hosts []model.CurrentHost
	err := r.db.Order("hostname ASC").Find(&hosts).Error
	return hosts, err
}

// List 主机列表查询
func (r *HostRepository) List(req *dto.HostListRequest) ([]model.CurrentHost, int64, error) {
	var hosts []model.CurrentHost
	var total int64

	query := r.db.Model(&model.CurrentHost{})

	// 过滤条件
	if req.Environment != nil && *req.Environment != "" {
		query = query.Where("environment = ?", *req.Environment)
	}
	if req.Location != nil && *req.Location != "" {
		query = query.Where("location = ?", *req.Location)
	}
	if req.HostType != nil && *req.HostType != "" {
		query = query.Where("host_type = ?", *req.HostType)
	}
	if req.Search != nil && *req.Search != "" {
		like := "%" + *req.Search + "%"
		query = query.Where("LOWER(hostname) LIKE LOWER(?) OR LOWER(databases) LIKE LOWER(?)", like, like)
	}

	// 计数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (req.Page - 1) * req.PageSize
	err := query.Order("hostname ASC").
		Limit(req.PageSize).
		Offset(offset).
		Find(&hosts).Error

	return hosts, total, err
}

// CreateHistorical 追加历史快照
func (r *HostRepository) CreateHistorical(host *model.HistoricalHost) error {
	return r.db.Create(host).Error
}

// FindLatestHistoricalBefore 查询指定日期前最近归档的历史快照
func (r *HostRepository) FindLatestHistoricalBefore(hostname string, date time.Time) (*model.HistoricalHost, error) {
	var host model.HistoricalHost
	err := r.db.Where("hostname = ? AND archived_at <= ?", hostname, date).
		Order("archived_at DESC").
		First(&host).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &host, nil
}

// DeleteHistoricalOlderThan 删除archived_at早于指定时间的历史快照
func (r *HostRepository) DeleteHistoricalOlderThan(t time.Time) (int64, error) {
	result := r.db.Where("archived_at <= ?", t).Delete(&model.HistoricalHost{})
	return result.RowsAffected, result.Error
}

// ClearClusterBackReference 清除主机的集群关联
func (r *HostRepository) ClearClusterBackReference(hostname string) error {
	return r.db.Model(&model.CurrentHost{}).
		Where("hostname = ?", hostname).
		Updates(map[string]interface{}{
			"associated_cluster_name":        nil,
			"associated_hypervisor_hostname": nil,
		}).Error
}

// SetClusterBackReference 设置主机的集群关联
func (r *HostRepository) SetClusterBackReference(hostname, clusterName, physicalHost string) error {
	return r.db.Model(&model.CurrentHost{}).
		Where("hostname = ?", hostname).
		Updates(map[string]interface{}{
			"associated_cluster_name":        clusterName,
			"associated_hypervisor_hostname": physicalHost,
		}).Error
}
