package repository

import (
	"gorm.io/gorm"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create 保存告警
func (r *AlertRepository) Create(alert *model.Alert) error {
	return r.db.Create(alert).Error
}

// FindByID 按ID查询告警
func (r *AlertRepository) FindByID(id int64) (*model.Alert, error) {
	var alert model.Alert
	err := r.db.First(&alert, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// Ack 确认告警, 返回状态是否发生变化
func (r *AlertRepository) Ack(id int64) (bool, error) {
	result := r.db.Model(&model.Alert{}).
		Where("id = ? AND status = ?", id, model.AlertStatusNew).
		Update("status", model.AlertStatusAck)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ExistsByHostnameAndCode 判断主机是否已有指定类型的告警(不区分状态)
func (r *AlertRepository) ExistsByHostnameAndCode(hostname string, code model.AlertCode) (bool, error) {
	var count int64
	err := r.db.Model(&model.Alert{}).
		Where("hostname = ? AND code = ?", hostname, code).
		Count(&count).Error
	return count > 0, err
}

// ExistsNewByHostnameAndCode 判断主机是否已有指定类型的未确认告警
func (r *AlertRepository) ExistsNewByHostnameAndCode(hostname string, code model.AlertCode) (bool, error) {
	var count int64
	err := r.db.Model(&model.Alert{}).
		Where("hostname = ? AND code = ? AND status = ?", hostname, code, model.AlertStatusNew).
		Count(&count).Error
	return count > 0, err
}

// List 告警列表查询
func (r *AlertRepository) List(req *dto.AlertListRequest) ([]model.Alert, int64, error) {
	var alerts []model.Alert
	var total int64

	query := r.db.Model(&model.Alert{})

	if req.Status != nil && *req.Status != "" {
		query = query.Where("status = ?", *req.Status)
	}
	if req.Severity != nil && *req.Severity != "" {
		query = query.Where("severity = ?", *req.Severity)
	}
	if req.Hostname != nil && *req.Hostname != "" {
		query = query.Where("hostname = ?", *req.Hostname)
	}
	if req.Code != nil && *req.Code != "" {
		query = query.Where("code = ?", *req.Code)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (req.Page - 1) * req.PageSize
	err := query.Order("date DESC, id DESC").
		Limit(req.PageSize).
		Offset(offset).
		Find(&alerts).Error

	return alerts, total, err
}

// CountByStatus 按状态统计告警数
func (r *AlertRepository) CountByStatus(status model.AlertStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Alert{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
