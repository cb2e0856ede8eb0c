package service

import (
	"gorm.io/gorm"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
	"dbfleet/internal/repository"
	"dbfleet/pkg/responses"
)

// alertStore AlertService依赖的存储操作
type alertStore interface {
	List(req *dto.AlertListRequest) ([]model.Alert, int64, error)
	FindByID(id int64) (*model.Alert, error)
	Ack(id int64) (bool, error)
}

type AlertService struct {
	alertRepo alertStore
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{
		alertRepo: repository.NewAlertRepository(db),
	}
}

// List 告警列表
func (s *AlertService) List(req *dto.AlertListRequest) ([]dto.AlertResponse, int64, error) {
	alerts, total, err := s.alertRepo.List(req)
	if err != nil {
		return nil, 0, responses.Wrap(responses.CodeInternalError, "查询告警列表失败", err)
	}

	resps := make([]dto.AlertResponse, len(alerts))
	for i := range alerts {
		resps[i] = *dto.ToAlertResponse(&alerts[i])
	}
	return resps, total, nil
}

// Ack 确认告警
// 幂等: 首次确认返回true, 重复确认返回false
func (s *AlertService) Ack(id int64) (bool, error) {
	alert, err := s.alertRepo.FindByID(id)
	if err != nil {
		return false, responses.Wrap(responses.CodeInternalError, "查询告警失败", err)
	}
	if alert == nil {
		return false, responses.ErrRecordNotFound
	}

	changed, err := s.alertRepo.Ack(id)
	if err != nil {
		return false, responses.Wrap(responses.CodeInternalError, "确认告警失败", err)
	}
	return changed, nil
}
