package dto

import (
	"time"

	"dbfleet/internal/model"
)

// AlertListRequest 告警列表查询
type AlertListRequest struct {
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"page_size,default=20" binding:"min=1,max=200"`
	Hostname *string `form:"hostname"`
	Status   *string `form:"status" binding:"omitempty,oneof=NEW ACK"`
	Severity *string `form:"severity" binding:"omitempty,oneof=NOTICE MINOR WARNING MAJOR CRITICAL"`
	Code     *string `form:"code"`
}

// AlertResponse 告警
type AlertResponse struct {
	ID          int64     `json:"id"`
	Hostname    string    `json:"hostname"`
	Code        string    `json:"code"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// ToAlertResponse 模型转响应
func ToAlertResponse(a *model.Alert) *AlertResponse {
	return &AlertResponse{
		ID:          a.ID,
		Hostname:    a.Hostname,
		Code:        string(a.Code),
		Severity:    string(a.Severity),
		Status:      string(a.Status),
		Description: a.Description,
		Date:        a.Date,
	}
}
