package model

import "time"

const AlertTableName = "alert"

// AlertCode 告警类型
type AlertCode string

const (
	AlertCodeNewServer   AlertCode = "NEW_SERVER"
	AlertCodeNewDatabase AlertCode = "NEW_DATABASE"
	AlertCodeNewOption   AlertCode = "NEW_OPTION"
	AlertCodeNewLicense  AlertCode = "NEW_LICENSE"
	AlertCodeNoData      AlertCode = "NO_DATA"
	AlertCodeMissingHost AlertCode = "MISSING_HOST"
)

// AlertSeverity 告警级别
type AlertSeverity string

const (
	SeverityNotice   AlertSeverity = "NOTICE"
	SeverityMinor    AlertSeverity = "MINOR"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityMajor    AlertSeverity = "MAJOR"
	SeverityCritical AlertSeverity = "CRITICAL"
)

var severityRank = map[AlertSeverity]int{
	SeverityNotice:   1,
	SeverityMinor:    2,
	SeverityWarning:  3,
	SeverityMajor:    4,
	SeverityCritical: 5,
}

// Rank 返回级别序号, 未知级别返回0
func (s AlertSeverity) Rank() int {
	return severityRank[s]
}

// AlertStatus 告警状态: NEW → ACK, 不可逆
type AlertStatus string

const (
	AlertStatusNew AlertStatus = "NEW"
	AlertStatusAck AlertStatus = "ACK"
)

// Alert 告警记录
type Alert struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Hostname    string        `gorm:"size:255;not null;index:idx_alert_host_code" json:"hostname"`
	Code        AlertCode     `gorm:"size:32;not null;index:idx_alert_host_code" json:"code"`
	Severity    AlertSeverity `gorm:"size:16;not null" json:"severity"`
	Status      AlertStatus   `gorm:"size:8;not null;default:NEW;index" json:"status"`
	Description string        `gorm:"type:text" json:"description"`
	Date        time.Time     `gorm:"not null" json:"date"`
}

func (Alert) TableName() string {
	return AlertTableName
}
