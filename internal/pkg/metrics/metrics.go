package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// IngestTotal 快照入库结果计数 (inserted/updated/rejected/error)
var IngestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dbfleet",
	Subsystem: "ingest",
	Name:      "snapshots_total",
	Help:      "Snapshot submissions by result.",
}, []string{"result"})

// AlertTotal 告警产生计数
var AlertTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dbfleet",
	Subsystem: "alert",
	Name:      "fired_total",
	Help:      "Alerts persisted by code.",
}, []string{"code"})

// MailTotal 邮件通知计数 (sent/failed/skipped)
var MailTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dbfleet",
	Subsystem: "notify",
	Name:      "mail_total",
	Help:      "Mail notifications by outcome.",
}, []string{"outcome"})
