package notification

import (
	"fmt"
	"hash/fnv"
	"sync"

	"gopkg.in/gomail.v2"

	"dbfleet/internal/model"
	"dbfleet/internal/pkg/config"
	"dbfleet/internal/pkg/logger"
	"dbfleet/internal/pkg/metrics"

	"go.uber.org/zap"
)

const (
	defaultWorkers   = 20
	workerQueueDepth = 64
)

// Sender 邮件发送接口
type Sender interface {
	Send(subject, body string) error
}

// SMTPSender 基于gomail的SMTP发送实现
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	to     []string
}

func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

func (s *SMTPSender) Send(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// MailNotifier 告警邮件通知器
//
// 固定数量的worker消费告警, 同一hostname固定路由到同一worker,
// 保证单主机告警按投递顺序发送; 队列满时Publish阻塞形成背压
type MailNotifier struct {
	cfg       *config.MailConfig
	sender    Sender
	threshold int
	queues    []chan model.Alert
	wg        sync.WaitGroup

	closeOnce sync.Once
}

func NewMailNotifier(cfg *config.MailConfig, sender Sender) *MailNotifier {
	return newMailNotifier(cfg, sender, defaultWorkers)
}

func newMailNotifier(cfg *config.MailConfig, sender Sender, workers int) *MailNotifier {
	n := &MailNotifier{
		cfg:       cfg,
		sender:    sender,
		threshold: model.AlertSeverity(cfg.Severity).Rank(),
		queues:    make([]chan model.Alert, workers),
	}
	if n.threshold == 0 {
		n.threshold = model.SeverityMajor.Rank()
	}
	for i := range n.queues {
		n.queues[i] = make(chan model.Alert, workerQueueDepth)
		n.wg.Add(1)
		go n.worker(n.queues[i])
	}
	return n
}

// Publish 投递一条告警
// 未启用邮件或级别低于阈值的告警直接丢弃
func (n *MailNotifier) Publish(alert model.Alert) {
	if !n.cfg.Enabled {
		return
	}
	if alert.Severity.Rank() < n.threshold {
		metrics.MailTotal.WithLabelValues("skipped").Inc()
		return
	}
	n.queues[n.queueIndex(alert.Hostname)] <- alert
}

// Close 停止接收并等待队列排空
func (n *MailNotifier) Close() {
	n.closeOnce.Do(func() {
		for _, q := range n.queues {
			close(q)
		}
	})
	n.wg.Wait()
}

func (n *MailNotifier) queueIndex(hostname string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(hostname))
	return int(h.Sum32() % uint32(len(n.queues)))
}

func (n *MailNotifier) worker(queue <-chan model.Alert) {
	defer n.wg.Done()
	for alert := range queue {
		subject := fmt.Sprintf("[%s] %s on %s", alert.Severity, alert.Code, alert.Hostname)
		body := fmt.Sprintf("%s\n\nHost: %s\nSeverity: %s\nDate: %s\n",
			alert.Description, alert.Hostname, alert.Severity, alert.Date.Format("2006-01-02 15:04:05"))

		// 发送失败只记录, 不影响已提交的入库事务
		if err := n.sender.Send(subject, body); err != nil {
			metrics.MailTotal.WithLabelValues("failed").Inc()
			logger.Error("告警邮件发送失败",
				zap.String("hostname", alert.Hostname),
				zap.String("code", string(alert.Code)),
				zap.Error(err))
			continue
		}
		metrics.MailTotal.WithLabelValues("sent").Inc()
	}
}
