package notification

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbfleet/internal/model"
	"dbfleet/internal/pkg/config"
)

type sentMail struct {
	subject string
	body    string
}

type fakeSender struct {
	mu    sync.Mutex
	mails []sentMail
	fail  bool
}

func (s *fakeSender) Send(subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.mails = append(s.mails, sentMail{subject: subject, body: body})
	return nil
}

func (s *fakeSender) sent() []sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMail(nil), s.mails...)
}

func mailConfig(severity string) *config.MailConfig {
	return &config.MailConfig{
		Enabled:  true,
		Severity: severity,
		From:     "dbfleet@example.com",
		To:       []string{"ops@example.com"},
	}
}

func alertFor(hostname string, severity model.AlertSeverity, seq int) model.Alert {
	return model.Alert{
		Hostname:    hostname,
		Code:        model.AlertCodeNewOption,
		Severity:    severity,
		Status:      model.AlertStatusNew,
		Description: fmt.Sprintf("alert %d", seq),
		Date:        time.Now(),
	}
}

func TestNotifierFiltersBySeverity(t *testing.T) {
	sender := &fakeSender{}
	n := newMailNotifier(mailConfig("MAJOR"), sender, 2)

	n.Publish(alertFor("h1", model.SeverityNotice, 1))
	n.Publish(alertFor("h1", model.SeverityWarning, 2))
	n.Publish(alertFor("h1", model.SeverityMajor, 3))
	n.Publish(alertFor("h1", model.SeverityCritical, 4))
	n.Close()

	require.Len(t, sender.sent(), 2)
}

func TestNotifierDisabled(t *testing.T) {
	cfg := mailConfig("NOTICE")
	cfg.Enabled = false
	sender := &fakeSender{}
	n := newMailNotifier(cfg, sender, 2)

	n.Publish(alertFor("h1", model.SeverityCritical, 1))
	n.Close()

	assert.Empty(t, sender.sent())
}

func TestNotifierKeepsPerHostOrder(t *testing.T) {
	sender := &fakeSender{}
	n := newMailNotifier(mailConfig("NOTICE"), sender, 4)

	const perHost = 20
	for i := 0; i < perHost; i++ {
		n.Publish(alertFor("h1", model.SeverityCritical, i))
		n.Publish(alertFor("h2", model.SeverityCritical, i))
	}
	n.Close()

	mails := sender.sent()
	require.Len(t, mails, 2*perHost)

	// 同一主机的告警必须按投递顺序发送
	lastSeq := map[string]int{"h1": -1, "h2": -1}
	for _, m := range mails {
		var seq int
		var hostname string
		_, err := fmt.Sscanf(m.body, "alert %d\n\nHost: %s", &seq, &hostname)
		require.NoError(t, err)
		assert.Greater(t, seq, lastSeq[hostname], "host %s out of order", hostname)
		lastSeq[hostname] = seq
	}
	assert.Equal(t, perHost-1, lastSeq["h1"])
	assert.Equal(t, perHost-1, lastSeq["h2"])
}

func TestNotifierLogsAndContinuesOnFailure(t *testing.T) {
	sender := &fakeSender{fail: true}
	n := newMailNotifier(mailConfig("NOTICE"), sender, 1)

	n.Publish(alertFor("h1", model.SeverityCritical, 1))
	n.Close()

	assert.Empty(t, sender.sent())
}

func TestNotifierDefaultsThreshold(t *testing.T) {
	sender := &fakeSender{}
	n := newMailNotifier(mailConfig(""), sender, 1)

	n.Publish(alertFor("h1", model.SeverityWarning, 1))
	n.Publish(alertFor("h1", model.SeverityMajor, 2))
	n.Close()

	// 未配置阈值时按MAJOR处理
	require.Len(t, sender.sent(), 1)
}
