package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
	"dbfleet/pkg/responses"
)

// fakeAlertRepo 内存告警存储
type fakeAlertRepo struct {
	alerts  map[int64]*model.Alert
	lastReq *dto.AlertListRequest
}

func newFakeAlertRepo(alerts ...*model.Alert) *fakeAlertRepo {
	repo := &fakeAlertRepo{alerts: make(map[int64]*model.Alert)}
	for _, a := range alerts {
		repo.alerts[a.ID] = a
	}
	return repo
}

func (f *fakeAlertRepo) List(req *dto.AlertListRequest) ([]model.Alert, int64, error) {
	f.lastReq = req
	var out []model.Alert
	for _, a := range f.alerts {
		if req.Code != nil && *req.Code != "" && string(a.Code) != *req.Code {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAlertRepo) FindByID(id int64) (*model.Alert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAlertRepo) Ack(id int64) (bool, error) {
	a, ok := f.alerts[id]
	if !ok || a.Status != model.AlertStatusNew {
		return false, nil
	}
	a.Status = model.AlertStatusAck
	return true, nil
}

func newAlert(id int64, code model.AlertCode) *model.Alert {
	return &model.Alert{
		ID:       id,
		Hostname: "h1",
		Code:     code,
		Severity: model.SeverityNotice,
		Status:   model.AlertStatusNew,
		Date:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestAckFirstTrueThenFalse(t *testing.T) {
	repo := newFakeAlertRepo(newAlert(1, model.AlertCodeNewDatabase))
	s := &AlertService{alertRepo: repo}

	changed, err := s.Ack(1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.AlertStatusAck, repo.alerts[1].Status)

	// 重复确认: 状态保持ACK, 返回未变更
	changed, err = s.Ack(1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.AlertStatusAck, repo.alerts[1].Status)
}

func TestAckUnknownAlert(t *testing.T) {
	s := &AlertService{alertRepo: newFakeAlertRepo()}

	_, err := s.Ack(42)
	require.ErrorIs(t, err, responses.ErrRecordNotFound)
}

func TestListFiltersByCode(t *testing.T) {
	repo := newFakeAlertRepo(
		newAlert(1, model.AlertCodeNewDatabase),
		newAlert(2, model.AlertCodeNewServer),
	)
	s := &AlertService{alertRepo: repo}

	code := string(model.AlertCodeNewDatabase)
	resps, total, err := s.List(&dto.AlertListRequest{Page: 1, PageSize: 20, Code: &code})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, resps, 1)
	assert.Equal(t, string(model.AlertCodeNewDatabase), resps[0].Code)

	// code过滤条件透传到存储层
	require.NotNil(t, repo.lastReq)
	require.NotNil(t, repo.lastReq.Code)
	assert.Equal(t, code, *repo.lastReq.Code)
}
