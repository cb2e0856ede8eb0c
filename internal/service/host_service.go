package service

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
	"dbfleet/internal/repository"
	"dbfleet/pkg/responses"
)

type HostService struct {
	hostRepo    *repository.HostRepository
	alertRepo   *repository.AlertRepository
	clusterRepo *repository.ClusterRepository
	licenseRepo *repository.LicenseRepository
	db          *gorm.DB
}

func NewHostService(db *gorm.DB) *HostService {
	return &HostService{
		hostRepo:    repository.NewHostRepository(db),
		alertRepo:   repository.NewAlertRepository(db),
		clusterRepo: repository.NewClusterRepository(db),
		licenseRepo: repository.NewLicenseRepository(db),
		db:          db,
	}
}

// List 主机列表
func (s *HostService) List(req *dto.HostListRequest) ([]dto.HostSummary, int64, error) {
	hosts, total, err := s.hostRepo.List(req)
	if err != nil {
		return nil, 0, responses.Wrap(responses.CodeInternalError, "查询主机列表失败", err)
	}

	summaries := make([]dto.HostSummary, len(hosts))
	for i := range hosts {
		summaries[i] = toHostSummary(&hosts[i])
	}
	return summaries, total, nil
}

// Detail 主机详情, 含类型化的上报文档
func (s *HostService) Detail(hostname string) (*dto.HostDetailResponse, error) {
	host, err := s.hostRepo.FindByHostname(hostname)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询主机失败", err)
	}
	if host == nil {
		return nil, responses.ErrHostNotFound
	}

	detail := &dto.HostDetailResponse{
		HostSummary:                  toHostSummary(host),
		Schemas:                      host.Schemas,
		ServerVersion:                host.ServerVersion,
		AssociatedHypervisorHostname: host.AssociatedHypervisorHostname,
	}
	if extra, err := dto.DecodeExtraInfo(host.ExtraInfo); err == nil {
		detail.ExtraInfo = extra
	}
	if info, err := dto.DecodeHostInfo(host.HostInfo); err == nil {
		detail.HostInfo = info
	}

	tags, err := s.licenseRepo.FindTagsByHostname(hostname)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询标签失败", err)
	}
	detail.Tags = lo.Map(tags, func(t model.DatabaseTagAssociation, _ int) dto.DatabaseTag {
		return dto.DatabaseTag{ID: t.ID, Dbname: t.Dbname, Tag: t.Tag}
	})
	return detail, nil
}

// Archive 手动归档主机
// 归档与删除在同一事务内完成
func (s *HostService) Archive(hostname string) error {
	host, err := s.hostRepo.FindByHostname(hostname)
	if err != nil {
		return responses.Wrap(responses.CodeInternalError, "查询主机失败", err)
	}
	if host == nil {
		return responses.ErrHostNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewHostRepository(tx)
		if err := repo.CreateHistorical(host.ToHistorical(time.Now())); err != nil {
			return err
		}
		return repo.Delete(host)
	})
	if err != nil {
		return responses.Wrap(responses.CodeInternalError, "归档主机失败", err)
	}
	return nil
}

// Historical 查询指定日期前最近归档的历史快照
func (s *HostService) Historical(hostname string, date time.Time) (*dto.HistoricalHostResponse, error) {
	host, err := s.hostRepo.FindLatestHistoricalBefore(hostname, date)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询历史快照失败", err)
	}
	if host == nil {
		return nil, responses.ErrNoHistoryFound
	}

	return &dto.HistoricalHostResponse{
		HostSummary: dto.HostSummary{
			ID:                    host.ID,
			Hostname:              host.Hostname,
			Environment:           host.Environment,
			Location:              host.Location,
			HostType:              host.HostType,
			AgentVersion:          host.AgentVersion,
			Databases:             host.Databases,
			AssociatedClusterName: host.AssociatedClusterName,
			UpdatedAt:             host.UpdatedAt,
		},
		ArchivedAt: host.ArchivedAt,
	}, nil
}

// Dashboard 仪表盘聚合
func (s *HostService) Dashboard() (*dto.DashboardResponse, error) {
	hosts, err := s.hostRepo.FindAll()
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询主机失败", err)
	}

	resp := &dto.DashboardResponse{
		HostCount:   int64(len(hosts)),
		HostsByType: make(map[string]int64),
		HostsByEnv:  make(map[string]int64),
	}

	var advice []dto.SegmentAdvice
	for i := range hosts {
		host := &hosts[i]
		resp.HostsByType[host.HostType]++
		if host.Environment != "" {
			resp.HostsByEnv[host.Environment]++
		}
		resp.DatabaseCount += len(strings.Fields(host.Databases))

		extra, err := dto.DecodeExtraInfo(host.ExtraInfo)
		if err != nil {
			continue
		}
		for _, db := range extra.Databases {
			for _, sa := range db.SegmentAdvisors {
				advice = append(advice, dto.SegmentAdvice{
					Hostname: host.Hostname,
					Dbname:   db.Name,
					Advice:   sa.Recommendation,
					Reclaim:  sa.Reclaimable,
				})
			}
		}
	}

	// 按可回收空间取前10条建议
	sort.Slice(advice, func(i, j int) bool { return advice[i].Reclaim > advice[j].Reclaim })
	if len(advice) > 10 {
		advice = advice[:10]
	}
	resp.TopSegmentAdvice = advice

	clusters, err := s.clusterRepo.List("")
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询集群失败", err)
	}
	resp.ClusterCount = int64(len(clusters))

	newAlerts, err := s.alertRepo.CountByStatus(model.AlertStatusNew)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "统计告警失败", err)
	}
	resp.NewAlertCount = newAlerts

	recent, _, err := s.alertRepo.List(&dto.AlertListRequest{Page: 1, PageSize: 10})
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询告警失败", err)
	}
	resp.RecentAlerts = lo.Map(recent, func(a model.Alert, _ int) dto.AlertResponse {
		return *dto.ToAlertResponse(&a)
	})
	return resp, nil
}

func toHostSummary(host *model.CurrentHost) dto.HostSummary {
	return dto.HostSummary{
		ID:                    host.ID,
		Hostname:              host.Hostname,
		Environment:           host.Environment,
		Location:              host.Location,
		HostType:              host.HostType,
		AgentVersion:          host.AgentVersion,
		Databases:             host.Databases,
		AssociatedClusterName: host.AssociatedClusterName,
		UpdatedAt:             host.UpdatedAt,
	}
}
