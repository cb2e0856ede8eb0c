package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
	"dbfleet/internal/pkg/logger"
	"dbfleet/internal/pkg/metrics"
	"dbfleet/pkg/constants"
	"dbfleet/pkg/responses"
)

// Coordinator 快照入库协调器, 主机快照的唯一写路径
// 同一hostname同时只允许一个在途提交, 冲突的提交立即失败
type Coordinator struct {
	store      Store
	sink       AlertSink
	updateRate time.Duration

	// hostname → *sync.Mutex, 条目数与在管主机数同量级, 不回收
	locks sync.Map

	// 测试注入
	now func() time.Time
}

func NewCoordinator(store Store, sink AlertSink, updateRate time.Duration) *Coordinator {
	return &Coordinator{
		store:      store,
		sink:       sink,
		updateRate: updateRate,
		now:        time.Now,
	}
}

// Submit 提交一份快照
// 返回constants.IngestInserted或constants.IngestUpdated;
// 同一主机并发提交或提交间隔小于updateRate时返回ErrRateLimited
func (c *Coordinator) Submit(ctx context.Context, snapshot *dto.HostSnapshot) (string, error) {
	mu := c.lockFor(snapshot.Hostname)
	if !mu.TryLock() {
		metrics.IngestTotal.WithLabelValues(constants.IngestRejected).Inc()
		return "", responses.ErrRateLimited
	}
	defer mu.Unlock()

	var result string
	var emitted []model.Alert

	err := c.store.Transaction(ctx, func(tx Store) error {
		now := c.now()

		prev, err := tx.Hosts().FindByHostname(snapshot.Hostname)
		if err != nil {
			return err
		}
		if prev != nil && now.Sub(prev.UpdatedAt) < c.updateRate {
			return responses.ErrRateLimited
		}

		host := buildCurrentHost(snapshot, now)
		if err := c.fixBackReference(tx, host); err != nil {
			return err
		}

		if prev == nil {
			result = constants.IngestInserted
			if err := tx.Hosts().Create(host); err != nil {
				return err
			}
		} else {
			result = constants.IngestUpdated
			if err := tx.Hosts().CreateHistorical(prev.ToHistorical(now)); err != nil {
				return err
			}
			if err := tx.Hosts().Delete(prev); err != nil {
				return err
			}
			if err := tx.Hosts().Create(host); err != nil {
				return err
			}
		}

		intents, aerr := Analyze(prev, snapshot)
		if aerr != nil {
			var mismatch *MismatchError
			if !errors.As(aerr, &mismatch) {
				return aerr
			}
			// Schema不一致只记录, 不回滚本次入库
			logger.Warn("快照Option与上一快照不一致",
				zap.String("hostname", snapshot.Hostname),
				zap.String("feature", mismatch.Feature))
		}
		for _, intent := range intents {
			alert := model.Alert{
				Hostname:    snapshot.Hostname,
				Code:        intent.Code,
				Severity:    intent.Severity,
				Status:      model.AlertStatusNew,
				Description: intent.Description,
				Date:        now,
			}
			if err := tx.Alerts().Create(&alert); err != nil {
				return err
			}
			metrics.AlertTotal.WithLabelValues(string(alert.Code)).Inc()
			emitted = append(emitted, alert)
		}

		if snapshot.HostType == constants.HostTypeVirtualization {
			var prevClusters []dto.ClusterDoc
			if prev != nil {
				prevExtra, err := dto.DecodeExtraInfo(prev.ExtraInfo)
				if err == nil {
					prevClusters = prevExtra.Clusters
				}
			}
			nextExtra, err := dto.DecodeExtraInfo(snapshot.Extra)
			if err != nil {
				return responses.Wrap(responses.CodeBadRequest, "虚拟化快照Extra解析失败", err)
			}
			if err := ReconcileClusters(tx, prevClusters, nextExtra.Clusters, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, responses.ErrRateLimited) {
			metrics.IngestTotal.WithLabelValues(constants.IngestRejected).Inc()
		} else {
			metrics.IngestTotal.WithLabelValues(constants.IngestError).Inc()
		}
		return "", err
	}

	metrics.IngestTotal.WithLabelValues(result).Inc()

	// 事务提交后才投递, 投递失败不影响本次入库
	if c.sink != nil {
		for _, alert := range emitted {
			c.sink.Publish(alert)
		}
	}
	return result, nil
}

// AbsenceReport 记录主机失联
// 该主机尚无MISSING_HOST告警时创建一条NOTICE告警
func (c *Coordinator) AbsenceReport(ctx context.Context, hostname string) error {
	var created *model.Alert
	err := c.store.Transaction(ctx, func(tx Store) error {
		exists, err := tx.Alerts().ExistsByHostnameAndCode(hostname, model.AlertCodeMissingHost)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		alert := model.Alert{
			Hostname:    hostname,
			Code:        model.AlertCodeMissingHost,
			Severity:    model.SeverityNotice,
			Status:      model.AlertStatusNew,
			Description: fmt.Sprintf("Host %s was reported missing by its agent", hostname),
			Date:        c.now(),
		}
		if err := tx.Alerts().Create(&alert); err != nil {
			return err
		}
		metrics.AlertTotal.WithLabelValues(string(alert.Code)).Inc()
		created = &alert
		return nil
	})
	if err != nil {
		return err
	}
	if created != nil && c.sink != nil {
		c.sink.Publish(*created)
	}
	return nil
}

// fixBackReference 入库前回填集群关联
// 用存储层的忽略大小写+去域名匹配查找VM
func (c *Coordinator) fixBackReference(tx Store, host *model.CurrentHost) error {
	vm, err := tx.Clusters().FindVMByHostname(host.Hostname)
	if err != nil {
		return err
	}
	if vm == nil {
		return nil
	}
	host.AssociatedClusterName = &vm.ClusterName
	host.AssociatedHypervisorHostname = &vm.PhysicalHost
	return nil
}

// lockFor 返回hostname对应的互斥锁
func (c *Coordinator) lockFor(hostname string) *sync.Mutex {
	value, _ := c.locks.LoadOrStore(hostname, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// buildCurrentHost 由规范化快照构造当前主机记录
func buildCurrentHost(snapshot *dto.HostSnapshot, now time.Time) *model.CurrentHost {
	return &model.CurrentHost{
		Hostname:      snapshot.Hostname,
		Environment:   snapshot.Environment,
		Location:      snapshot.Location,
		HostType:      snapshot.HostType,
		AgentVersion:  snapshot.AgentVersion,
		ServerVersion: snapshot.ServerVersion,
		Databases:     snapshot.Databases,
		Schemas:       snapshot.Schemas,
		ExtraInfo:     datatypes.JSON(snapshot.Extra),
		HostInfo:      datatypes.JSON(snapshot.Info),
		UpdatedAt:     now,
	}
}
