package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
	"dbfleet/pkg/constants"
)

// AlertIntent 状态迁移分析得出的待持久化告警
type AlertIntent struct {
	Code        model.AlertCode
	Severity    model.AlertSeverity
	Description string
}

// MismatchError 上一快照中声明过的Option在新快照中消失
// 不中断入库, 由调用方记录日志
type MismatchError struct {
	Feature string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("option %q present in previous snapshot is missing from the new one", e.Feature)
}

// 企业版许可证名称
var enterpriseLicensePattern = regexp.MustCompile(`[oO]racle E(NT|XT)`)

// Analyze 比较上一快照与新快照, 按固定顺序产出告警:
// NEW_SERVER → NEW_DATABASE → NEW_LICENSE → NEW_OPTION(重复启用) → NEW_OPTION(新启用)
// prev为nil表示首次上报
//
// 返回*MismatchError时已产出的告警仍然有效
func Analyze(prev *model.CurrentHost, next *dto.HostSnapshot) ([]AlertIntent, error) {
	var intents []AlertIntent

	if prev == nil {
		intents = append(intents, AlertIntent{
			Code:        model.AlertCodeNewServer,
			Severity:    model.SeverityNotice,
			Description: fmt.Sprintf("A new server was added to the fleet: %s", next.Hostname),
		})
	}

	prevDatabases := ""
	var prevExtra *dto.ExtraInfoDoc
	var prevInfo *dto.HostInfoDoc
	if prev != nil {
		prevDatabases = prev.Databases
		var err error
		if prevExtra, err = dto.DecodeExtraInfo(prev.ExtraInfo); err != nil {
			prevExtra = &dto.ExtraInfoDoc{}
		}
		if prevInfo, err = dto.DecodeHostInfo(prev.HostInfo); err != nil {
			prevInfo = &dto.HostInfoDoc{}
		}
	} else {
		prevExtra = &dto.ExtraInfoDoc{}
		prevInfo = &dto.HostInfoDoc{}
	}

	nextExtra, err := dto.DecodeExtraInfo(next.Extra)
	if err != nil {
		nextExtra = &dto.ExtraInfoDoc{}
	}
	nextInfo, err := dto.DecodeHostInfo(next.Info)
	if err != nil {
		nextInfo = &dto.HostInfoDoc{}
	}

	// 新数据库: 按空白分词后求差集
	if newDBs := diffDatabases(prevDatabases, next.Databases); len(newDBs) > 0 {
		var desc string
		if len(newDBs) == 1 {
			desc = fmt.Sprintf("A new database was created on %s: %s", next.Hostname, newDBs[0])
		} else {
			desc = fmt.Sprintf("New databases were created on %s: %s", next.Hostname, strings.Join(newDBs, ", "))
		}
		intents = append(intents, AlertIntent{
			Code:        model.AlertCodeNewDatabase,
			Severity:    model.SeverityNotice,
			Description: desc,
		})
	}

	// 企业版许可证: 新出现企业版授权, 或CPU核数增长
	if next.HostType == constants.HostTypeOracleDB {
		if hasEnterpriseLicense(nextExtra) && !hasEnterpriseLicense(prevExtra) {
			intents = append(intents, AlertIntent{
				Code:        model.AlertCodeNewLicense,
				Severity:    model.SeverityCritical,
				Description: fmt.Sprintf("An Enterprise license has been activated on %s", next.Hostname),
			})
		} else if prev != nil && prevInfo.CPUCores < nextInfo.CPUCores {
			intents = append(intents, AlertIntent{
				Code:        model.AlertCodeNewLicense,
				Severity:    model.SeverityCritical,
				Description: fmt.Sprintf("CPU cores on %s increased from %d to %d", next.Hostname, prevInfo.CPUCores, nextInfo.CPUCores),
			})
		}
	}

	optionIntents, err := analyzeOptions(prevExtra, nextExtra, next.Hostname)
	intents = append(intents, optionIntents...)
	return intents, err
}

// diffDatabases 返回出现在next而不在prev中的数据库名, 保持next中的顺序
func diffDatabases(prev, next string) []string {
	known := make(map[string]struct{})
	for _, name := range strings.Fields(prev) {
		known[name] = struct{}{}
	}
	var added []string
	for _, name := range strings.Fields(next) {
		if _, ok := known[name]; !ok {
			added = append(added, name)
			known[name] = struct{}{}
		}
	}
	return added
}

// hasEnterpriseLicense 快照中任一数据库持有用量大于0的企业版授权
func hasEnterpriseLicense(extra *dto.ExtraInfoDoc) bool {
	for _, db := range extra.Databases {
		for _, lic := range db.Licenses {
			if lic.Count > 0 && enterpriseLicensePattern.MatchString(lic.Name) {
				return true
			}
		}
	}
	return false
}

// analyzeOptions 对每个数据库的Option做差异分析
//
// 新快照中Status=true的Option按以下规则分类:
//   - 上一快照同库已启用: 无告警
//   - 上一快照同库为Status=false: 新启用(CRITICAL)
//   - 上一快照同库未列出, 但其他库已启用: 重复启用(NOTICE)
//   - 其余情况(含全新数据库): 新启用(CRITICAL)
//
// 上一快照中Status=false的Option在新快照中完全消失视为Schema不一致,
// 返回*MismatchError并放弃剩余的Option分析
func analyzeOptions(prevExtra, nextExtra *dto.ExtraInfoDoc, hostname string) ([]AlertIntent, error) {
	prevFeatures := featureMap(prevExtra)
	nextNames := make(map[string]struct{})
	for _, db := range nextExtra.Databases {
		for _, f := range db.Features {
			nextNames[f.Name] = struct{}{}
		}
	}

	// Schema一致性: 之前列出过的未启用Option必须仍然被上报
	for _, features := range prevFeatures {
		for name, status := range features {
			if status {
				continue
			}
			if _, ok := nextNames[name]; !ok {
				return nil, &MismatchError{Feature: name}
			}
		}
	}

	activeElsewhere := func(dbName, feature string) bool {
		for otherDB, features := range prevFeatures {
			if otherDB == dbName {
				continue
			}
			if features[feature] {
				return true
			}
		}
		return false
	}

	var duplicated, activated []AlertIntent
	for _, db := range nextExtra.Databases {
		var dupFeatures, newFeatures []string
		prevDB, dbExisted := prevFeatures[db.Name]
		for _, f := range db.Features {
			if !f.Status {
				continue
			}
			if dbExisted {
				if status, listed := prevDB[f.Name]; listed {
					if !status {
						newFeatures = append(newFeatures, f.Name)
					}
					continue
				}
			}
			if activeElsewhere(db.Name, f.Name) {
				dupFeatures = append(dupFeatures, f.Name)
			} else {
				newFeatures = append(newFeatures, f.Name)
			}
		}
		if len(dupFeatures) > 0 {
			duplicated = append(duplicated, AlertIntent{
				Code:        model.AlertCodeNewOption,
				Severity:    model.SeverityNotice,
				Description: fmt.Sprintf("Database %s on %s enabled options already in use on another database: %s", db.Name, hostname, strings.Join(dupFeatures, ", ")),
			})
		}
		if len(newFeatures) > 0 {
			activated = append(activated, AlertIntent{
				Code:        model.AlertCodeNewOption,
				Severity:    model.SeverityCritical,
				Description: fmt.Sprintf("Database %s on %s enabled new options: %s", db.Name, hostname, strings.Join(newFeatures, ", ")),
			})
		}
	}
	return append(duplicated, activated...), nil
}

// featureMap 按数据库名索引Option状态
func featureMap(extra *dto.ExtraInfoDoc) map[string]map[string]bool {
	result := make(map[string]map[string]bool, len(extra.Databases))
	for _, db := range extra.Databases {
		features := make(map[string]bool, len(db.Features))
		for _, f := range db.Features {
			features[f.Name] = f.Status
		}
		result[db.Name] = features
	}
	return result
}
