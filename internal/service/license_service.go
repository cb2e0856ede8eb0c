package service

import (
	"sort"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
	"dbfleet/internal/repository"
	"dbfleet/pkg/responses"
)

type LicenseService struct {
	licenseRepo *repository.LicenseRepository
	hostRepo    *repository.HostRepository
}

func NewLicenseService(db *gorm.DB) *LicenseService {
	return &LicenseService{
		licenseRepo: repository.NewLicenseRepository(db),
		hostRepo:    repository.NewHostRepository(db),
	}
}

// List 许可证配额列表
func (s *LicenseService) List() ([]dto.LicenseResponse, error) {
	licenses, err := s.licenseRepo.FindAll()
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询许可证失败", err)
	}

	return lo.Map(licenses, func(lic model.License, _ int) dto.LicenseResponse {
		return dto.LicenseResponse{Name: lic.Name, LicenseCount: lic.LicenseCount}
	}), nil
}

// Update 更新许可证配额
func (s *LicenseService) Update(name string, req *dto.LicenseUpdateRequest) (*dto.LicenseResponse, error) {
	if err := s.licenseRepo.Upsert(&model.License{Name: name, LicenseCount: req.LicenseCount}); err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "更新许可证失败", err)
	}

	license, err := s.licenseRepo.FindByName(name)
	if err != nil || license == nil {
		return nil, responses.Wrap(responses.CodeInternalError, "回读许可证失败", err)
	}
	return &dto.LicenseResponse{Name: license.Name, LicenseCount: license.LicenseCount}, nil
}

// Usage 许可证用量汇总
// 逐台主机展开快照中的Licenses文档求和, 有修正项(license_modifier)的以修正值为准
func (s *LicenseService) Usage() ([]dto.LicenseUsageResponse, error) {
	licenses, err := s.licenseRepo.FindAll()
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询许可证失败", err)
	}

	modifiers, err := s.licenseRepo.FindAllModifiers()
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询许可证修正项失败", err)
	}
	type modifierKey struct {
		hostname, dbname, license string
	}
	modifierByKey := make(map[modifierKey]int, len(modifiers))
	for _, m := range modifiers {
		modifierByKey[modifierKey{m.Hostname, m.Dbname, m.LicenseName}] = m.NewValue
	}

	hosts, err := s.hostRepo.FindAll()
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询主机失败", err)
	}

	used := make(map[string]float64)
	for i := range hosts {
		host := &hosts[i]
		extra, err := dto.DecodeExtraInfo(host.ExtraInfo)
		if err != nil {
			continue
		}
		for _, db := range extra.Databases {
			for _, lic := range db.Licenses {
				if value, ok := modifierByKey[modifierKey{host.Hostname, db.Name, lic.Name}]; ok {
					used[lic.Name] += float64(value)
				} else {
					used[lic.Name] += lic.Count
				}
			}
		}
	}

	resps := make([]dto.LicenseUsageResponse, 0, len(licenses))
	seen := make(map[string]struct{}, len(licenses))
	for _, lic := range licenses {
		seen[lic.Name] = struct{}{}
		resps = append(resps, dto.LicenseUsageResponse{
			Name:      lic.Name,
			Count:     lic.LicenseCount,
			Used:      used[lic.Name],
			Remaining: float64(lic.LicenseCount) - used[lic.Name],
		})
	}
	// 快照中出现但没有配额记录的许可证也要列出
	for name, u := range used {
		if _, ok := seen[name]; ok {
			continue
		}
		resps = append(resps, dto.LicenseUsageResponse{Name: name, Used: u, Remaining: -u})
	}
	sort.Slice(resps, func(i, j int) bool { return resps[i].Name < resps[j].Name })
	return resps, nil
}

// CreateTag 为数据库打标签
func (s *LicenseService) CreateTag(req *dto.TagRequest) error {
	tag := &model.DatabaseTagAssociation{
		Hostname: req.Hostname,
		Dbname:   req.Dbname,
		Tag:      req.Tag,
	}
	if err := s.licenseRepo.CreateTag(tag); err != nil {
		return responses.Wrap(responses.CodeInternalError, "创建标签失败", err)
	}
	return nil
}

// DeleteTag 删除标签
func (s *LicenseService) DeleteTag(id int64) error {
	deleted, err := s.licenseRepo.DeleteTag(id)
	if err != nil {
		return responses.Wrap(responses.CodeInternalError, "删除标签失败", err)
	}
	if !deleted {
		return responses.ErrRecordNotFound
	}
	return nil
}

// SaveModifier 写入许可证用量修正项
func (s *LicenseService) SaveModifier(req *dto.LicenseModifierRequest) error {
	modifier := &model.LicenseModifier{
		Hostname:    req.Hostname,
		Dbname:      req.Dbname,
		LicenseName: req.LicenseName,
		NewValue:    req.NewValue,
	}
	if err := s.licenseRepo.UpsertModifier(modifier); err != nil {
		return responses.Wrap(responses.CodeInternalError, "保存许可证修正项失败", err)
	}
	return nil
}
