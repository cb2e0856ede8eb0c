package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
	"dbfleet/internal/repository"
	"dbfleet/pkg/constants"
	"dbfleet/pkg/responses"
)

type ReportService struct {
	hostRepo *repository.HostRepository
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		hostRepo: repository.NewHostRepository(db),
	}
}

// PatchAdvisor 补丁状态报表
// 每个数据库取最近一次PSU, 超过windowMonths个月未打补丁的标记KO
func (s *ReportService) PatchAdvisor(windowMonths int) ([]byte, error) {
	if windowMonths <= 0 {
		windowMonths = 6
	}
	hosts, err := s.oracleHosts()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Patch Advisor"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "创建报表失败", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Hostname", "Database", "Version", "Latest PSU", "PSU Date", "Status"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return nil, err
	}

	deadline := time.Now().AddDate(0, -windowMonths, 0)
	row := 2
	for i := range hosts {
		host := &hosts[i]
		extra, err := dto.DecodeExtraInfo(host.ExtraInfo)
		if err != nil {
			continue
		}
		for _, db := range extra.Databases {
			psu, psuDate := latestPSU(db.LastPSUs)
			status := "KO"
			if psuDate != nil && psuDate.After(deadline) {
				status = "OK"
			}
			psuDateText := ""
			if psuDate != nil {
				psuDateText = psuDate.Format("2006-01-02")
			}
			if err := writeRow(f, sheet, row, []interface{}{
				host.Hostname, db.Name, db.Version, psu, psuDateText, status,
			}); err != nil {
				return nil, err
			}
			row++
		}
	}
	return fileBytes(f)
}

// ADDM ADDM发现项报表
func (s *ReportService) ADDM() ([]byte, error) {
	hosts, err := s.oracleHosts()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "ADDM"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "创建报表失败", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Hostname", "Database", "Finding", "Recommendation", "Action", "Benefit"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return nil, err
	}

	row := 2
	for i := range hosts {
		host := &hosts[i]
		extra, err := dto.DecodeExtraInfo(host.ExtraInfo)
		if err != nil {
			continue
		}
		for _, db := range extra.Databases {
			for _, addm := range db.ADDMs {
				if err := writeRow(f, sheet, row, []interface{}{
					host.Hostname, db.Name, addm.Finding, addm.Recommendation, addm.Action, addm.Benefit,
				}); err != nil {
					return nil, err
				}
				row++
			}
		}
	}
	return fileBytes(f)
}

func (s *ReportService) oracleHosts() ([]model.CurrentHost, error) {
	hostType := constants.HostTypeOracleDB
	hosts, _, err := s.hostRepo.List(&dto.HostListRequest{
		Page:     1,
		PageSize: constants.MaxPageSize * 50,
		HostType: &hostType,
	})
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询主机失败", err)
	}
	return hosts, nil
}

// latestPSU PSU日期格式不保证一致, 解析失败的条目只参与描述不参与排序
func latestPSU(psus []dto.PSUDoc) (string, *time.Time) {
	var latest *time.Time
	description := ""
	for _, psu := range psus {
		parsed, err := parsePSUDate(psu.Date)
		if err != nil {
			if description == "" {
				description = psu.Description
			}
			continue
		}
		if latest == nil || parsed.After(*latest) {
			latest = &parsed
			description = psu.Description
		}
	}
	return description, latest
}

func parsePSUDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05Z07:00", "02-Jan-2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized PSU date %q", value)
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return responses.Wrap(responses.CodeInternalError, "生成报表失败", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return responses.Wrap(responses.CodeInternalError, "生成报表失败", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return responses.Wrap(responses.CodeInternalError, "生成报表失败", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return responses.Wrap(responses.CodeInternalError, "生成报表失败", err)
		}
	}
	return nil
}

func fileBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "输出报表失败", err)
	}
	return buf.Bytes(), nil
}
