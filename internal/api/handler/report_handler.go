package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dbfleet/internal/service"
	"dbfleet/pkg/responses"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// PatchAdvisor 导出补丁建议报表
// @Summary 导出补丁建议报表
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param window_months query int false "补丁窗口(月), 默认6"
// @Success 200 {file} binary
// @Router /api/v1/reports/patch-advisor.xlsx [get]
func (h *ReportHandler) PatchAdvisor(c *gin.Context) {
	windowMonths := 6
	if raw := c.Query("window_months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			responses.ErrorWithCode(c, responses.CodeBadRequest, "无效的window_months参数")
			return
		}
		windowMonths = n
	}

	data, err := h.reportService.PatchAdvisor(windowMonths)
	if err != nil {
		responses.Error(c, err)
		return
	}

	writeXLSX(c, fmt.Sprintf("patch-advisor-%s.xlsx", time.Now().Format("20060102")), data)
}

// ADDM 导出ADDM发现项报表
// @Summary 导出ADDM发现项报表
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /api/v1/reports/addm.xlsx [get]
func (h *ReportHandler) ADDM(c *gin.Context) {
	data, err := h.reportService.ADDM()
	if err != nil {
		responses.Error(c, err)
		return
	}

	writeXLSX(c, fmt.Sprintf("addm-%s.xlsx", time.Now().Format("20060102")), data)
}

func writeXLSX(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
