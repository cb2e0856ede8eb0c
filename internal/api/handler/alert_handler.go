package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"dbfleet/internal/dto"
	"dbfleet/internal/service"
	"dbfleet/pkg/responses"
	"dbfleet/pkg/utils"
)

type AlertHandler struct {
	alertService *service.AlertService
}

func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// List 告警列表
// @Summary 告警列表
// @Tags 告警
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param hostname query string false "主机名"
// @Param status query string false "状态" Enums(NEW, ACK)
// @Param severity query string false "级别" Enums(NOTICE, MINOR, WARNING, MAJOR, CRITICAL)
// @Success 200 {array} dto.AlertResponse
// @Router /api/v1/alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	var req dto.AlertListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "请求参数错误: "+utils.FormatValidationError(err))
		return
	}

	alerts, total, err := h.alertService.List(&req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.PageSuccess(c, alerts, total, req.Page, req.PageSize)
}

// Ack 确认告警
// @Summary 确认告警
// @Tags 告警
// @Produce json
// @Param id path int true "告警ID"
// @Success 200 {object} map[string]bool
// @Router /api/v1/alerts/{id}/ack [post]
func (h *AlertHandler) Ack(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "无效的告警ID")
		return
	}

	changed, err := h.alertService.Ack(id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, gin.H{"changed": changed})
}
