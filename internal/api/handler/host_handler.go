package handler

import (
	"github.com/gin-gonic/gin"

	"dbfleet/internal/dto"
	"dbfleet/internal/service"
	"dbfleet/pkg/responses"
	"dbfleet/pkg/utils"
)

type HostHandler struct {
	hostService *service.HostService
}

func NewHostHandler(hostService *service.HostService) *HostHandler {
	return &HostHandler{
		hostService: hostService,
	}
}

// List 主机列表
// @Summary 主机列表
// @Tags 主机
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param environment query string false "环境"
// @Param location query string false "机房"
// @Param host_type query string false "主机类型" Enums(oracledb, virtualization, exadata)
// @Param search query string false "模糊匹配主机名/数据库名"
// @Success 200 {array} dto.HostSummary
// @Router /api/v1/hosts [get]
func (h *HostHandler) List(c *gin.Context) {
	var req dto.HostListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "请求参数错误: "+utils.FormatValidationError(err))
		return
	}

	hosts, total, err := h.hostService.List(&req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.PageSuccess(c, hosts, total, req.Page, req.PageSize)
}

// Get 主机详情
// @Summary 主机详情
// @Tags 主机
// @Produce json
// @Param hostname path string true "主机名"
// @Success 200 {object} dto.HostDetailResponse
// @Router /api/v1/hosts/{hostname} [get]
func (h *HostHandler) Get(c *gin.Context) {
	resp, err := h.hostService.Detail(c.Param("hostname"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, resp)
}

// Archive 手动归档主机
// @Summary 归档主机
// @Tags 主机
// @Produce json
// @Param hostname path string true "主机名"
// @Success 200 {object} responses.Response
// @Router /api/v1/hosts/{hostname}/archive [post]
func (h *HostHandler) Archive(c *gin.Context) {
	if err := h.hostService.Archive(c.Param("hostname")); err != nil {
		responses.Error(c, err)
		return
	}
	responses.SuccessWithMessage(c, "主机已归档", nil)
}

// Dashboard 仪表盘聚合
// @Summary 仪表盘
// @Tags 主机
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /api/v1/dashboard [get]
func (h *HostHandler) Dashboard(c *gin.Context) {
	resp, err := h.hostService.Dashboard()
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, resp)
}
