package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"dbfleet/internal/dto"
	"dbfleet/internal/service"
	"dbfleet/pkg/responses"
	"dbfleet/pkg/utils"
)

type LicenseHandler struct {
	licenseService *service.LicenseService
}

func NewLicenseHandler(licenseService *service.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

// List 许可证配额列表
// @Summary 许可证配额列表
// @Tags 许可证
// @Produce json
// @Success 200 {array} dto.LicenseResponse
// @Router /api/v1/licenses [get]
func (h *LicenseHandler) List(c *gin.Context) {
	resp, err := h.licenseService.List()
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, resp)
}

// Update 更新许可证配额
// @Summary 更新许可证配额
// @Tags 许可证
// @Accept json
// @Produce json
// @Param name path string true "许可证名"
// @Param request body dto.LicenseUpdateRequest true "配额"
// @Success 200 {object} dto.LicenseResponse
// @Router /api/v1/licenses/{name} [put]
func (h *LicenseHandler) Update(c *gin.Context) {
	var req dto.LicenseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "请求参数错误: "+utils.FormatValidationError(err))
		return
	}

	resp, err := h.licenseService.Update(c.Param("name"), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, resp)
}

// Usage 许可证用量
// @Summary 许可证用量
// @Tags 许可证
// @Produce json
// @Success 200 {array} dto.LicenseUsageResponse
// @Router /api/v1/licenses/usage [get]
func (h *LicenseHandler) Usage(c *gin.Context) {
	resp, err := h.licenseService.Usage()
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, resp)
}

// CreateTag 创建数据库标签
// @Summary 创建数据库标签
// @Tags 许可证
// @Accept json
// @Produce json
// @Param request body dto.TagRequest true "标签"
// @Success 200 {object} responses.Response
// @Router /api/v1/tags [post]
func (h *LicenseHandler) CreateTag(c *gin.Context) {
	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "请求参数错误: "+utils.FormatValidationError(err))
		return
	}

	if err := h.licenseService.CreateTag(&req); err != nil {
		responses.Error(c, err)
		return
	}
	responses.SuccessWithMessage(c, "标签已创建", nil)
}

// DeleteTag 删除数据库标签
// @Summary 删除数据库标签
// @Tags 许可证
// @Produce json
// @Param id path int true "标签ID"
// @Success 200 {object} responses.Response
// @Router /api/v1/tags/{id} [delete]
func (h *LicenseHandler) DeleteTag(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "无效的标签ID")
		return
	}

	if err := h.licenseService.DeleteTag(id); err != nil {
		responses.Error(c, err)
		return
	}
	responses.SuccessWithMessage(c, "标签已删除", nil)
}

// SaveModifier 保存许可证用量修正项
// @Summary 保存许可证用量修正项
// @Tags 许可证
// @Accept json
// @Produce json
// @Param request body dto.LicenseModifierRequest true "修正项"
// @Success 200 {object} responses.Response
// @Router /api/v1/licenses/modifiers [put]
func (h *LicenseHandler) SaveModifier(c *gin.Context) {
	var req dto.LicenseModifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "请求参数错误: "+utils.FormatValidationError(err))
		return
	}

	if err := h.licenseService.SaveModifier(&req); err != nil {
		responses.Error(c, err)
		return
	}
	responses.SuccessWithMessage(c, "修正项已保存", nil)
}
