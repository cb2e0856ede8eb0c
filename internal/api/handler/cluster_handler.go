package handler

import (
	"github.com/gin-gonic/gin"

	"dbfleet/internal/dto"
	"dbfleet/internal/service"
	"dbfleet/pkg/responses"
)

type ClusterHandler struct {
	clusterService *service.ClusterService
}

func NewClusterHandler(clusterService *service.ClusterService) *ClusterHandler {
	return &ClusterHandler{
		clusterService: clusterService,
	}
}

// List 集群列表
// @Summary 集群列表
// @Tags 集群
// @Produce json
// @Param filter query string false "模糊匹配集群名"
// @Success 200 {array} dto.ClusterResponse
// @Router /api/v1/clusters [get]
func (h *ClusterHandler) List(c *gin.Context) {
	var req dto.ClusterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.clusterService.List(&req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, resp)
}

// Get 集群详情
// @Summary 集群详情
// @Tags 集群
// @Produce json
// @Param name path string true "集群名"
// @Success 200 {object} dto.ClusterResponse
// @Router /api/v1/clusters/{name} [get]
func (h *ClusterHandler) Get(c *gin.Context) {
	resp, err := h.clusterService.Get(c.Param("name"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, resp)
}
