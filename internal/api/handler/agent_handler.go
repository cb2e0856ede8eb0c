package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dbfleet/internal/core/ingest"
	"dbfleet/internal/service"
	"dbfleet/pkg/responses"
)

// AgentHandler Agent上报接口
// 面向机器的接口使用真实HTTP状态码: 200/400/401/429/500
type AgentHandler struct {
	coordinator *ingest.Coordinator
	hostService *service.HostService
}

func NewAgentHandler(coordinator *ingest.Coordinator, hostService *service.HostService) *AgentHandler {
	return &AgentHandler{
		coordinator: coordinator,
		hostService: hostService,
	}
}

// Update Agent快照上报
// @Summary Agent快照上报
// @Tags Agent
// @Accept json
// @Produce json
// @Param HostType query string false "主机类型" Enums(oracledb, virtualization, exadata)
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /agent/update [post]
func (h *AgentHandler) Update(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取请求体失败"})
		return
	}

	snapshot, err := ingest.ParseSnapshot(body, c.Query("HostType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.coordinator.Submit(c.Request.Context(), snapshot)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "hostname": snapshot.Hostname})
}

// AbsenceReport Agent上报主机失联
// @Summary 上报主机失联
// @Tags Agent
// @Produce json
// @Param hostname path string true "主机名"
// @Success 200 {object} map[string]string
// @Router /alerts/missing-host/{hostname} [post]
func (h *AgentHandler) AbsenceReport(c *gin.Context) {
	hostname := c.Param("hostname")
	if hostname == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少hostname"})
		return
	}

	if err := h.coordinator.AbsenceReport(c.Request.Context(), hostname); err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "recorded", "hostname": hostname})
}

// Historical 查询指定日期前最近归档的历史快照
// @Summary 查询历史快照
// @Tags Agent
// @Produce json
// @Param hostname query string true "主机名"
// @Param date query string false "日期(YYYY-MM-DD), 默认当前时间"
// @Success 200 {object} dto.HistoricalHostResponse
// @Failure 404 {object} map[string]string
// @Router /historical [get]
func (h *AgentHandler) Historical(c *gin.Context) {
	hostname := c.Query("hostname")
	if hostname == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少hostname"})
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date格式应为YYYY-MM-DD"})
			return
		}
		// 取该日期当天结束前的快照
		date = parsed.AddDate(0, 0, 1)
	}

	resp, err := h.hostService.Historical(hostname, date)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// writeAgentError 业务错误码映射到HTTP状态码
func writeAgentError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var appErr *responses.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case responses.CodeBadRequest:
			status = http.StatusBadRequest
		case responses.CodeUnauthorized:
			status = http.StatusUnauthorized
		case responses.CodeNotFound:
			status = http.StatusNotFound
		case responses.CodeRateLimited:
			status = http.StatusTooManyRequests
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
