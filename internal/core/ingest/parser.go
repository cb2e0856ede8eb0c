package ingest

import (
	"encoding/json"
	"strings"

	"dbfleet/internal/dto"
	"dbfleet/pkg/constants"
	"dbfleet/pkg/responses"
)

// ParseSnapshot 解析Agent上报的快照
// hostTypeParam 为查询参数HostType, 优先级低于请求体内的HostType
func ParseSnapshot(body []byte, hostTypeParam string) (*dto.HostSnapshot, error) {
	if len(body) == 0 {
		return nil, responses.New(responses.CodeBadRequest, "请求体为空")
	}

	var payload dto.SnapshotPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, responses.Wrap(responses.CodeBadRequest, "快照JSON解析失败", err)
	}

	hostname := strings.TrimSpace(payload.Hostname)
	if hostname == "" {
		return nil, responses.New(responses.CodeBadRequest, "快照缺少Hostname")
	}

	// 主机类型: 请求体优先, 其次查询参数, 都没有则按oracledb处理
	hostType := payload.HostType
	if hostType == "" {
		hostType = hostTypeParam
	}
	if hostType == "" {
		hostType = constants.HostTypeOracleDB
	}
	switch hostType {
	case constants.HostTypeOracleDB, constants.HostTypeVirtualization, constants.HostTypeExadata:
	default:
		return nil, responses.New(responses.CodeBadRequest, "未知的HostType: "+hostType)
	}

	agentVersion := payload.Version
	if agentVersion == "" {
		agentVersion = constants.DefaultAgentVersion
	}

	return &dto.HostSnapshot{
		Hostname:      hostname,
		Environment:   payload.Environment,
		Location:      payload.Location,
		HostType:      hostType,
		AgentVersion:  agentVersion,
		ServerVersion: payload.ServerVersion,
		Databases:     payload.Databases,
		Schemas:       payload.Schemas,
		Info:          payload.Info,
		Extra:         payload.Extra,
	}, nil
}
