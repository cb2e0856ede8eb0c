package dto

import (
	"encoding/json"
)

// SnapshotPayload Agent上报的原始快照
// 字段名与Agent端JSON保持一致
type SnapshotPayload struct {
	Hostname      string          `json:"Hostname"`
	Environment   string          `json:"Environment"`
	Location      string          `json:"Location"`
	Version       string          `json:"Version"` // Agent版本
	ServerVersion string          `json:"ServerVersion"`
	HostType      string          `json:"HostType"`
	Databases     string          `json:"Databases"` // 空格分隔
	Schemas       string          `json:"Schemas"`
	Info          json.RawMessage `json:"Info"`
	Extra         json.RawMessage `json:"Extra"`
}

// HostSnapshot 校验并填充默认值后的规范化快照
type HostSnapshot struct {
	Hostname      string
	Environment   string
	Location      string
	HostType      string
	AgentVersion  string
	ServerVersion string
	Databases     string
	Schemas       string
	Info          json.RawMessage
	Extra         json.RawMessage
}

// HostInfoDoc Info文档的类型化视图
// 仅声明入库分析用到的字段, 其余内容原样存储
type HostInfoDoc struct {
	CPUCores    int     `json:"CPUCores"`
	CPUThreads  int     `json:"CPUThreads"`
	CPUModel    string  `json:"CPUModel"`
	Socket      int     `json:"Socket"`
	MemoryTotal float64 `json:"MemoryTotal"`
	OS          string  `json:"OS"`
	Kernel      string  `json:"Kernel"`
	Virtual     bool    `json:"Virtual"`
}

// ExtraInfoDoc Extra文档的类型化视图
type ExtraInfoDoc struct {
	Databases []DatabaseDoc `json:"Databases"`
	Clusters  []ClusterDoc  `json:"Clusters"`
}

// DatabaseDoc 数据库实例文档
type DatabaseDoc struct {
	Name            string              `json:"Name"`
	Version         string              `json:"Version"`
	Features        []FeatureDoc        `json:"Features"`
	Licenses        []LicenseDoc        `json:"Licenses"`
	Tablespaces     []TablespaceDoc     `json:"Tablespaces"`
	SegmentAdvisors []SegmentAdvisorDoc `json:"SegmentAdvisors"`
	ADDMs           []ADDMDoc           `json:"ADDMs"`
	LastPSUs        []PSUDoc            `json:"LastPSUs"`
	Used            float64             `json:"Used"`
	SegmentsSize    float64             `json:"SegmentsSize"`
}

// FeatureDoc 数据库Option/Feature状态
type FeatureDoc struct {
	Name   string `json:"Name"`
	Status bool   `json:"Status"`
}

// LicenseDoc 数据库许可证用量
type LicenseDoc struct {
	Name  string  `json:"Name"`
	Count float64 `json:"Count"`
}

// TablespaceDoc 表空间
type TablespaceDoc struct {
	Name     string  `json:"Name"`
	Total    float64 `json:"Total"`
	Used     float64 `json:"Used"`
	UsedPerc float64 `json:"UsedPerc"`
	Status   string  `json:"Status"`
}

// SegmentAdvisorDoc 段顾问建议
type SegmentAdvisorDoc struct {
	SegmentOwner   string  `json:"SegmentOwner"`
	SegmentName    string  `json:"SegmentName"`
	SegmentType    string  `json:"SegmentType"`
	Partition      string  `json:"Partition"`
	Reclaimable    float64 `json:"Reclaimable"`
	Recommendation string  `json:"Recommendation"`
}

// ADDMDoc ADDM发现项
type ADDMDoc struct {
	Action         string  `json:"Action"`
	Benefit        float64 `json:"Benefit"`
	Finding        string  `json:"Finding"`
	Recommendation string  `json:"Recommendation"`
}

// PSUDoc 补丁记录
type PSUDoc struct {
	Date        string `json:"Date"`
	Description string `json:"Description"`
}

// ClusterDoc 虚拟化快照中的集群
type ClusterDoc struct {
	Name    string  `json:"Name"`
	Type    string  `json:"Type"`
	CPU     int     `json:"CPU"`
	Sockets int     `json:"Sockets"`
	VMs     []VMDoc `json:"VMs"`
}

// VMDoc 集群成员虚拟机
type VMDoc struct {
	Name         string `json:"Name"`
	Hostname     string `json:"Hostname"`
	ClusterName  string `json:"ClusterName"`
	PhysicalHost string `json:"PhysicalHost"`
}

// DecodeExtraInfo 解析Extra文档
func DecodeExtraInfo(raw []byte) (*ExtraInfoDoc, error) {
	if len(raw) == 0 {
		return &ExtraInfoDoc{}, nil
	}
	doc := &ExtraInfoDoc{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DecodeHostInfo 解析Info文档
func DecodeHostInfo(raw []byte) (*HostInfoDoc, error) {
	if len(raw) == 0 {
		return &HostInfoDoc{}, nil
	}
	doc := &HostInfoDoc{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
