package dto

// LicenseUpdateRequest 许可证配额更新
type LicenseUpdateRequest struct {
	LicenseCount int `json:"license_count" binding:"min=0"`
}

// LicenseResponse 许可证配额
type LicenseResponse struct {
	Name         string `json:"name"`
	LicenseCount int    `json:"license_count"`
}

// LicenseUsageResponse 许可证用量
// Used 由当前主机快照中的Licenses文档汇总, 修正项(license_modifier)优先
type LicenseUsageResponse struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`     // 配额
	Used      float64 `json:"used"`      // 已用
	Remaining float64 `json:"remaining"` // 剩余(可为负)
}

// TagRequest 数据库标签
type TagRequest struct {
	Hostname string `json:"hostname" binding:"required"`
	Dbname   string `json:"dbname" binding:"required"`
	Tag      string `json:"tag" binding:"required"`
}

// LicenseModifierRequest 许可证用量修正
type LicenseModifierRequest struct {
	Hostname    string `json:"hostname" binding:"required"`
	Dbname      string `json:"dbname" binding:"required"`
	LicenseName string `json:"license_name" binding:"required"`
	NewValue    int    `json:"new_value" binding:"min=0"`
}
