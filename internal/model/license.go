package model

const LicenseTableName = "license"
const DatabaseTagAssociationTableName = "database_tag_association"
const LicenseModifierTableName = "license_modifier"

// License 许可证配额
type License struct {
	Name         string `gorm:"primaryKey;size:128" json:"name"`
	LicenseCount int    `gorm:"column:license_count;not null;default:0" json:"license_count"`
}

func (License) TableName() string {
	return LicenseTableName
}

// DatabaseTagAssociation 数据库标签
type DatabaseTagAssociation struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Hostname string `gorm:"size:255;not null;index:idx_tag_host_db" json:"hostname"`
	Dbname   string `gorm:"size:255;not null;index:idx_tag_host_db" json:"dbname"`
	Tag      string `gorm:"size:128;not null" json:"tag"`
}

func (DatabaseTagAssociation) TableName() string {
	return DatabaseTagAssociationTableName
}

// LicenseModifier 许可证用量修正
// 用途: 人工覆盖某主机某数据库上报的许可证数量
type LicenseModifier struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Hostname    string `gorm:"size:255;not null;uniqueIndex:uk_modifier" json:"hostname"`
	Dbname      string `gorm:"size:255;not null;uniqueIndex:uk_modifier" json:"dbname"`
	LicenseName string `gorm:"size:128;not null;uniqueIndex:uk_modifier" json:"license_name"`
	NewValue    int    `gorm:"column:new_value;not null" json:"new_value"`
}

func (LicenseModifier) TableName() string {
	return LicenseModifierTableName
}
