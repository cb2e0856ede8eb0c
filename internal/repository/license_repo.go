package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dbfleet/internal/model"
)

type LicenseRepository struct {
	db *gorm.DB
}

func NewLicenseRepository(db *gorm.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

// FindAll 查询全部授权
func (r *LicenseRepository) FindAll() ([]model.License, error) {
	var licenses []model.License
	err := r.db.Order("name ASC").Find(&licenses).Error
	return licenses, err
}

// FindByName 按名称查询授权
func (r *LicenseRepository) FindByName(name string) (*model.License, error) {
	var license model.License
	err := r.db.Where("name = ?", name).First(&license).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &license, nil
}

// Upsert 写入或更新授权总数
func (r *LicenseRepository) Upsert(license *model.License) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"license_count"}),
	}).Create(license).Error
}

// CreateTag 为数据库打标签
func (r *LicenseRepository) CreateTag(tag *model.DatabaseTagAssociation) error {
	return r.db.Create(tag).Error
}

// DeleteTag 按ID删除标签
func (r *LicenseRepository) DeleteTag(id int64) (bool, error) {
	result := r.db.Delete(&model.DatabaseTagAssociation{}, id)
	return result.RowsAffected > 0, result.Error
}

// FindTagsByHostname 查询主机的全部标签
func (r *LicenseRepository) FindTagsByHostname(hostname string) ([]model.DatabaseTagAssociation, error) {
	var tags []model.DatabaseTagAssociation
	err := r.db.Where("hostname = ?", hostname).Find(&tags).Error
	return tags, err
}

// UpsertModifier 写入或更新授权用量修正值
func (r *LicenseRepository) UpsertModifier(modifier *model.LicenseModifier) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hostname"}, {Name: "dbname"}, {Name: "license_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"new_value"}),
	}).Create(modifier).Error
}

// FindAllModifiers 查询全部用量修正值
func (r *LicenseRepository) FindAllModifiers() ([]model.LicenseModifier, error) {
	var modifiers []model.LicenseModifier
	err := r.db.Find(&modifiers).Error
	return modifiers, err
}
