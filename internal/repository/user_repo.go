package repository

import (
	"time"

	"gorm.io/gorm"

	"dbfleet/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername 按用户名查询用户
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// UpdateLastLogin 更新最近登录时间
func (r *UserRepository) UpdateLastLogin(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Update("last_login_at", time.Now()).Error
}
