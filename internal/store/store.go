package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-satire/internal/model"
)

// Store 配置与投稿历史的持久层
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate 建表
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&model.TenantConfig{}, &model.PostRecord{})
}

// ListActiveTenantConfigs 列出所有激活的账号配置
func (s *Store) ListActiveTenantConfigs() ([]model.TenantConfig, error) {
	var configs []model.TenantConfig
	if err := s.db.Where("is_active = ?", true).Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("list active configs: %w", err)
	}
	return configs, nil
}

// ListTenantConfigs 列出全部账号配置
func (s *Store) ListTenantConfigs() ([]model.TenantConfig, error) {
	var configs []model.TenantConfig
	if err := s.db.Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	return configs, nil
}

// GetTenantConfig 按ID查询配置,不存在时返回nil
func (s *Store) GetTenantConfig(id uint) (*model.TenantConfig, error) {
	var config model.TenantConfig
	err := s.db.First(&config, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get config %d: %w", id, err)
	}
	return &config, nil
}

// CreateTenantConfig 新建账号配置
func (s *Store) CreateTenantConfig(config *model.TenantConfig) error {
	if err := s.db.Create(config).Error; err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	return nil
}

// UpdateTenantConfig 按ID更新部分字段
func (s *Store) UpdateTenantConfig(id uint, updates map[string]interface{}) error {
	if err := s.db.Model(&model.TenantConfig{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update config %d: %w", id, err)
	}
	return nil
}

// DeleteTenantConfig 按ID删除配置
func (s *Store) DeleteTenantConfig(id uint) error {
	if err := s.db.Delete(&model.TenantConfig{}, id).Error; err != nil {
		return fmt.Errorf("delete config %d: %w", id, err)
	}
	return nil
}

// AppendPostRecord 追加一条投稿记录,成功发布后恰好写入一次
func (s *Store) AppendPostRecord(record *model.PostRecord) error {
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("append post record: %w", err)
	}
	return nil
}

// ListPostRecords 按配置查询投稿历史,最多limit条
func (s *Store) ListPostRecords(configID uint, limit int) ([]model.PostRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []model.PostRecord
	err := s.db.Where("config_id = ?", configID).
		Order("posted_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list post records: %w", err)
	}
	return records, nil
}

// CountTenantConfigs 统计配置数(总数/激活数)
func (s *Store) CountTenantConfigs() (total int64, active int64, err error) {
	if err = s.db.Model(&model.TenantConfig{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.Model(&model.TenantConfig{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

// CountPostRecords 统计投稿总数
func (s *Store) CountPostRecords() (int64, error) {
	var count int64
	if err := s.db.Model(&model.PostRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
