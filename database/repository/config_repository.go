package repository

import (
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/model"

	"gorm.io/gorm"
)

// PanelConfigRepository 定义面板连接配置（config 表）的数据访问接口
type PanelConfigRepository interface {
	Find() (*model.PanelConfig, error)
	Replace(cfg *model.PanelConfig) error
	Count() (int64, error)

	GetDB() *gorm.DB
}

type panelConfigRepository struct {
	db *gorm.DB
}

// NewPanelConfigRepository 创建新的 PanelConfigRepository 实例
func NewPanelConfigRepository(db *gorm.DB) PanelConfigRepository {
	return &panelConfigRepository{
		db: db,
	}
}

func (r *panelConfigRepository) GetDB() *gorm.DB {
	return r.db
}

// Find 读取当前配置，表为空时返回 gorm.ErrRecordNotFound
func (r *panelConfigRepository) Find() (*model.PanelConfig, error) {
	cfg := &model.PanelConfig{}
	err := r.db.Model(model.PanelConfig{}).Order("id").First(cfg).Error
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Replace 在一个事务里清空整表并写入新配置
func (r *panelConfigRepository) Replace(cfg *model.PanelConfig) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.PanelConfig{}).Error; err != nil {
			return err
		}
		row := *cfg
		row.Id = 0
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		cfg.Id = row.Id
		return nil
	})
}

func (r *panelConfigRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(model.PanelConfig{}).Count(&count).Error
	return count, err
}

// ScrapeConfigRepository 定义订阅页地址（scrape_config 表）的数据访问接口
type ScrapeConfigRepository interface {
	Find() (*model.ScrapeConfig, error)
	Replace(cfg *model.ScrapeConfig) error
	Count() (int64, error)

	GetDB() *gorm.DB
}

type scrapeConfigRepository struct {
	db *gorm.DB
}

// NewScrapeConfigRepository 创建新的 ScrapeConfigRepository 实例
func NewScrapeConfigRepository(db *gorm.DB) ScrapeConfigRepository {
	return &scrapeConfigRepository{
		db: db,
	}
}

func (r *scrapeConfigRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *scrapeConfigRepository) Find() (*model.ScrapeConfig, error) {
	cfg := &model.ScrapeConfig{}
	err := r.db.Model(model.ScrapeConfig{}).Order("id").First(cfg).Error
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *scrapeConfigRepository) Replace(cfg *model.ScrapeConfig) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.ScrapeConfig{}).Error; err != nil {
			return err
		}
		row := *cfg
		row.Id = 0
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		cfg.Id = row.Id
		return nil
	})
}

func (r *scrapeConfigRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(model.ScrapeConfig{}).Count(&count).Error
	return count, err
}
