package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"linkgate-go/internal/apperrors"
	"linkgate-go/internal/model"
)

type LinkRepo struct {
	db *gorm.DB
}

func NewLinkRepo(db *gorm.DB) *LinkRepo {
	return &LinkRepo{db: db}
}

// Insert 在一个事务内插入短链和清零的统计记录
// (domain, slug) 的唯一性由数据库复合唯一索引裁决，并发插入只有一个能成功
func (r *LinkRepo) Insert(link *model.ShortLink) (*model.AnalyticsRecord, error) {
	var analytics model.AnalyticsRecord
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(link).Error; err != nil {
			if isDuplicateKey(err) {
				return apperrors.ErrDuplicateSlug
			}
			return err
		}
		analytics = model.AnalyticsRecord{ShortLinkID: link.ID}
		return tx.Create(&analytics).Error
	})
	if err != nil {
		return nil, err
	}
	return &analytics, nil
}

// Lookup 按 (domain, slug) 查询短链，未命中返回 ErrNotFound
func (r *LinkRepo) Lookup(domain, slug string) (*model.ShortLink, error) {
	var link model.ShortLink
	if err := r.db.Where("domain = ? AND slug = ?", domain, slug).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// List 分页查询短链列表，slug 支持模糊匹配
func (r *LinkRepo) List(page, size int, slug string) ([]model.ShortLink, int64, error) {
	db := r.db.Model(&model.ShortLink{})
	if slug != "" {
		db = db.Where("slug LIKE ?", "%"+slug+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.ShortLink{}, 0, nil
	}

	var links []model.ShortLink
	if err := db.
		Limit(size).
		Offset((page - 1) * size).
		Order("id DESC").
		Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

// All 返回全部短链，供导出和统计汇总使用
func (r *LinkRepo) All() ([]model.ShortLink, error) {
	var links []model.ShortLink
	if err := r.db.Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// isDuplicateKey 识别唯一键冲突
// TranslateError 打开后 MySQL/SQLite 都映射为 gorm.ErrDuplicatedKey，
// 字符串兜底针对未实现 ErrorTranslator 的驱动
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}
