package repository

import (
	"errors"

	"gorm.io/gorm"

	"linkgate-go/internal/model"
)

type DomainRepo struct {
	db *gorm.DB
}

func NewDomainRepo(db *gorm.DB) *DomainRepo {
	return &DomainRepo{db: db}
}

// Create 登记一个自定义域名，重复登记报唯一键冲突
func (r *DomainRepo) Create(domain *model.LinkDomain) error {
	return r.db.Create(domain).Error
}

// Exists 判断域名是否已登记
func (r *DomainRepo) Exists(domain string) (bool, error) {
	var d model.LinkDomain
	err := r.db.Select("id").Where("domain = ?", domain).First(&d).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// List 分页查询已登记域名
func (r *DomainRepo) List(page, size int, domain string) ([]model.LinkDomain, int64, error) {
	db := r.db.Model(&model.LinkDomain{})
	if domain != "" {
		db = db.Where("domain LIKE ?", "%"+domain+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.LinkDomain{}, 0, nil
	}

	var domains []model.LinkDomain
	if err := db.
		Limit(size).
		Offset((page - 1) * size).
		Order("id DESC").
		Find(&domains).Error; err != nil {
		return nil, 0, err
	}
	return domains, total, nil
}

// Delete 注销一个已登记域名
func (r *DomainRepo) Delete(id uint) error {
	return r.db.Delete(&model.LinkDomain{}, id).Error
}
