package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"linkgate-go/internal/apperrors"
	"linkgate-go/internal/model"
)

type AnalyticsRepo struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// GetByLinkID 读取短链对应的统计记录
func (r *AnalyticsRepo) GetByLinkID(linkID uint) (*model.AnalyticsRecord, error) {
	var record model.AnalyticsRecord
	if err := r.db.Where("short_link_id = ?", linkID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// RecordAccess 记录一次成功访问：clicks 原子加一，整体替换五个描述字段，
// 并追加一条历史采样。clickLimit > 0 时把 clicks < limit 放进 WHERE，
// 两个并发访问同时通过策略检查也只有一个能落在限额内
func (r *AnalyticsRepo) RecordAccess(linkID uint, d model.AccessDescriptors, now time.Time, clickLimit int64) (*model.AnalyticsRecord, error) {
	var record model.AnalyticsRecord
	err := r.db.Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&model.AnalyticsRecord{}).
			Where("short_link_id = ?", linkID)
		if clickLimit > 0 {
			update = update.Where("clicks < ?", clickLimit)
		}
		res := update.Updates(map[string]interface{}{
			"clicks":   gorm.Expr("clicks + 1"),
			"geo":      d.Geo,
			"device":   d.Device,
			"os":       d.OS,
			"browser":  d.Browser,
			"referrer": d.Referrer,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 要么记录不存在，要么并发竞争中输给了最后一次配额
			var exists model.AnalyticsRecord
			if err := tx.Where("short_link_id = ?", linkID).First(&exists).Error; err != nil {
				return apperrors.ErrNotFound
			}
			return apperrors.ErrClickLimitExceeded
		}

		if err := tx.Where("short_link_id = ?", linkID).First(&record).Error; err != nil {
			return err
		}

		sample := model.AccessSample{
			ShortLinkID: linkID,
			AccessedAt:  now,
			Clicks:      record.Clicks,
		}
		return tx.Create(&sample).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ClicksByLink 返回所有短链当前的点击数，供导出使用
func (r *AnalyticsRepo) ClicksByLink() (map[uint]int64, error) {
	var records []model.AnalyticsRecord
	if err := r.db.Select("short_link_id", "clicks").Find(&records).Error; err != nil {
		return nil, err
	}
	clicks := make(map[uint]int64, len(records))
	for _, record := range records {
		clicks[record.ShortLinkID] = record.Clicks
	}
	return clicks, nil
}

// History 返回某条短链的全部访问采样，按时间先后排序
func (r *AnalyticsRepo) History(linkID uint) ([]model.AccessSample, error) {
	var samples []model.AccessSample
	if err := r.db.Where("short_link_id = ?", linkID).Order("id ASC").Find(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}
