package service

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"linkgate-go/constant"
	"linkgate-go/internal/model"
	"linkgate-go/internal/repository"
	"linkgate-go/pkg/logging"
)

// RecordDailyPV 记录每日 PV
func RecordDailyPV(conn redis.Conn, linkKey string) {
	dailyPvKey := constant.GetDailyPVKey(constant.GetDateKey())

	_, err := conn.Do("HINCRBY", dailyPvKey, linkKey, 1)
	if err != nil {
		logging.Logger.Error("Failed to record daily PV",
			zap.String("key", dailyPvKey),
			zap.String("link_key", linkKey),
			zap.Error(err))
	}

	_, err = conn.Do("EXPIRE", dailyPvKey, 3*24*3600) // 3天过期
	if err != nil {
		logging.Logger.Error("Failed to record daily PV Expire",
			zap.String("key", dailyPvKey),
			zap.String("link_key", linkKey),
			zap.Error(err))
	}
}

// RecordDailyUV 记录每日 UV
func RecordDailyUV(conn redis.Conn, linkKey string, ip string) {
	dailyUvKey := constant.GetDailyUVKey(linkKey, constant.GetDateKey())

	_, err := conn.Do("PFADD", dailyUvKey, ip)
	if err != nil {
		logging.Logger.Error("Failed to record daily UV",
			zap.String("key", dailyUvKey),
			zap.String("ip", ip),
			zap.Error(err))
	}

	_, err = conn.Do("EXPIRE", dailyUvKey, 3*24*3600) // 3天过期
	if err != nil {
		logging.Logger.Error("Failed to record daily UV Expire",
			zap.String("key", dailyUvKey),
			zap.String("link_key", linkKey),
			zap.Error(err))
	}
}

// RecordTotalPV 记录总 PV
func RecordTotalPV(conn redis.Conn, linkKey string) {
	totalPvKey := constant.GetTotalPVKey(linkKey)
	_, err := conn.Do("INCR", totalPvKey)
	if err != nil {
		logging.Logger.Error("Failed to record total PV",
			zap.String("key", totalPvKey),
			zap.String("link_key", linkKey),
			zap.Error(err))
	}
}

// RecordTotalUV 记录总UV
func RecordTotalUV(conn redis.Conn, linkKey string, ip string) {
	totalUvKey := constant.GetTotalUVKey(linkKey)
	_, err := conn.Do("PFADD", totalUvKey, ip)
	if err != nil {
		logging.Logger.Error("Failed to record total UV",
			zap.String("key", totalUvKey),
			zap.String("ip", ip),
			zap.Error(err))
	}
}

// GetDailyPv 获取某日期的短链接访问量（PV）
func GetDailyPv(conn redis.Conn, linkKey string, date string) (int64, error) {
	dailyPvKey := constant.GetDailyPVKey(date)

	reply, err := conn.Do("HGET", dailyPvKey, linkKey)
	if err != nil {
		logging.Logger.Error("Failed to get daily PV",
			zap.String("key", dailyPvKey),
			zap.String("link_key", linkKey),
			zap.Error(err))
		return 0, err
	}

	result, err := redis.Int64(reply, err)
	if err != nil {
		return 0, err
	}

	return result, nil
}

// GetDailyUv 获取某日期的短链接独立访客数（UV）
func GetDailyUv(conn redis.Conn, linkKey string, date string) (int64, error) {
	dailyUvKey := constant.GetDailyUVKey(linkKey, date)

	// PFCOUNT 查询 HyperLogLog 的基数
	reply, err := conn.Do("PFCOUNT", dailyUvKey)
	if err != nil {
		logging.Logger.Error("Failed to get daily UV",
			zap.String("key", dailyUvKey),
			zap.String("link_key", linkKey),
			zap.Error(err))
		return 0, err
	}

	result, err := redis.Int64(reply, err)
	if err != nil {
		return 0, err
	}

	return result, nil
}

// StatsService 负责把 Redis 里的 PV/UV 汇总进数据库
type StatsService struct {
	db    *gorm.DB
	links *repository.LinkRepo
	pool  *redis.Pool
}

func NewStatsService(db *gorm.DB, links *repository.LinkRepo, pool *redis.Pool) *StatsService {
	return &StatsService{db: db, links: links, pool: pool}
}

// Rollup 汇总所有短链当日的 PV/UV 到 DailyStat，由定时任务触发
func (s *StatsService) Rollup() error {
	logging.Logger.Info("Stats rollup start")
	links, err := s.links.All()
	if err != nil {
		logging.Logger.Error("获取短链列表失败", zap.Error(err))
		return err
	}

	today := time.Now().Format("2006-01-02")
	dateKey := time.Now().Format("20060102")
	for _, link := range links {
		s.rollupLink(link, today, dateKey)
	}

	logging.Logger.Info("Stats rollup end")
	return nil
}

func (s *StatsService) rollupLink(link model.ShortLink, today, dateKey string) {
	conn := s.pool.Get()
	defer repository.CloseRedisConn(conn)

	linkKey := constant.LinkKey(link.Domain, link.Slug)

	dailyPv, _ := GetDailyPv(conn, linkKey, dateKey)
	dailyUv, _ := GetDailyUv(conn, linkKey, dateKey)

	// 更新数据库中的每日统计
	dailyStat := &model.DailyStat{
		ShortLinkID: link.ID,
		Date:        today,
		PV:          dailyPv,
		UV:          dailyUv,
	}

	db := s.db.Where("short_link_id = ? AND date = ?", link.ID, today).
		Assign("pv", dailyPv, "uv", dailyUv).
		FirstOrCreate(dailyStat)

	if db.Error != nil {
		logging.Logger.Error("Failed to insert or update daily stat",
			zap.Uint("short_link_id", link.ID),
			zap.String("date", today),
			zap.Int64("pv", dailyPv),
			zap.Int64("uv", dailyUv),
			zap.Error(db.Error))
	}
}

// DailyStats 按短链 ID 查询汇总后的每日统计
func (s *StatsService) DailyStats(linkID uint) ([]model.DailyStat, error) {
	var stats []model.DailyStat
	err := s.db.Where("short_link_id = ?", linkID).Order("date DESC").Find(&stats).Error
	return stats, err
}
