package repository

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"linkgate-go/internal/model"
	"linkgate-go/pkg/logging"
)

var DB *gorm.DB

func InitDB(logger *zap.Logger, atomicLogLevel zap.AtomicLevel) {
	dsn := viper.GetString("db.dsn")
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logging.NewGormLogger(logger, logging.ToGormLogLevel(atomicLogLevel.Level())), // 注入 logger 并转换级别
		TranslateError: true,                                                                          // 唯一键冲突统一映射为 gorm.ErrDuplicatedKey
	})
	if err != nil {
		logging.Logger.Fatal("Failed to connect database", zap.Error(err))
	}

	if err := Migrate(db); err != nil {
		logging.Logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	DB = db
}

// Migrate 建表，测试环境也走同一套迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.ShortLink{},
		&model.AnalyticsRecord{},
		&model.AccessSample{},
		&model.DailyStat{},
		&model.LinkDomain{},
	)
}
