package db

import (
	"fmt"
	"time"

	"storebot/internal/config"
	"storebot/internal/domain/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"moul.io/zapgorm2"
)

const slowQueryThreshold = 200 * time.Millisecond

// Connect はDBに接続して *gorm.DB を返す。
// 接続はプールから文ごとに借りて返す（共有の1本の接続は使わない）。
func Connect(cfg config.DBConfig, zl *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.Driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		// unique違反を gorm.ErrDuplicatedKey に揃える
		TranslateError: true,
		Logger:         NewGormLogger(zl),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return gormDB, nil
}

// NewGormLogger はgormのログをzapへ流す。
// 見つからないだけのレコードはエラー扱いにしない。
func NewGormLogger(zl *zap.Logger) gormlogger.Interface {
	if zl == nil {
		zl = zap.NewNop()
	}
	l := zapgorm2.New(zl.Named("gorm"))
	l.SlowThreshold = slowQueryThreshold
	l.IgnoreRecordNotFoundError = true
	return l.LogMode(gormlogger.Warn)
}

// ボットが所有するテーブルだけ作る。カタログ・注文は外部管理。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.User{},
		&model.Reservation{},
		&model.Bookmark{},
	)
}
