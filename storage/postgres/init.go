package postgres

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lexassist/vars"
)

// InitDB 按驱动打开数据库并迁移调用日志表
// postgres dsn: "host=localhost user=postgres password=root dbname=mydb port=5432 sslmode=disable"
// sqlite dsn: 文件路径或 "file:xxx?mode=memory&cache=shared"
func InitDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case vars.DRIVER_POSTGRES:
		dialector = postgres.Open(dsn)
	case vars.DRIVER_SQLITE:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == vars.DRIVER_SQLITE {
		// sqlite 单写连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&APICall{}); err != nil {
		return nil, fmt.Errorf("migrate db failed: %w", err)
	}

	log.Printf(">>> [DB] %s connected successfully", driver)
	return db, nil
}
