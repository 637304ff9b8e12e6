package database

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/model"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

func initModels() error {
	models := []any{
		&model.PanelConfig{},
		&model.ScrapeConfig{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			logger.Errorf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

// seedDefaults 表为空时写入占位配置，保证启动后每张表恰好一行
func seedDefaults() error {
	empty, err := isTableEmpty(model.PanelConfig{}.TableName())
	if err != nil {
		logger.Errorf("Error checking if config table is empty: %v", err)
		return err
	}
	if empty {
		if err := db.Create(model.DefaultPanelConfig()).Error; err != nil {
			return err
		}
	}

	empty, err = isTableEmpty(model.ScrapeConfig{}.TableName())
	if err != nil {
		logger.Errorf("Error checking if scrape_config table is empty: %v", err)
		return err
	}
	if empty {
		return db.Create(model.DefaultScrapeConfig()).Error
	}
	return nil
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

// ErrNotSQLiteDB 数据库路径上已有文件但不是 SQLite 数据库
var ErrNotSQLiteDB = errors.New("not a sqlite database")

// checkExistingDB 已存在且非空的库文件必须是完整的 SQLite 数据库，避免覆盖或迁移到错误的文件上
func checkExistingDB(dbPath string) error {
	info, err := os.Stat(dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", dbPath, ErrNotSQLiteDB)
	}
	if info.Size() == 0 {
		return nil
	}

	file, err := os.Open(dbPath)
	if err != nil {
		return err
	}
	isSQLite, err := IsSQLiteDB(file)
	_ = file.Close()
	if err != nil || !isSQLite {
		return fmt.Errorf("%s: %w", dbPath, ErrNotSQLiteDB)
	}
	return ValidateSQLiteDB(dbPath)
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}
	if err := checkExistingDB(dbPath); err != nil {
		return err
	}

	var gormLogger gormlogger.Interface

	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger: gormLogger,
	}
	db, err = gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	// 单文件 SQLite，少量连接即可
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")

	if err := initModels(); err != nil {
		return err
	}
	return seedDefaults()
}

func CloseDB() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		err = sqlDB.Close()
		db = nil
		return err
	}
	return nil
}

// GetDBProvider 供依赖注入使用
func GetDBProvider() *gorm.DB {
	return GetDB()
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsSQLiteDB(file io.ReaderAt) (bool, error) {
	signature := []byte("SQLite format 3\x00")
	buf := make([]byte, len(signature))
	_, err := file.ReadAt(buf, 0)
	if err != nil {
		return false, err
	}
	return bytes.Equal(buf, signature), nil
}

func Checkpoint() error {
	if db == nil {
		return errors.New("database not initialized")
	}
	err := db.Exec("PRAGMA wal_checkpoint;").Error
	if err != nil {
		return err
	}
	return nil
}

// WithTx 执行带事务的操作，自动处理 Commit/Rollback
// 如果 fn 返回 nil，事务将被提交；如果返回 error，事务将被回滚
func WithTx(fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ResetDefaults 把两张配置表都恢复为占位配置
func ResetDefaults() error {
	return WithTx(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.PanelConfig{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.ScrapeConfig{}).Error; err != nil {
			return err
		}
		if err := tx.Create(model.DefaultPanelConfig()).Error; err != nil {
			return err
		}
		return tx.Create(model.DefaultScrapeConfig()).Error
	})
}

// ValidateSQLiteDB opens the provided sqlite DB path with a throw-away connection
// and runs a PRAGMA integrity_check to ensure the file is structurally sound.
// It does not mutate global state or run migrations.
func ValidateSQLiteDB(dbPath string) error {
	if _, err := os.Stat(dbPath); err != nil { // file must exist
		return err
	}
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	var res string
	if err := gdb.Raw("PRAGMA integrity_check;").Scan(&res).Error; err != nil {
		return err
	}
	if res != "ok" {
		return errors.New("sqlite integrity check failed: " + res)
	}
	return nil
}
