package rdb

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 按驱动名连接数据库：mysql（默认）或 postgres
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// AutoMigrate 自动建表；nilai 表由成绩系统维护，这里只保证存在
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Division{},
		&model.Employee{},
		&model.Post{},
		&model.Comment{},
		&model.ActivityLog{},
		&model.Score{},
	)
}

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapDBError 唯一约束、外键约束冲突转换为 409，其余原样返回
func mapDBError(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return pkg.Conflict("resource already exists")
		case mysqlRowIsReferenced:
			return pkg.Conflict("resource is still referenced")
		case mysqlNoReferencedRow:
			return pkg.Conflict("referenced resource does not exist")
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return pkg.Conflict("resource already exists")
		case pgForeignKeyViolation:
			return pkg.Conflict("resource is still referenced")
		}
	}
	return err
}

// likeExpr 不区分大小写的子串匹配，配合 pkg.LikePattern 使用（mysql/postgres 默认转义符都是反斜杠）
func likeExpr(column string) string {
	return "LOWER(" + column + ") LIKE ?"
}
