package db

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/zulandar/pitwall/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a MySQL DSN for the configured store.
func DSN(user, host string, port int, database string) string {
	cfg := mysqldrv.NewConfig()
	cfg.User = user
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// sqliteBusyTimeout is how long a sqlite write waits on another
// connection's lock, in milliseconds.
const sqliteBusyTimeout = 5000

// SQLiteDSN adds a busy timeout and immediate write transactions to a sqlite
// file path, so writers from several processes queue instead of failing.
func SQLiteDSN(path string) string {
	join := "?"
	if strings.Contains(path, "?") {
		join = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d&_txlock=immediate", path, join, sqliteBusyTimeout)
}

// Connect opens a GORM connection to the configured store backend.
func Connect(cfg config.StoreConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	var where string
	switch cfg.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(SQLiteDSN(cfg.Path))
		where = cfg.Path
	case "mysql":
		dialector = mysql.Open(DSN(cfg.User, cfg.Host, cfg.Port, cfg.Database))
		where = fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect to %s: %w", where, err)
	}
	if dialector.Name() == "sqlite" {
		// sqlite has one writer; within a process, queue on the pool.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("db: connect to %s: %w", where, err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// OpenMemory opens an in-memory sqlite database with all tables migrated.
// Each call returns an isolated database.
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open memory: %w", err)
	}
	// A second pooled connection would see a different empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db: open memory: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
