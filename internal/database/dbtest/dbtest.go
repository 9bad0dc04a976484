// Package dbtest 提供基于 SQLite 文件的测试数据库
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shariqazeem/umanity-social-sub000/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New 创建已迁移的临时数据库，单连接保证并发测试下语句串行执行
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
