// Package dbtest opens migrated, seeded in-memory databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"mizan/internal/database"
	"mizan/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New returns a private in-memory sqlite database with the schema migrated
// and the action catalog seeded. All access goes through one connection.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Setup(db, zap.NewNop()); err != nil {
		t.Fatalf("setup db: %v", err)
	}
	return db
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// ActionOf returns the first active seeded action of the given type.
func ActionOf(t testing.TB, db *gorm.DB, actionType string) *models.Action {
	t.Helper()
	var a models.Action
	if err := db.Where("type = ? AND active = ?", actionType, true).Order("id").First(&a).Error; err != nil {
		t.Fatalf("find %s action: %v", actionType, err)
	}
	return &a
}

// CreateAction inserts a dedicated action with an exact weight.
func CreateAction(t testing.TB, db *gorm.DB, actionType string, weight int) *models.Action {
	t.Helper()
	a := &models.Action{
		NameAr: "اختبار",
		NameFr: "test",
		NameEn: "test",
		Type:   actionType,
		Weight: weight,
		Active: true,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("create action: %v", err)
	}
	return a
}
