package repository

import (
	"os"
	"testing"

	"cms-service/internal/model"
	"cms-service/pkg/config"
	"cms-service/prometheus"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	// Prometheus collectors register globally, so this runs exactly once.
	prometheus.InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "repotest"}})
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database visible to the
	// concurrent count and page queries.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.ContentType{},
		&model.Category{},
		&model.Tag{},
		&model.Content{},
		&model.ContentCategory{},
		&model.ContentTag{},
		&model.ContentMedia{},
		&model.Media{},
	))

	return db
}

func createOrg(t *testing.T, db *gorm.DB, name, slug string) *model.Organization {
	t.Helper()
	org := model.Organization{Name: name, Slug: slug, Active: true}
	require.NoError(t, db.Create(&org).Error)
	return &org
}
