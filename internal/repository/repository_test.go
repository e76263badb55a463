package repository

import (
	"errors"
	"testing"

	"cms-service/internal/model"
	"cms-service/pkg/apperror"
	"cms-service/prometheus"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Two concurrent creates can both pass the uniqueness pre-check; the loser
// is rejected by the database unique index and must still surface as a
// Conflict. This drives the insert straight through gorm the way the racing
// request would, past the pre-check.
func TestUniqueConstraintIsAuthoritative(t *testing.T) {
	db := setupTestDB(t)
	createOrg(t, db, "Acme", "acme")

	loser := model.Organization{Name: "Acme Mirror", Slug: "acme", Active: true}
	err := db.Create(&loser).Error
	require.Error(t, err)
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	mapped := translateError(err, "Organization not found", "organization with this name or slug already exists")
	assert.True(t, apperror.IsConflict(mapped))
	assert.Equal(t, "organization with this name or slug already exists", apperror.MessageOf(mapped))
	// The underlying cause stays attached for the logs.
	assert.True(t, errors.Is(mapped, gorm.ErrDuplicatedKey))
}

// The link tables have no pre-check at all, so a duplicate pair exercises
// the constraint branch through the repository end to end.
func TestDuplicateLinkSurfacesConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)

	category := model.Category{Name: "News", Slug: "news", OrganizationID: 1, Active: true}
	require.NoError(t, db.Create(&category).Error)

	content := model.Content{Title: "Hello", Slug: "hello", OrganizationID: 1, ContentTypeID: 1}
	err := repo.Create(&content, []uint{category.ID, category.ID}, nil)
	assert.True(t, apperror.IsConflict(err))
}

func TestRepositoryOperationsRecordDuration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrganizationRepository(db)

	org := model.Organization{Name: "Acme", Slug: "acme"}
	require.NoError(t, repo.Create(&org))
	_, err := repo.GetByID(org.ID)
	require.NoError(t, err)

	// One series per operation type; insert and select both observed.
	count := testutil.CollectAndCount(&prometheus.DbOperationDuration,
		"repotest_db_operation_duration_seconds")
	assert.GreaterOrEqual(t, count, 2)
}
