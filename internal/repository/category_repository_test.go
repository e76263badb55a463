package repository

import (
	"testing"

	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateUniquePerOrganization(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)

	first := model.Category{Name: "News", Slug: "news", OrganizationID: 1}
	require.NoError(t, repo.Create(&first))

	// Same slug, same org: conflict.
	dup := model.Category{Name: "Other", Slug: "news", OrganizationID: 1}
	assert.True(t, apperror.IsConflict(repo.Create(&dup)))

	// Same name, same org: conflict too.
	dupName := model.Category{Name: "News", Slug: "news-2", OrganizationID: 1}
	assert.True(t, apperror.IsConflict(repo.Create(&dupName)))

	// Same slug in a different org is fine.
	other := model.Category{Name: "News", Slug: "news", OrganizationID: 2}
	assert.NoError(t, repo.Create(&other))
}

func TestCategoryTenantScoping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)

	category := model.Category{Name: "News", Slug: "news", OrganizationID: 1}
	require.NoError(t, repo.Create(&category))

	// Visible inside its own org.
	got, err := repo.GetByID(category.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "news", got.Slug)

	// Invisible from any other org.
	_, err = repo.GetByID(category.ID, 2)
	assert.True(t, apperror.IsNotFound(err))

	_, err = repo.GetBySlug("news", 2)
	assert.True(t, apperror.IsNotFound(err))

	list, total, err := repo.List(2, query.Page{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

func TestCategoryUpdateUniquenessExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)

	news := model.Category{Name: "News", Slug: "news", OrganizationID: 1}
	require.NoError(t, repo.Create(&news))
	sports := model.Category{Name: "Sports", Slug: "sports", OrganizationID: 1}
	require.NoError(t, repo.Create(&sports))

	// Keeping its own name/slug is not a conflict.
	news.Description = "general news"
	assert.NoError(t, repo.Update(&news))

	// Taking a sibling's slug is.
	news.Slug = "sports"
	assert.True(t, apperror.IsConflict(repo.Update(&news)))
}

func TestCategorySoftDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)

	category := model.Category{Name: "News", Slug: "news", OrganizationID: 1}
	require.NoError(t, repo.Create(&category))

	require.NoError(t, repo.SoftDelete(category.ID, 1))

	// The row is still there, just inactive.
	got, err := repo.GetByID(category.ID, 1)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// Deleting outside the org scope reports NotFound.
	assert.True(t, apperror.IsNotFound(repo.SoftDelete(category.ID, 2)))
}

func TestCategoryListSortedByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)

	for _, name := range []string{"Zebra", "Apple", "Mango"} {
		category := model.Category{Name: name, Slug: name, OrganizationID: 1}
		require.NoError(t, repo.Create(&category))
	}

	list, total, err := repo.List(1, query.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	assert.Equal(t, "Apple", list[0].Name)
	assert.Equal(t, "Mango", list[1].Name)
	assert.Equal(t, "Zebra", list[2].Name)
}
