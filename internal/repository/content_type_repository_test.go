package repository

import (
	"testing"

	"cms-service/internal/model"
	"cms-service/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeFieldsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentTypeRepository(db)

	ct := model.ContentType{
		Name: "Post",
		Slug: "post",
		Fields: []model.FieldDefinition{
			{Name: "title", Label: "Title", Kind: "text", Required: true},
			{Name: "body", Label: "Body", Kind: "richtext"},
			{Name: "audience", Kind: "select", Options: []string{"all", "members"}},
		},
		OrganizationID: 1,
	}
	require.NoError(t, repo.Create(&ct))

	got, err := repo.GetBySlug("post", 1)
	require.NoError(t, err)
	require.Len(t, got.Fields, 3)
	assert.Equal(t, "title", got.Fields[0].Name)
	assert.True(t, got.Fields[0].Required)
	assert.Equal(t, []string{"all", "members"}, got.Fields[2].Options)
}

func TestContentTypeDeleteBlockedWhileReferenced(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentTypeRepository(db)

	ct := model.ContentType{Name: "Post", Slug: "post", OrganizationID: 1}
	require.NoError(t, repo.Create(&ct))

	content := model.Content{
		Title:          "Hello",
		Slug:           "hello",
		Status:         model.StatusDraft,
		OrganizationID: 1,
		ContentTypeID:  ct.ID,
	}
	require.NoError(t, db.Create(&content).Error)

	err := repo.Delete(ct.ID, 1)
	assert.True(t, apperror.IsConflict(err))

	// Both the type and its content are untouched.
	var typeCount, contentCount int64
	require.NoError(t, db.Model(&model.ContentType{}).Count(&typeCount).Error)
	require.NoError(t, db.Model(&model.Content{}).Count(&contentCount).Error)
	assert.Equal(t, int64(1), typeCount)
	assert.Equal(t, int64(1), contentCount)

	// Once the content is gone, deletion goes through.
	require.NoError(t, db.Delete(&content).Error)
	assert.NoError(t, repo.Delete(ct.ID, 1))

	_, err = repo.GetByID(ct.ID, 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestContentTypeDeleteScopedToOrganization(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentTypeRepository(db)

	ct := model.ContentType{Name: "Post", Slug: "post", OrganizationID: 1}
	require.NoError(t, repo.Create(&ct))

	assert.True(t, apperror.IsNotFound(repo.Delete(ct.ID, 2)))
}
