package postgres

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-service/internal/domain/user"
	apperrors "user-service/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	// Migrate the schema
	err = db.AutoMigrate(&UserSchema{})
	require.NoError(t, err)

	return db
}

func setupTestRepo(t *testing.T) (*UserRepoPG, *gorm.DB) {
	db := setupTestDB(t)
	return NewUserRepoPG(db, zaptest.NewLogger(t)), db
}

func seedUsers(t *testing.T, repo *UserRepoPG, names ...string) []*user.User {
	created := make([]*user.User, 0, len(names))
	for i, name := range names {
		u, err := repo.Create(context.Background(), name, uuid.NewString()[:8]+"@example.com", "hash-"+string(rune('a'+i)))
		require.NoError(t, err)
		created = append(created, u)
	}
	return created
}

func TestUserRepoPG_Create(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	u, err := repo.Create(ctx, "John Doe", "john@example.com", "hashed")
	require.NoError(t, err)
	require.NotNil(t, u)

	_, err = uuid.Parse(u.ID)
	assert.NoError(t, err)
	assert.Equal(t, "John Doe", u.Name)
	assert.Equal(t, "john@example.com", u.Email)
	assert.Equal(t, "hashed", u.PasswordHash)
	assert.False(t, u.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, "hashed", found.PasswordHash)
}

func TestUserRepoPG_FindByID_NotFound(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	found, err := repo.FindByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindByID(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepoPG_FindByEmail(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Jane", "jane@example.com", "hashed")
	require.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepoPG_Update(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Old Name", "old@example.com", "keep-this-hash")
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, "New Name", "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "new@example.com", updated.Email)
	// partial update leaves the hash alone
	assert.Equal(t, "keep-this-hash", updated.PasswordHash)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestUserRepoPG_Update_NotFound(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	updated, err := repo.Update(ctx, uuid.NewString(), "Name", "mail@example.com")
	require.NoError(t, err)
	assert.Nil(t, updated)

	updated, err = repo.Update(ctx, "42", "Name", "mail@example.com")
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUserRepoPG_UpdatePassword(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "John", "john@example.com", "old-hash")
	require.NoError(t, err)

	updated, err := repo.UpdatePassword(ctx, created.ID, "new-hash")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new-hash", updated.PasswordHash)
	assert.Equal(t, "John", updated.Name)

	missing, err := repo.UpdatePassword(ctx, uuid.NewString(), "new-hash")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepoPG_Delete(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "John", "john@example.com", "hash")
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, created.ID, deleted.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// second delete of the same id resolves nothing
	again, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestUserRepoPG_ListAll(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	seeded := seedUsers(t, repo, "A", "B", "C")

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, u := range all {
		assert.Equal(t, seeded[i].ID, u.ID)
	}
}

func TestUserRepoPG_List_Pagination(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	seedUsers(t, repo, "A", "B", "C")

	tests := []struct {
		name        string
		offset      int64
		limit       int64
		expectNames []string
	}{
		{name: "first page", offset: 0, limit: 2, expectNames: []string{"A", "B"}},
		{name: "second page", offset: 2, limit: 2, expectNames: []string{"C"}},
		{name: "past the end", offset: 4, limit: 2, expectNames: []string{}},
		{name: "everything", offset: 0, limit: 10, expectNames: []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.List(ctx, user.ListFilter{Offset: tt.offset, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)

			names := make([]string, len(users))
			for i, u := range users {
				names[i] = u.Name
			}
			assert.Equal(t, tt.expectNames, names)
		})
	}
}

func TestUserRepoPG_List_CaseInsensitiveSubstringSearch(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	seedUsers(t, repo, "John Doe", "jane smith", "ADMIN User", "Johnny")

	tests := []struct {
		name        string
		search      string
		expectCount int64
	}{
		{name: "lowercase search", search: "john", expectCount: 2},
		{name: "uppercase search", search: "JOHN", expectCount: 2},
		{name: "mixed case exact", search: "Jane Smith", expectCount: 1},
		{name: "substring in the middle", search: "min u", expectCount: 1},
		{name: "no match", search: "zed", expectCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.List(ctx, user.ListFilter{Search: tt.search, Offset: 0, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.expectCount, total)
			assert.Len(t, users, int(tt.expectCount))
		})
	}
}

func TestUserRepoPG_List_UnicodeCaseFolding(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	seeded := seedUsers(t, repo, "Élodie Durand", "Nguyễn Văn A", "Ödön")

	tests := []struct {
		name        string
		search      string
		expectCount int64
	}{
		{name: "lowercase accented", search: "élodie", expectCount: 1},
		{name: "uppercase accented", search: "ÉLODIE", expectCount: 1},
		{name: "vietnamese upper", search: "NGUYỄN", expectCount: 1},
		{name: "hungarian lower", search: "ödön", expectCount: 1},
		{name: "ascii only does not match accented", search: "elodie", expectCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.List(ctx, user.ListFilter{Search: tt.search, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.expectCount, total)
			assert.Len(t, users, int(tt.expectCount))
		})
	}

	// renaming refreshes the folded column
	_, err := repo.Update(ctx, seeded[0].ID, "Ève Martin", "eve@example.com")
	require.NoError(t, err)

	_, total, err := repo.List(ctx, user.ListFilter{Search: "élodie", Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	users, total, err := repo.List(ctx, user.ListFilter{Search: "ÈVE", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Ève Martin", users[0].Name)
}

func TestBackfillSearchNames(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()

	seeded := seedUsers(t, repo, "Élodie")
	// simulate a row written before search_name existed
	require.NoError(t, db.Model(&UserSchema{}).Where("id = ?", seeded[0].ID).UpdateColumn("search_name", "").Error)

	_, total, err := repo.List(ctx, user.ListFilter{Search: "élodie", Limit: 10})
	require.NoError(t, err)
	require.Zero(t, total)

	filled, err := BackfillSearchNames(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, filled)

	_, total, err = repo.List(ctx, user.ListFilter{Search: "ÉLODIE", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	filled, err = BackfillSearchNames(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, filled)
}

func TestUserRepoPG_List_Punctuation(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	seedUsers(t, repo, "A&B (Ops)", "Smith, John", "R/D #1!")

	for _, search := range []string{"a&b", "(ops)", "Smith, J", "R/D #1!"} {
		_, total, err := repo.List(ctx, user.ListFilter{Search: search, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total, search)
	}
}

func TestUserRepoPG_List_WildcardEscaping(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	seedUsers(t, repo, "John%Test", "Jane_Test", "JaneXTest", "Admin")

	tests := []struct {
		name        string
		search      string
		expectCount int64
	}{
		{name: "percent literal", search: "n%T", expectCount: 1},
		{name: "underscore literal", search: "e_T", expectCount: 1},
		{name: "bare percent matches only literal percent", search: "%", expectCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := repo.List(ctx, user.ListFilter{Search: tt.search, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.expectCount, total)
		})
	}
}

func TestUserRepoPG_StorageError(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.Create(ctx, "John", "john@example.com", "hash")
	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err))

	_, err = repo.FindByEmail(ctx, "john@example.com")
	assert.True(t, apperrors.IsStorage(err))

	_, _, err = repo.List(ctx, user.ListFilter{Limit: 10})
	assert.True(t, apperrors.IsStorage(err))
}
