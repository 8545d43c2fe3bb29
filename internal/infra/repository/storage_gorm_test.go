package repository_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"cartwidget/internal/infra/db"
	infraRepo "cartwidget/internal/infra/repository"
	repo "cartwidget/internal/repository"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB接続文字列を環境変数から読む。無ければskip。
func storageTestDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}
	return dsn
}

func newGormStorage(t *testing.T) (*infraRepo.StorageGormRepository, *sql.DB) {
	t.Helper()
	dsn := storageTestDSN(t)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	raw, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	return infraRepo.NewStorageGormRepository(gormDB), raw
}

func countRows(t *testing.T, raw *sql.DB, sessionID string) int {
	t.Helper()

	var n int
	err := raw.QueryRow(`SELECT count(*) FROM storage_entries WHERE session_id = $1`, sessionID).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestStorageGorm_SetGetRemove(t *testing.T) {
	s, raw := newGormStorage(t)
	ctx := context.Background()
	sessionID := uuid.NewString()

	_, err := s.Get(ctx, sessionID, "cart")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, s.Set(ctx, sessionID, "cart", `[]`))
	require.NoError(t, s.Set(ctx, sessionID, "cart", `[{"id":"a1"}]`))

	v, err := s.Get(ctx, sessionID, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a1"}]`, v)
	assert.Equal(t, 1, countRows(t, raw, sessionID))

	ids, err := s.ListSessions(ctx, "cart")
	require.NoError(t, err)
	assert.Contains(t, ids, sessionID)

	//削除後は行そのものが無い
	require.NoError(t, s.Remove(ctx, sessionID, "cart"))
	assert.Equal(t, 0, countRows(t, raw, sessionID))
	assert.NoError(t, s.Remove(ctx, sessionID, "cart"))
}
