package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/ventepos/internal/db"
	"github.com/diewo77/ventepos/internal/prefs"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(d))
	return d
}

func openTestPrefs(t *testing.T) *prefs.Store {
	t.Helper()
	s, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestCart(t *testing.T) (*CartService, *prefs.Store) {
	t.Helper()
	store := openTestPrefs(t)
	return NewCartService(store, zaptest.NewLogger(t)), store
}
