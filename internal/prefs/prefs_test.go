package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get(KeyCartItems)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put(KeyCartItems, []byte(`[{"id":"a"}]`)))
	v, ok, err := s.Get(KeyCartItems)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":"a"}]`, string(v))

	// overwrite
	require.NoError(t, s.Put(KeyCartItems, []byte(`[]`)))
	v, ok, err = s.Get(KeyCartItems)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[]`, string(v))

	require.NoError(t, s.Delete(KeyCartItems))
	_, ok, err = s.Get(KeyCartItems)
	require.NoError(t, err)
	require.False(t, ok)

	// deleting again is a no-op
	require.NoError(t, s.Delete(KeyCartItems))
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(KeyConnectedUser, []byte(`{"login":"admin"}`)))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	v, ok, err := s2.Get(KeyConnectedUser)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"login":"admin"}`, string(v))
}
