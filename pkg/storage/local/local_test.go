package local

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

func newStore(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return s
}

func read(t *testing.T, s *LocalStorage, key string) string {
	t.Helper()
	rc, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestStoreGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	key, err := s.Store(ctx, strings.NewReader("report body"), "abc/resume_analysis_report.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc/resume_analysis_report.txt", key)
	assert.Equal(t, "report body", read(t, s, key))

	_, err = s.Store(ctx, strings.NewReader("v2"), key)
	require.NoError(t, err)
	assert.Equal(t, "v2", read(t, s, key))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.NoError(t, s.Delete(ctx, key), "deleting twice is fine")
}

func TestRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, key := range []string{"", "../secret", "a/../../b", "/etc/passwd", "."} {
		_, err := s.Store(ctx, strings.NewReader("x"), key)
		assert.Error(t, err, key)
		_, err = s.Get(ctx, key)
		assert.Error(t, err, key)
	}

	_, err := s.Store(ctx, strings.NewReader("x"), "a/../b.txt")
	assert.NoError(t, err, "keys that stay inside the base dir are cleaned")
}

func TestCleanupBefore(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Store(ctx, strings.NewReader("old"), "old/report.txt")
	require.NoError(t, err)
	_, err = s.Store(ctx, strings.NewReader("new"), "new/report.txt")
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.baseDir, "old", "report.txt"), past, past))

	require.NoError(t, s.CleanupBefore(ctx, time.Now().Add(-24*time.Hour)))

	_, err = s.Get(ctx, "old/report.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NoDirExists(t, filepath.Join(s.baseDir, "old"))
	assert.Equal(t, "new", read(t, s, "new/report.txt"))
}

func TestStoreHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newStore(t).Store(ctx, strings.NewReader("x"), "k")
	assert.ErrorIs(t, err, context.Canceled)
}
