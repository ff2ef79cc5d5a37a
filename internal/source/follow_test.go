package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendFile(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if !assert.NoError(t, err) {
		return
	}
	_, err = f.WriteString(text)
	assert.NoError(t, err)
	assert.NoError(t, f.Close())
}

func TestFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.log")
	require.NoError(t, os.WriteFile(path, []byte("old line\n"), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("from start", func(t *testing.T) {
		src, err := NewFollow(path, true)
		require.NoError(t, err)
		defer src.Close() //nolint:errcheck

		line, err := src.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "old line", line)
	})

	t.Run("appended lines", func(t *testing.T) {
		src, err := NewFollow(path, false)
		require.NoError(t, err)
		defer src.Close() //nolint:errcheck

		go func() {
			time.Sleep(20 * time.Millisecond)
			appendFile(t, path, "partial ")
			time.Sleep(20 * time.Millisecond)
			appendFile(t, path, "line\nnext\n")
		}()

		line, err := src.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "partial line", line)

		line, err = src.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "next", line)
	})

	t.Run("cancel", func(t *testing.T) {
		src, err := NewFollow(path, false)
		require.NoError(t, err)
		defer src.Close() //nolint:errcheck

		short, stop := context.WithTimeout(ctx, 20*time.Millisecond)
		defer stop()
		_, err = src.Next(short)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("removed", func(t *testing.T) {
		src, err := NewFollow(path, false)
		require.NoError(t, err)
		defer src.Close() //nolint:errcheck

		go func() {
			time.Sleep(20 * time.Millisecond)
			_ = os.Remove(path)
		}()

		_, err = src.Next(ctx)
		assert.Equal(t, io.EOF, err)
	})
}

func TestFollowMissingFile(t *testing.T) {
	_, err := NewFollow(filepath.Join(t.TempDir(), "absent"), false)
	assert.Error(t, err)
}
