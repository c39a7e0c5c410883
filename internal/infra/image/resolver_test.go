package image

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "products"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products", "mug.jpg"), []byte("jpeg"), 0o644))

	r := NewResolver(dir)
	ctx := context.Background()

	got, err := r.Resolve(ctx, "products/mug.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), got.Bytes)
	assert.Equal(t, "mug.jpg", got.Name)

	got, err = r.Resolve(ctx, "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", got.URL)
	assert.Nil(t, got.Bytes)

	_, err = r.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = r.Resolve(ctx, "products/missing.jpg")
	assert.Error(t, err)

	_, err = r.Resolve(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNoImage)
}
