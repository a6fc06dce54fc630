package filestore_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dispatch/internal/adapters/out/filestore"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string, modTime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestSource_Latest(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	writeFile(t, dir, "old.csv", "a", base)
	writeFile(t, dir, "new.CSV", "b", base.Add(time.Hour))
	writeFile(t, dir, "newest.txt", "c", base.Add(2*time.Hour))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.csv"), 0o755))

	source, err := filestore.NewSource(dir, "")
	require.NoError(t, err)

	ref, err := source.Latest(ctx)

	require.NoError(t, err)
	assert.Equal(t, "new.CSV", ref.Key)
	assert.True(t, ref.LastModified.Equal(base.Add(time.Hour)))
}

func TestSource_LatestEmpty(t *testing.T) {
	source, err := filestore.NewSource(t.TempDir(), ".csv")
	require.NoError(t, err)

	_, err = source.Latest(context.Background())

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestSource_LatestMissingDir(t *testing.T) {
	source, err := filestore.NewSource(filepath.Join(t.TempDir(), "predictions"), ".csv")
	require.NoError(t, err)

	_, err = source.Latest(context.Background())

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Contains(t, err.Error(), "predictions")
}

func TestSource_OpenAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "p.csv", "carrier_id\n", time.Now())

	source, err := filestore.NewSource(dir, ".csv")
	require.NoError(t, err)

	rc, err := source.Open(ctx, "p.csv")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "carrier_id\n", string(body))

	require.NoError(t, source.Delete(ctx, "p.csv"))
	_, err = os.Stat(filepath.Join(dir, "p.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestSource_RejectsPathsOutsideDir(t *testing.T) {
	source, err := filestore.NewSource(t.TempDir(), ".csv")
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../x.csv", "sub/x.csv"} {
		_, err := source.Open(context.Background(), key)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid, key)
	}
}

func TestSink_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "optimized_local")
	sink, err := filestore.NewSink(dir)
	require.NoError(t, err)

	path, err := sink.Write(context.Background(), "optimized_x.csv", []byte("job_id\n"))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "optimized_x.csv"), path)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "job_id\n", string(got))
}

func TestNewSource_RequiresDir(t *testing.T) {
	_, err := filestore.NewSource(" ", ".csv")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = filestore.NewSink("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
