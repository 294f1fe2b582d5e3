package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"click2label/internal/domain/entity"
)

const (
	labelCat entity.Label = "Cat meme"
	labelDog entity.Label = "Dog meme"
)

func newTestCSVRepository(t *testing.T) *CSVLabelRepository {
	t.Helper()
	return NewCSVLabelRepository(filepath.Join(t.TempDir(), "labels", "df.csv"))
}

func TestCSVLabelRepository_LoadMissingFile(t *testing.T) {
	repo := newTestCSVRepository(t)

	records, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestCSVLabelRepository_RoundTrip(t *testing.T) {
	repo := newTestCSVRepository(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	saved := []entity.ImageRecord{
		{Filename: "img1.jpg", Label: labelCat, Timestamp: now},
		{Filename: "img2.jpg", Label: labelDog, Timestamp: now},
	}
	require.NoError(t, repo.Save(ctx, saved))

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, saved, records)
}

func TestCSVLabelRepository_WritesHeader(t *testing.T) {
	repo := newTestCSVRepository(t)
	ctx := context.Background()

	err := repo.Save(ctx, []entity.ImageRecord{
		{Filename: "img1.jpg", Label: labelCat},
		{Filename: "img2.jpg", Label: labelDog},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(repo.path)
	require.NoError(t, err)
	require.Contains(t, string(data), "image_id,label,timestamp\n")
	require.Contains(t, string(data), "img1.jpg,Cat meme,")
	require.Contains(t, string(data), "img2.jpg,Dog meme,")
}

func TestCSVLabelRepository_SaveMergesByFilename(t *testing.T) {
	repo := newTestCSVRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []entity.ImageRecord{
		{Filename: "img1.jpg", Label: labelCat},
		{Filename: "img2.jpg", Label: labelDog},
	}))

	// вторая сессия перезаписывает только img2.jpg
	require.NoError(t, repo.Save(ctx, []entity.ImageRecord{
		{Filename: "img2.jpg", Label: labelCat},
	}))

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "img1.jpg", records[0].Filename)
	require.Equal(t, labelCat, records[0].Label)
	require.Equal(t, "img2.jpg", records[1].Filename)
	require.Equal(t, labelCat, records[1].Label)
}

func TestCSVLabelRepository_ClearedLabelDropsRow(t *testing.T) {
	repo := newTestCSVRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []entity.ImageRecord{
		{Filename: "img1.jpg", Label: labelCat},
	}))
	require.NoError(t, repo.Save(ctx, []entity.ImageRecord{
		{Filename: "img1.jpg", Label: entity.LabelNone},
	}))

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestCSVLabelRepository_LoadWithoutTimestampColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "df.csv")
	require.NoError(t, os.WriteFile(path, []byte("image_id,label\nimg1.jpg,Cat meme\n"), 0o644))

	repo := NewCSVLabelRepository(path)
	records, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, labelCat, records[0].Label)
	require.True(t, records[0].Timestamp.IsZero())
}

func TestCSVLabelRepository_LoadRejectsForeignCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "df.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	repo := NewCSVLabelRepository(path)
	_, err := repo.Load(context.Background())
	require.Error(t, err)
}
