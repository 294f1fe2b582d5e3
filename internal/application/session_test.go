package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"click2label/internal/domain/entity"
	"click2label/internal/infrastructure/storage"
)

const (
	labelCat entity.Label = "Cat meme"
	labelDog entity.Label = "Dog meme"
)

// stubSource отдаёт фиксированный список файлов
type stubSource struct {
	files []string
}

func (s stubSource) List(ctx context.Context) ([]string, error) {
	return s.files, nil
}

func (s stubSource) Read(ctx context.Context, filename string) ([]byte, error) {
	return []byte(filename), nil
}

func testConfig(batchSize int) SessionConfig {
	return SessionConfig{
		Clicks: entity.ClickMap{
			entity.ButtonLeft:  labelCat,
			entity.ButtonRight: labelDog,
		},
		BatchSize: batchSize,
	}
}

func newTestSession(t *testing.T, files []string, batchSize int) (*Session, *storage.MemoryLabelRepository) {
	t.Helper()
	repo := storage.NewMemoryLabelRepository()
	session, err := NewSession(context.Background(), stubSource{files: files}, repo, testConfig(batchSize))
	require.NoError(t, err)
	return session, repo
}

func TestSession_AdvanceReturnsBatchInOrder(t *testing.T) {
	session, _ := newTestSession(t, []string{"img1.jpg", "img2.jpg", "img3.jpg"}, 2)

	batch, err := session.Advance(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 2)
	require.Equal(t, "img1.jpg", batch[0].Filename)
	require.Equal(t, "img2.jpg", batch[1].Filename)
	require.Equal(t, entity.LabelNone, batch[0].Label)

	batch, err = session.Advance(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, "img3.jpg", batch[0].Filename)
}

func TestSession_AdvanceFlushesLabels(t *testing.T) {
	session, repo := newTestSession(t, []string{"img1.jpg", "img2.jpg"}, 2)
	ctx := context.Background()

	_, err := session.Advance(ctx)
	require.NoError(t, err)

	_, err = session.Toggle("img1.jpg", entity.ButtonLeft)
	require.NoError(t, err)
	_, err = session.Toggle("img2.jpg", entity.ButtonRight)
	require.NoError(t, err)

	_, err = session.Advance(ctx)
	require.ErrorIs(t, err, ErrSourceExhausted)

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, labelCat, records[0].Label)
	require.Equal(t, labelDog, records[1].Label)
}

func TestSession_AdvanceEmptySourceDoesNotTouchStore(t *testing.T) {
	session, repo := newTestSession(t, nil, 4)
	ctx := context.Background()

	_, err := session.Advance(ctx)
	require.ErrorIs(t, err, ErrSourceExhausted)

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSession_ToggleIdempotent(t *testing.T) {
	session, _ := newTestSession(t, []string{"img1.jpg"}, 1)

	_, err := session.Advance(context.Background())
	require.NoError(t, err)

	rec, err := session.Toggle("img1.jpg", entity.ButtonLeft)
	require.NoError(t, err)
	require.Equal(t, labelCat, rec.Label)

	rec, err = session.Toggle("img1.jpg", entity.ButtonLeft)
	require.NoError(t, err)
	require.Equal(t, entity.LabelNone, rec.Label)
}

func TestSession_ToggleLastWriteWins(t *testing.T) {
	session, _ := newTestSession(t, []string{"img1.jpg"}, 1)

	_, err := session.Advance(context.Background())
	require.NoError(t, err)

	_, err = session.Toggle("img1.jpg", entity.ButtonLeft)
	require.NoError(t, err)
	rec, err := session.Toggle("img1.jpg", entity.ButtonRight)
	require.NoError(t, err)
	require.Equal(t, labelDog, rec.Label)
}

func TestSession_ToggleUnknownImage(t *testing.T) {
	session, _ := newTestSession(t, []string{"img1.jpg", "img2.jpg"}, 1)

	_, err := session.Advance(context.Background())
	require.NoError(t, err)

	// img2.jpg ещё не показан
	_, err = session.Toggle("img2.jpg", entity.ButtonLeft)
	require.ErrorIs(t, err, ErrUnknownImage)
}

func TestSession_ToggleUnknownButton(t *testing.T) {
	session, _ := newTestSession(t, []string{"img1.jpg"}, 1)

	_, err := session.Advance(context.Background())
	require.NoError(t, err)

	_, err = session.Toggle("img1.jpg", entity.Button(2))
	require.ErrorIs(t, err, ErrUnknownButton)
}

func TestSession_UnlabelledShownFirst(t *testing.T) {
	repo := storage.NewMemoryLabelRepository()
	ctx := context.Background()

	err := repo.Save(ctx, []entity.ImageRecord{
		{Filename: "img1.jpg", Label: labelCat},
	})
	require.NoError(t, err)

	files := []string{"img1.jpg", "img2.jpg"}
	session, err := NewSession(ctx, stubSource{files: files}, repo, testConfig(1))
	require.NoError(t, err)

	batch, err := session.Advance(ctx)
	require.NoError(t, err)
	require.Equal(t, "img2.jpg", batch[0].Filename)

	// ранее размеченное изображение приходит со своей меткой
	batch, err = session.Advance(ctx)
	require.NoError(t, err)
	require.Equal(t, "img1.jpg", batch[0].Filename)
	require.Equal(t, labelCat, batch[0].Label)
}

func TestSession_ClearedLabelRemovedFromStore(t *testing.T) {
	repo := storage.NewMemoryLabelRepository()
	ctx := context.Background()

	err := repo.Save(ctx, []entity.ImageRecord{
		{Filename: "img1.jpg", Label: labelCat},
	})
	require.NoError(t, err)

	session, err := NewSession(ctx, stubSource{files: []string{"img1.jpg"}}, repo, testConfig(1))
	require.NoError(t, err)

	_, err = session.Advance(ctx)
	require.NoError(t, err)

	// повторный клик той же меткой снимает её
	_, err = session.Toggle("img1.jpg", entity.ButtonLeft)
	require.NoError(t, err)

	err = session.Flush(ctx)
	require.NoError(t, err)

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSession_FlushesToCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "df.csv")
	repo := storage.NewCSVLabelRepository(path)
	ctx := context.Background()

	session, err := NewSession(ctx, stubSource{files: []string{"img1.jpg", "img2.jpg"}}, repo, testConfig(2))
	require.NoError(t, err)

	_, err = session.Advance(ctx)
	require.NoError(t, err)
	_, err = session.Toggle("img1.jpg", entity.ButtonLeft)
	require.NoError(t, err)
	_, err = session.Toggle("img2.jpg", entity.ButtonRight)
	require.NoError(t, err)

	_, err = session.Advance(ctx)
	require.ErrorIs(t, err, ErrSourceExhausted)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "img1.jpg,Cat meme,")
	require.Contains(t, string(data), "img2.jpg,Dog meme,")
}

func TestSession_Progress(t *testing.T) {
	session, _ := newTestSession(t, []string{"img1.jpg", "img2.jpg", "img3.jpg"}, 2)
	ctx := context.Background()

	labelled, total := session.Progress()
	require.Equal(t, 0, labelled)
	require.Equal(t, 3, total)

	_, err := session.Advance(ctx)
	require.NoError(t, err)
	_, err = session.Toggle("img1.jpg", entity.ButtonLeft)
	require.NoError(t, err)

	labelled, total = session.Progress()
	require.Equal(t, 1, labelled)
	require.Equal(t, 3, total)
}
