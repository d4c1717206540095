package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/docquery/ai/mock"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySource struct {
	name  string
	pages []core.Page
	err   error
}

func (s *memorySource) Filename() string { return s.name }

func (s *memorySource) Pages(_ context.Context) ([]core.Page, error) {
	return s.pages, s.err
}

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *badger.Backend) {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)

	pipeline, err := NewPipeline(repo, mock.NewMockProvider(), opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		pipeline.Release()
		repo.Close()
		backend.Close()
	})
	return pipeline, backend
}

func TestNewPipeline_Validation(t *testing.T) {
	_, err := NewPipeline(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrEvidenceRepositoryRequired)

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestIngest_StoresEmbeddedUnits(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	pipeline, err := NewPipeline(repo, mock.NewMockProvider())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	source := &memorySource{
		name: "report.pdf",
		pages: []core.Page{
			{Number: 1, Text: "The quarterly revenue grew by four percent. Operating costs stayed flat."},
		},
	}

	result, err := pipeline.Ingest(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", result.Filename)
	assert.Greater(t, result.Units, 0)

	stored, err := repo.GetEvidenceUnitsBySource(ctx, "report.pdf")
	require.NoError(t, err)
	require.Len(t, stored, result.Units)

	for _, unit := range stored {
		assert.NotZero(t, unit.Id)
		assert.NotEmpty(t, unit.Vector, "every stored unit must carry an embedding")
		assert.False(t, unit.InsertedAt.IsZero())
		require.NoError(t, core.ValidateEvidenceUnit(unit))
	}
}

func TestIngest_EmptyDocument(t *testing.T) {
	pipeline, _ := newTestPipeline(t)

	result, err := pipeline.Ingest(context.Background(), &memorySource{name: "empty.txt"})
	require.NoError(t, err)
	assert.Equal(t, "empty.txt", result.Filename)
	assert.Zero(t, result.Units)
}

func TestIngest_SourceError(t *testing.T) {
	pipeline, _ := newTestPipeline(t)

	cause := errors.New("corrupt file")
	_, err := pipeline.Ingest(context.Background(), &memorySource{name: "bad.pdf", err: cause})
	assert.ErrorIs(t, err, cause)
}

func TestIngest_EmbeddingCountMismatch(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		return [][]float32{}, nil
	}

	pipeline, err := NewPipeline(repo, mock.NewMockProviderWithServices(embedder, mock.NewMockAnswerer()))
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(), &memorySource{
		name:  "report.pdf",
		pages: []core.Page{{Number: 1, Text: "some text"}},
	})
	assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)
}

func TestIngestAll(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	pipeline, err := NewPipeline(repo, mock.NewMockProvider(), WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	results, err := pipeline.IngestAll(ctx,
		&memorySource{name: "a.txt", pages: []core.Page{{Number: 1, Text: "alpha content."}}},
		&memorySource{name: "b.txt", pages: []core.Page{{Number: 1, Text: "beta content."}}},
	)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Results keep input order regardless of completion order.
	assert.Equal(t, "a.txt", results[0].Filename)
	assert.Equal(t, "b.txt", results[1].Filename)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, results[0].Units+results[1].Units, count)
}

func TestIngestAll_PropagatesFirstError(t *testing.T) {
	pipeline, _ := newTestPipeline(t, WithPoolSize(2))

	cause := errors.New("unreadable")
	results, err := pipeline.IngestAll(context.Background(),
		&memorySource{name: "good.txt", pages: []core.Page{{Number: 1, Text: "fine."}}},
		&memorySource{name: "bad.txt", err: cause},
	)
	assert.ErrorIs(t, err, cause)
	require.Len(t, results, 2)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
}
