package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutnell/marketminds/pkg/providers"
)

// fakeEmbedder maps known texts to fixed unit vectors so similarity
// ordering is deterministic.
type fakeEmbedder struct {
	vectors     map[string][]float32
	fallbackVec []float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	if f.fallbackVec != nil {
		return f.fallbackVec, nil
	}
	return []float32{0, 0, 1}, nil
}

func TestChromemStoreRoundTrip(t *testing.T) {
	store, err := NewChromemStore(ChromemConfig{Collection: "test_docs"})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, Document{
		ID: "1", Content: "Value investing buys undervalued companies.", Source: "value.md",
	}, []float32{1, 0, 0}))
	require.NoError(t, store.Upsert(ctx, Document{
		ID: "2", Content: "Index funds track a market index.", Source: "index.md",
	}, []float32{0, 1, 0}))

	passages, err := store.Search(ctx, []float32{0.9, 0.1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "1", passages[0].ID)
	assert.Equal(t, "value.md", passages[0].Source)
	assert.Contains(t, passages[0].Content, "Value investing")
}

func TestChromemStoreSearchEmpty(t *testing.T) {
	store, err := NewChromemStore(ChromemConfig{Collection: "empty_docs"})
	require.NoError(t, err)
	defer store.Close()

	passages, err := store.Search(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestChromemStorePersistence(t *testing.T) {
	dir := t.TempDir()

	store, err := NewChromemStore(ChromemConfig{Collection: "docs", PersistPath: dir})
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), Document{
		ID: "1", Content: "persisted", Source: "a.md",
	}, []float32{1, 0}))
	require.NoError(t, store.Close())

	_, err = os.Stat(filepath.Join(dir, "vectors.gob"))
	assert.NoError(t, err)

	reopened, err := NewChromemStore(ChromemConfig{Collection: "docs", PersistPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	passages, err := reopened.Search(context.Background(), []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "persisted", passages[0].Content)
}

func TestSearchAdapter(t *testing.T) {
	store, err := NewChromemStore(ChromemConfig{Collection: "concepts"})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, Document{
		ID: "1", Content: "Growth investing targets expanding companies.", Source: "growth.md",
	}, []float32{1, 0, 0}))

	embedder := &fakeEmbedder{fallbackVec: []float32{1, 0, 0}}
	adapter := NewSearchAdapter(store, embedder, 3)

	result := adapter.Invoke(ctx, providers.Params{ResearchQuery: "what is growth investing"})
	require.False(t, result.Failed(), result.FailureDetail())
	assert.Contains(t, result.Text(), "Source: growth.md")
	assert.Contains(t, result.Text(), "Content: Growth investing")
}

func TestSearchAdapterNoResults(t *testing.T) {
	store, err := NewChromemStore(ChromemConfig{Collection: "void"})
	require.NoError(t, err)
	defer store.Close()

	adapter := NewSearchAdapter(store, &fakeEmbedder{}, 3)
	result := adapter.Invoke(context.Background(), providers.Params{ResearchQuery: "anything"})

	require.False(t, result.Failed())
	assert.Contains(t, result.Text(), "No relevant information found")
}

func TestSearchAdapterRequiresQuery(t *testing.T) {
	adapter := NewSearchAdapter(nil, &fakeEmbedder{}, 3)
	result := adapter.Invoke(context.Background(), providers.Params{})

	assert.True(t, result.Failed())
	assert.Contains(t, result.FailureDetail(), "requires a research query")
}

func TestIngestDir(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("Investment philosophy paragraph.\n\n", 80)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte(long), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.pdf"), []byte("binary"), 0o600))

	store, err := NewChromemStore(ChromemConfig{Collection: "ingested"})
	require.NoError(t, err)
	defer store.Close()

	ingestor := NewIngestor(store, &fakeEmbedder{fallbackVec: []float32{1, 0}})
	count, err := ingestor.IngestDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Greater(t, count, 1, "long document should produce multiple chunks")
}

func TestIngestDirEmpty(t *testing.T) {
	ingestor := NewIngestor(nil, &fakeEmbedder{})
	_, err := ingestor.IngestDir(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no documents found")
}

func TestSplitText(t *testing.T) {
	assert.Nil(t, splitText("   ", 100, 10))

	short := "one small chunk"
	assert.Equal(t, []string{short}, splitText(short, 100, 10))

	long := strings.Repeat("alpha beta gamma delta. ", 100)
	chunks := splitText(long, 200, 20)
	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 200)
	}
}
