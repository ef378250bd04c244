package knowledge

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	chunkSize    = 1000
	chunkOverlap = 100
)

// Ingestor loads documents from a folder, chunks them, and indexes
// them into the store.
type Ingestor struct {
	store    Store
	embedder Embedder
}

// NewIngestor builds an Ingestor.
func NewIngestor(store Store, embedder Embedder) *Ingestor {
	return &Ingestor{store: store, embedder: embedder}
}

// IngestDir walks dir for .md and .txt files and indexes their chunks.
// Returns the number of chunks indexed.
func (i *Ingestor) IngestDir(ctx context.Context, dir string) (int, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".txt":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	if len(files) == 0 {
		return 0, fmt.Errorf("no documents found in %s", dir)
	}

	total := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return total, fmt.Errorf("failed to read %s: %w", file, err)
		}

		chunks := splitText(string(data), chunkSize, chunkOverlap)
		for _, chunk := range chunks {
			vector, err := i.embedder.Embed(ctx, chunk)
			if err != nil {
				return total, fmt.Errorf("failed to embed chunk of %s: %w", file, err)
			}

			doc := Document{
				ID:      uuid.NewString(),
				Content: chunk,
				Source:  file,
			}
			if err := i.store.Upsert(ctx, doc, vector); err != nil {
				return total, fmt.Errorf("failed to index chunk of %s: %w", file, err)
			}
			total++
		}
		slog.Info("ingested document", "file", file, "chunks", len(chunks))
	}

	return total, nil
}

// splitText cuts text into chunks of at most size runes with the given
// overlap, preferring paragraph and line boundaries.
func splitText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunk := strings.TrimSpace(string(runes[start:]))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		// Prefer breaking at a paragraph, then a line, then a space.
		cut := end
		window := string(runes[start:end])
		for _, sep := range []string{"\n\n", "\n", " "} {
			if idx := strings.LastIndex(window, sep); idx > size/2 {
				cut = start + len([]rune(window[:idx]))
				break
			}
		}

		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks
}
