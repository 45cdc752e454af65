// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorstore persists document chunks with their embeddings in
// SQLite and serves cosine-similarity retrieval over them.
package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "chunks.db"
)

// Embedder produces vector embeddings for a batch of texts, one vector per
// input in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Store manages the chunk database. Reads are safe to share; concurrent
// ingestion of the same new document can duplicate it because the
// existence check and the insert are not one transaction.
type Store struct {
	db       *sql.DB
	embedder Embedder
}

// Open opens or creates the chunk database at dataDir/index/chunks.db and
// creates the schema if it does not exist.
func Open(cfg types.StoreConfig, embedder Embedder) (*Store, error) {
	dir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, embedder: embedder}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hash TEXT NOT NULL,
			content TEXT NOT NULL,
			metadata TEXT NOT NULL,
			embedding BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_hash ON chunks(hash)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Has reports whether any chunk with the given content hash is already
// stored. Used as the ingestion dedup check.
func (s *Store) Has(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM chunks WHERE hash = ?`, hash,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking hash %s: %w", hash, err)
	}
	return n > 0, nil
}

// Add embeds the chunk contents and inserts them in one transaction.
func (s *Store) Add(ctx context.Context, chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (hash, content, metadata, embedding) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		metaJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata for chunk %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, c.Metadata.Hash, c.Content, string(metaJSON), encodeVector(vectors[i])); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// scored pairs a chunk with its similarity to the query vector.
type scored struct {
	chunk types.Chunk
	score float64
}

// SimilaritySearch embeds the query and returns the k stored chunks most
// similar to it by cosine similarity, best first. k <= 0 returns nil.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]types.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}
	queryVec := vectors[0]

	rows, err := s.db.QueryContext(ctx, `SELECT content, metadata, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []scored
	for rows.Next() {
		var (
			content  string
			metaJSON string
			blob     []byte
		)
		if err := rows.Scan(&content, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		var meta types.ChunkMeta
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, fmt.Errorf("parsing chunk metadata: %w", err)
		}

		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding: %w", err)
		}

		results = append(results, scored{
			chunk: types.Chunk{Content: content, Metadata: meta},
			score: cosineSimilarity(queryVec, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > k {
		results = results[:k]
	}

	chunks := make([]types.Chunk, len(results))
	for i, r := range results {
		chunks[i] = r.chunk
	}
	return chunks, nil
}

// PaperInfo summarizes one distinct source stored in the chunk database.
type PaperInfo struct {
	Hash   string `json:"hash" yaml:"hash"`
	Author string `json:"author" yaml:"author"`
	Title  string `json:"title" yaml:"title"`
	Year   string `json:"year" yaml:"year"`
	Chunks int    `json:"chunks" yaml:"chunks"`
}

// Papers lists the distinct sources in the store with chunk counts,
// ordered by title.
func (s *Store) Papers(ctx context.Context) ([]PaperInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, min(metadata), count(*) FROM chunks GROUP BY hash`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []PaperInfo
	for rows.Next() {
		var (
			hash     string
			metaJSON string
			count    int
		)
		if err := rows.Scan(&hash, &metaJSON, &count); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var meta types.ChunkMeta
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, fmt.Errorf("parsing chunk metadata: %w", err)
		}
		papers = append(papers, PaperInfo{
			Hash:   hash,
			Author: meta.Author,
			Title:  meta.Title,
			Year:   meta.Year,
			Chunks: count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(papers, func(i, j int) bool { return papers[i].Title < papers[j].Title })
	return papers, nil
}
