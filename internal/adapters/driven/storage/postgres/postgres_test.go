package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

func TestDocumentSink_SaveDocuments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	docs := []domain.DocumentRecord{
		{ID: "doc_0_aaaa", Content: "it's", Source: "a.md", Metadata: `{"source":"a.md"}`},
		{ID: "doc_1_bbbb", Content: "two", Source: "b.md", Metadata: "{}"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "documents"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS "idx_documents_source" ON "documents" (source)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO "documents" (id, content, source, metadata) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO UPDATE`))
	for _, d := range docs {
		prep.ExpectExec().
			WithArgs(d.ID, d.Content, d.Source, d.Metadata).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	sink := NewDocumentSink(db, "documents")
	err = sink.SaveDocuments(context.Background(), docs)

	assert.NoError(t, err)
	assert.Equal(t, "postgres", sink.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentSink_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = NewDocumentSink(db, "documents").SaveDocuments(context.Background(), nil)

	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorSink_UpsertVectors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	vectors := []domain.VectorRecord{
		{ID: "doc_0", Vector: []float64{0.5, 1}, Metadata: domain.VectorMetadata{Content: "a", Source: "a.md", ChunkIndex: 0}},
		{ID: "doc_1", Vector: []float64{-1, 2}, Metadata: domain.VectorMetadata{Content: "b", Source: "b.md", ChunkIndex: 1}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`CREATE EXTENSION IF NOT EXISTS vector`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "embeddings" (id TEXT PRIMARY KEY, embedding vector(2) NOT NULL`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO "embeddings" (id, embedding, content, source, chunk_index)`))
	for _, v := range vectors {
		prep.ExpectExec().
			WithArgs(v.ID, sqlmock.AnyArg(), v.Metadata.Content, v.Metadata.Source, v.Metadata.ChunkIndex).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	sink := NewVectorSink(db, "embeddings")
	err = sink.UpsertVectors(context.Background(), 2, vectors)

	assert.NoError(t, err)
	assert.Equal(t, "pgvector", sink.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorSink_RejectsWrongWidth(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE EXTENSION").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare("INSERT INTO")
	mock.ExpectRollback()

	err = NewVectorSink(db, "embeddings").UpsertVectors(context.Background(), 3,
		[]domain.VectorRecord{{ID: "doc_0", Vector: []float64{1, 2}}})

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorSink_RejectsZeroDimension(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewVectorSink(db, "embeddings").UpsertVectors(context.Background(), 0, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestToFloat32(t *testing.T) {
	assert.Equal(t, []float32{0.5, -2}, toFloat32([]float64{0.5, -2}))
}
