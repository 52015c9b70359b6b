package model

import (
	"encoding/json"
	"time"
)

// ChunkRecord is the MySQL row behind the mysql vector store backend.
// Metadata and embedding are stored as JSON text.
type ChunkRecord struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	ChunkID    string    `gorm:"size:36;not null;uniqueIndex" json:"chunk_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Metadata   string    `gorm:"type:json" json:"metadata"`
	SearchDate string    `gorm:"size:8;index" json:"search_date"`
	Embedding  string    `gorm:"type:longtext" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ChunkRecord) TableName() string {
	return "qa_chunks"
}

// NewChunkRecord converts a chunk and its vector into a row.
func NewChunkRecord(chunk Chunk, vec []float32) (ChunkRecord, error) {
	meta := chunk.Metadata
	if meta == nil {
		meta = Metadata{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return ChunkRecord{}, err
	}
	rec := ChunkRecord{
		ChunkID:    chunk.ID,
		Content:    chunk.Content,
		Metadata:   string(metaJSON),
		SearchDate: meta.SearchDate(),
	}
	rec.SetEmbedding(vec)
	return rec, nil
}

// Chunk decodes the row back into a chunk.
func (r *ChunkRecord) Chunk() (Chunk, error) {
	meta := Metadata{}
	if r.Metadata != "" {
		if err := json.Unmarshal([]byte(r.Metadata), &meta); err != nil {
			return Chunk{}, err
		}
	}
	return Chunk{ID: r.ChunkID, Content: r.Content, Metadata: meta}, nil
}

// EmbeddingVector returns the parsed embedding; nil on parse error.
func (r *ChunkRecord) EmbeddingVector() []float32 {
	if r.Embedding == "" {
		return nil
	}
	var v []float32
	if err := json.Unmarshal([]byte(r.Embedding), &v); err != nil {
		return nil
	}
	return v
}

func (r *ChunkRecord) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		r.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	r.Embedding = string(b)
}
