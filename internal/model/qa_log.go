package model

import "time"

// QALog records one answered question.
type QALog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Question      string    `gorm:"type:text;not null" json:"question"`
	Category      string    `gorm:"size:16;not null;index" json:"category"`
	Answer        string    `gorm:"type:text;not null" json:"answer"`
	AttachedFiles string    `gorm:"type:text" json:"attached_files"`
	LatencyMS     int64     `json:"latency_ms"`
	Cached        bool      `json:"cached"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// CachedAnswer is what the answer cache keeps per question and day.
type CachedAnswer struct {
	Category      Category `json:"category"`
	Answer        string   `json:"answer"`
	AttachedFiles string   `json:"attached_files"`
}
