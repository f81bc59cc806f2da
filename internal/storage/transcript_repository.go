package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// 取り込み元の種別
const (
	SourceKindUploaded   = "uploaded"
	SourceKindDownloaded = "downloaded"
)

// Transcript は保存された文字起こし結果
type Transcript struct {
	ID         string    `json:"id"`
	SourceKind string    `json:"source_kind"`
	SourceName string    `json:"source_name"`
	Language   string    `json:"language"`
	Confidence float64   `json:"confidence"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// TranscriptRepository は文字起こし履歴のデータアクセス層
type TranscriptRepository struct {
	db *DB
}

// NewTranscriptRepository は新しいTranscriptRepositoryを作成
func NewTranscriptRepository(db *DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create は新しい文字起こし履歴を保存
func (r *TranscriptRepository) Create(ctx context.Context, t *Transcript) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transcripts (id, source_kind, source_name, language, confidence, text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SourceKind, t.SourceName, t.Language, t.Confidence, t.Text, t.CreatedAt,
	)
	return err
}

// GetByID はIDで履歴を取得（存在しない場合はnil）
func (r *TranscriptRepository) GetByID(ctx context.Context, id string) (*Transcript, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source_kind, source_name, language, confidence, text, created_at
		 FROM transcripts WHERE id = ?`, id)

	var t Transcript
	err := row.Scan(&t.ID, &t.SourceKind, &t.SourceName, &t.Language, &t.Confidence, &t.Text, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List は新しい順に履歴を取得
func (r *TranscriptRepository) List(ctx context.Context, limit int) ([]*Transcript, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_kind, source_name, language, confidence, text, created_at
		 FROM transcripts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transcripts []*Transcript
	for rows.Next() {
		var t Transcript
		if err := rows.Scan(&t.ID, &t.SourceKind, &t.SourceName, &t.Language, &t.Confidence, &t.Text, &t.CreatedAt); err != nil {
			return nil, err
		}
		transcripts = append(transcripts, &t)
	}
	return transcripts, rows.Err()
}

// Delete はIDで履歴を削除（削除した件数を返す）
func (r *TranscriptRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transcripts WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
