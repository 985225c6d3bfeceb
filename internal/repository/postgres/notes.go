package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

type noteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNoteRepository creates a new calendar note repository
func NewNoteRepository(db *sql.DB, logger *zap.Logger) *noteRepository {
	return &noteRepository{
		db:     db,
		logger: logger,
	}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	query := `
		INSERT INTO notes (id, user_id, date, title, body, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.UserID,
		note.Date,
		note.Title,
		note.Body,
		note.Color,
		note.CreatedAt,
		note.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create note", zap.Error(err))
		return err
	}

	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	query := `
		SELECT id, user_id, date, title, body, color, created_at, updated_at
		FROM notes
		WHERE id = $1
	`

	var note domain.Note

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID,
		&note.UserID,
		&note.Date,
		&note.Title,
		&note.Body,
		&note.Color,
		&note.CreatedAt,
		&note.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "note", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get note", zap.Error(err))
		return nil, err
	}

	return &note, nil
}

func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	query := `
		UPDATE notes
		SET date = $2, title = $3, body = $4, color = $5, updated_at = $6
		WHERE id = $1
	`

	note.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.Date,
		note.Title,
		note.Body,
		note.Color,
		note.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update note", zap.Error(err))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "note", ID: note.ID.String()}
	}

	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM notes WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete note", zap.Error(err))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "note", ID: id.String()}
	}

	return nil
}

func (r *noteRepository) ListByUserAndRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Note, error) {
	query := `
		SELECT id, user_id, date, title, body, color, created_at, updated_at
		FROM notes
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		r.logger.Error("Failed to list notes", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note

		err := rows.Scan(
			&note.ID,
			&note.UserID,
			&note.Date,
			&note.Title,
			&note.Body,
			&note.Color,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan note row", zap.Error(err))
			return nil, err
		}

		notes = append(notes, &note)
	}

	return notes, rows.Err()
}
