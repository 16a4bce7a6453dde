package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/trackops/startline/models"
)

var (
	ErrMeetNotFound     = errors.New("meet not found")
	ErrMeetNameConflict = errors.New("meet name is already in use")
)

type MeetRepository interface {
	Create(ctx context.Context, meet *models.Meet) error
	FindByID(ctx context.Context, id int) (*models.Meet, error)
	List(ctx context.Context) ([]models.Meet, error)
	Update(ctx context.Context, meet *models.Meet) error
	Delete(ctx context.Context, id int) error
}

type postgresMeetRepository struct {
	db *sql.DB
}

func NewPostgresMeetRepository(db *sql.DB) MeetRepository {
	return &postgresMeetRepository{db: db}
}

func (r *postgresMeetRepository) Create(ctx context.Context, meet *models.Meet) error {
	query := `
		INSERT INTO meets (name, description, folder, output_format, source_format, interface_folder, editable)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		meet.Name,
		meet.Description,
		meet.Folder,
		meet.OutputFormat,
		meet.SourceFormat,
		meet.InterfaceFolder,
		meet.Editable,
	).Scan(&meet.ID, &meet.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "meets_name_key" {
				return ErrMeetNameConflict
			}
		}
		return fmt.Errorf("failed to create meet: %w", err)
	}
	return nil
}

func (r *postgresMeetRepository) FindByID(ctx context.Context, id int) (*models.Meet, error) {
	query := `
		SELECT id, name, description, folder, output_format, source_format, interface_folder, editable, created_at
		FROM meets
		WHERE id = $1`

	meet := &models.Meet{}
	err := r.scanMeet(r.db.QueryRowContext(ctx, query, id), meet)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMeetNotFound
		}
		return nil, fmt.Errorf("failed to find meet: %w", err)
	}
	return meet, nil
}

func (r *postgresMeetRepository) List(ctx context.Context) ([]models.Meet, error) {
	query := `
		SELECT id, name, description, folder, output_format, source_format, interface_folder, editable, created_at
		FROM meets
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list meets: %w", err)
	}
	defer rows.Close()

	meets := make([]models.Meet, 0)
	for rows.Next() {
		var meet models.Meet
		if err := r.scanMeet(rows, &meet); err != nil {
			return nil, fmt.Errorf("failed to scan meet row: %w", err)
		}
		meets = append(meets, meet)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meet rows: %w", err)
	}
	return meets, nil
}

func (r *postgresMeetRepository) Update(ctx context.Context, meet *models.Meet) error {
	query := `
		UPDATE meets SET
			name = $1,
			description = $2,
			folder = $3,
			output_format = $4,
			source_format = $5,
			interface_folder = $6,
			editable = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		meet.Name,
		meet.Description,
		meet.Folder,
		meet.OutputFormat,
		meet.SourceFormat,
		meet.InterfaceFolder,
		meet.Editable,
		meet.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "meets_name_key" {
				return ErrMeetNameConflict
			}
		}
		return fmt.Errorf("failed to update meet: %w", err)
	}
	return checkAffectedRows(result, ErrMeetNotFound)
}

// Delete removes only the meet row itself. Purging the meet's event
// rows first is the service layer's job; there is no database-level
// cascade.
func (r *postgresMeetRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM meets WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete meet: %w", err)
	}
	return checkAffectedRows(result, ErrMeetNotFound)
}

func (r *postgresMeetRepository) scanMeet(rowScanner interface {
	Scan(dest ...interface{}) error
}, meet *models.Meet) error {
	return rowScanner.Scan(
		&meet.ID,
		&meet.Name,
		&meet.Description,
		&meet.Folder,
		&meet.OutputFormat,
		&meet.SourceFormat,
		&meet.InterfaceFolder,
		&meet.Editable,
		&meet.CreatedAt,
	)
}
