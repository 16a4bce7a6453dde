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
	ErrEventInfoNotFound  = errors.New("event info not found")
	ErrEventEntryNotFound = errors.New("event entry not found")
	ErrEventInfoConflict  = errors.New("event info already exists for this meet and event code")
	ErrEventEntryConflict = errors.New("event entry already exists for this meet, event code and athlete")
)

// EventRepository stores the two tables the import pipeline loads:
// event_infos (one row per meet and event code) and event_entries (one
// row per meet, event code and athlete). It doubles as the pipeline's
// EventWriter.
type EventRepository interface {
	InsertEventInfo(ctx context.Context, info *models.EventInfo) error
	InsertEventEntry(ctx context.Context, entry *models.EventEntry) error
	PurgeMeet(ctx context.Context, meetID int) error

	ListInfoByMeet(ctx context.Context, meetID int) ([]models.EventInfo, error)
	ListEntriesByMeet(ctx context.Context, meetID int) ([]models.EventEntry, error)
	ListEntriesByEvent(ctx context.Context, meetID int, eventCode string) ([]models.EventEntry, error)

	UpdateInfoComment(ctx context.Context, meetID int, eventCode string, comments *string) error
	UpdateCheckIn(ctx context.Context, entryID int, status *models.CheckInStatus) error
	UpdateStartTime(ctx context.Context, entryID int, startTime *string) error
	UpdateFinishResult(ctx context.Context, entryID int, rank *int, finishTime *string) error
	UpdatePhotoFinish(ctx context.Context, entryID int, rank *int, photoTime *string) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) InsertEventInfo(ctx context.Context, info *models.EventInfo) error {
	query := `
		INSERT INTO event_infos (meet_id, event_code, length, name, event_date, event_time, title2, sponsor, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		info.MeetID,
		info.EventCode,
		info.Length,
		info.Name,
		info.Date,
		info.Time,
		info.Title2,
		info.Sponsor,
		info.Comments,
	).Scan(&info.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "event_infos_meet_id_event_code_key" {
				return ErrEventInfoConflict
			}
		}
		return fmt.Errorf("failed to insert event info: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) InsertEventEntry(ctx context.Context, entry *models.EventEntry) error {
	query := `
		INSERT INTO event_entries
			(meet_id, event_code, athlete_num, lane_order, first_name, last_name, athlete_club)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		entry.MeetID,
		entry.EventCode,
		entry.AthleteNum,
		entry.LaneOrder,
		entry.FirstName,
		entry.LastName,
		entry.AthleteClub,
	).Scan(&entry.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "event_entries_meet_id_event_code_athlete_num_key" {
				return ErrEventEntryConflict
			}
		}
		return fmt.Errorf("failed to insert event entry: %w", err)
	}
	return nil
}

// PurgeMeet deletes every event info and entry row for a meet. It runs
// in one transaction so a re-import never observes half a purge.
func (r *postgresEventRepository) PurgeMeet(ctx context.Context, meetID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin purge transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_entries WHERE meet_id = $1`, meetID); err != nil {
		return fmt.Errorf("failed to purge event entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_infos WHERE meet_id = $1`, meetID); err != nil {
		return fmt.Errorf("failed to purge event infos: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purge: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) ListInfoByMeet(ctx context.Context, meetID int) ([]models.EventInfo, error) {
	query := `
		SELECT id, meet_id, event_code, length, name, event_date, event_time, title2, sponsor, comments
		FROM event_infos
		WHERE meet_id = $1
		ORDER BY event_code ASC`

	rows, err := r.db.QueryContext(ctx, query, meetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event infos: %w", err)
	}
	defer rows.Close()

	infos := make([]models.EventInfo, 0)
	for rows.Next() {
		var info models.EventInfo
		if err := rows.Scan(
			&info.ID,
			&info.MeetID,
			&info.EventCode,
			&info.Length,
			&info.Name,
			&info.Date,
			&info.Time,
			&info.Title2,
			&info.Sponsor,
			&info.Comments,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event info row: %w", err)
		}
		infos = append(infos, info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event info rows: %w", err)
	}
	return infos, nil
}

func (r *postgresEventRepository) ListEntriesByMeet(ctx context.Context, meetID int) ([]models.EventEntry, error) {
	query := selectEntriesSQL + ` WHERE meet_id = $1 ORDER BY event_code ASC, lane_order ASC`
	return r.listEntries(ctx, query, meetID)
}

func (r *postgresEventRepository) ListEntriesByEvent(ctx context.Context, meetID int, eventCode string) ([]models.EventEntry, error) {
	query := selectEntriesSQL + ` WHERE meet_id = $1 AND event_code = $2 ORDER BY lane_order ASC`
	return r.listEntries(ctx, query, meetID, eventCode)
}

const selectEntriesSQL = `
	SELECT id, meet_id, event_code, athlete_num, lane_order, first_name, last_name, athlete_club,
		start_pos, start_time, finish_rank, finish_time, photo_rank, photo_time
	FROM event_entries`

func (r *postgresEventRepository) listEntries(ctx context.Context, query string, args ...interface{}) ([]models.EventEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list event entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.EventEntry, 0)
	for rows.Next() {
		var entry models.EventEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.MeetID,
			&entry.EventCode,
			&entry.AthleteNum,
			&entry.LaneOrder,
			&entry.FirstName,
			&entry.LastName,
			&entry.AthleteClub,
			&entry.StartPos,
			&entry.StartTime,
			&entry.FinishRank,
			&entry.FinishTime,
			&entry.PhotoRank,
			&entry.PhotoTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event entry rows: %w", err)
	}
	return entries, nil
}

func (r *postgresEventRepository) UpdateInfoComment(ctx context.Context, meetID int, eventCode string, comments *string) error {
	query := `UPDATE event_infos SET comments = $1 WHERE meet_id = $2 AND event_code = $3`
	result, err := r.db.ExecContext(ctx, query, comments, meetID, eventCode)
	if err != nil {
		return fmt.Errorf("failed to update event comments: %w", err)
	}
	return checkAffectedRows(result, ErrEventInfoNotFound)
}

func (r *postgresEventRepository) UpdateCheckIn(ctx context.Context, entryID int, status *models.CheckInStatus) error {
	query := `UPDATE event_entries SET start_pos = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, entryID)
	if err != nil {
		return fmt.Errorf("failed to update check-in status: %w", err)
	}
	return checkAffectedRows(result, ErrEventEntryNotFound)
}

func (r *postgresEventRepository) UpdateStartTime(ctx context.Context, entryID int, startTime *string) error {
	query := `UPDATE event_entries SET start_time = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, startTime, entryID)
	if err != nil {
		return fmt.Errorf("failed to update start time: %w", err)
	}
	return checkAffectedRows(result, ErrEventEntryNotFound)
}

func (r *postgresEventRepository) UpdateFinishResult(ctx context.Context, entryID int, rank *int, finishTime *string) error {
	query := `UPDATE event_entries SET finish_rank = $1, finish_time = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, rank, finishTime, entryID)
	if err != nil {
		return fmt.Errorf("failed to update finish result: %w", err)
	}
	return checkAffectedRows(result, ErrEventEntryNotFound)
}

func (r *postgresEventRepository) UpdatePhotoFinish(ctx context.Context, entryID int, rank *int, photoTime *string) error {
	query := `UPDATE event_entries SET photo_rank = $1, photo_time = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, rank, photoTime, entryID)
	if err != nil {
		return fmt.Errorf("failed to update photo finish: %w", err)
	}
	return checkAffectedRows(result, ErrEventEntryNotFound)
}
