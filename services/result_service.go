package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/trackops/startline/models"
	"github.com/trackops/startline/repositories"
	"github.com/trackops/startline/storage"
)

// EventResult is one event's metadata with its entries ordered for
// display: ranked finishers first, then the rest by lane.
type EventResult struct {
	Info    models.EventInfo    `json:"info"`
	Entries []models.EventEntry `json:"entries"`
}

type ResultService interface {
	MeetResults(ctx context.Context, meetID int) ([]EventResult, error)
	// ExportCSV renders the meet's loaded results as CSV and, when an
	// uploader is configured, archives a copy to object storage.
	ExportCSV(ctx context.Context, meetID int) ([]byte, error)
}

type resultService struct {
	eventRepo repositories.EventRepository
	uploader  storage.FileUploader // nil disables archiving
	logger    *slog.Logger
}

func NewResultService(eventRepo repositories.EventRepository, uploader storage.FileUploader, logger *slog.Logger) ResultService {
	return &resultService{
		eventRepo: eventRepo,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *resultService) MeetResults(ctx context.Context, meetID int) ([]EventResult, error) {
	var (
		infos   []models.EventInfo
		entries []models.EventEntry
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		infos, err = s.eventRepo.ListInfoByMeet(groupCtx, meetID)
		return err
	})
	group.Go(func() error {
		var err error
		entries, err = s.eventRepo.ListEntriesByMeet(groupCtx, meetID)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load meet results: %w", err)
	}

	byCode := make(map[string][]models.EventEntry)
	for _, entry := range entries {
		byCode[entry.EventCode] = append(byCode[entry.EventCode], entry)
	}

	results := make([]EventResult, 0, len(infos))
	for _, info := range infos {
		eventEntries := byCode[info.EventCode]
		sortEntriesForDisplay(eventEntries)
		delete(byCode, info.EventCode)
		results = append(results, EventResult{Info: info, Entries: eventEntries})
	}

	// Entries without a matching info row cannot occur through the
	// import pipeline, but loaded data is not guaranteed pristine.
	for code, orphaned := range byCode {
		sortEntriesForDisplay(orphaned)
		results = append(results, EventResult{
			Info:    models.EventInfo{MeetID: meetID, EventCode: code},
			Entries: orphaned,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Info.EventCode < results[j].Info.EventCode
	})

	return results, nil
}

func (s *resultService) ExportCSV(ctx context.Context, meetID int) ([]byte, error) {
	results, err := s.MeetResults(ctx, meetID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"event_code", "event_name", "lane_order", "athlete_num",
		"last_name", "first_name", "athlete_club",
		"start_pos", "start_time", "finish_rank", "finish_time", "photo_rank", "photo_time",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		eventName := ""
		if result.Info.Name != nil {
			eventName = *result.Info.Name
		}
		for _, entry := range result.Entries {
			record := []string{
				entry.EventCode,
				eventName,
				entry.LaneOrder,
				entry.AthleteNum,
				entry.LastName,
				entry.FirstName,
				entry.AthleteClub,
				checkInString(entry.StartPos),
				stringOrEmpty(entry.StartTime),
				intOrEmpty(entry.FinishRank),
				stringOrEmpty(entry.FinishTime),
				intOrEmpty(entry.PhotoRank),
				stringOrEmpty(entry.PhotoTime),
			}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	s.archiveExport(ctx, meetID, buf.Bytes())

	return buf.Bytes(), nil
}

func (s *resultService) archiveExport(ctx context.Context, meetID int, data []byte) {
	if s.uploader == nil {
		return
	}
	key := fmt.Sprintf("meets/%d/results.csv", meetID)
	if _, err := s.uploader.Upload(ctx, key, "text/csv", bytes.NewReader(data)); err != nil {
		s.logger.Warn("result export archive failed",
			slog.Int("meet_id", meetID),
			slog.String("key", key),
			slog.Any("error", err))
		return
	}
	s.logger.Info("result export archived",
		slog.Int("meet_id", meetID),
		slog.String("key", key))
}

// sortEntriesForDisplay orders ranked finishers first by finish rank,
// photo-finish rank breaking ties, then everyone else by lane.
func sortEntriesForDisplay(entries []models.EventEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := entries[i].FinishRank, entries[j].FinishRank
		switch {
		case ri != nil && rj != nil && *ri != *rj:
			return *ri < *rj
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		}
		pi, pj := entries[i].PhotoRank, entries[j].PhotoRank
		switch {
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		}
		return laneLess(entries[i].LaneOrder, entries[j].LaneOrder)
	})
}

// laneLess compares lane orders numerically when both parse, falling
// back to string order for non-numeric lanes.
func laneLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func checkInString(s *models.CheckInStatus) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
