package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trackops/startline/live"
	"github.com/trackops/startline/models"
	"github.com/trackops/startline/repositories"
	"github.com/trackops/startline/startlist"
	"github.com/trackops/startline/storage"
)

type ImportService interface {
	// ImportStartList purges the meet's prior rows and loads the start
	// list from the meet's configured folder and format. The returned
	// result always describes the outcome; a non-nil error covers only
	// the cases the HTTP layer maps to its own statuses (unknown meet,
	// import already running).
	ImportStartList(ctx context.Context, meetID int) (startlist.ImportResult, error)
}

type importService struct {
	meetRepo  repositories.MeetRepository
	eventRepo repositories.EventRepository
	importer  *startlist.Importer
	guard     *startlist.ImportGuard
	files     startlist.FileStore
	uploader  storage.FileUploader // nil disables archiving
	hub       *live.Hub
	logger    *slog.Logger
}

func NewImportService(
	meetRepo repositories.MeetRepository,
	eventRepo repositories.EventRepository,
	importer *startlist.Importer,
	guard *startlist.ImportGuard,
	files startlist.FileStore,
	uploader storage.FileUploader,
	hub *live.Hub,
	logger *slog.Logger,
) ImportService {
	return &importService{
		meetRepo:  meetRepo,
		eventRepo: eventRepo,
		importer:  importer,
		guard:     guard,
		files:     files,
		uploader:  uploader,
		hub:       hub,
		logger:    logger,
	}
}

func (s *importService) ImportStartList(ctx context.Context, meetID int) (startlist.ImportResult, error) {
	meet, err := s.meetRepo.FindByID(ctx, meetID)
	if err != nil {
		if errors.Is(err, repositories.ErrMeetNotFound) {
			return startlist.ImportResult{}, ErrMeetNotFound
		}
		return startlist.ImportResult{}, fmt.Errorf("failed to load meet for import: %w", err)
	}

	// Re-import is purge-then-insert; a second concurrent run for the
	// same meet would race the purge, so it is rejected up front.
	if err := s.guard.Acquire(meetID); err != nil {
		return startlist.ImportResult{}, ErrImportAlreadyRunning
	}
	defer s.guard.Release(meetID)

	if err := s.eventRepo.PurgeMeet(ctx, meetID); err != nil {
		s.logger.Error("pre-import purge failed",
			slog.Int("meet_id", meetID),
			slog.Any("error", err))
		return startlist.FailureResult(err), nil
	}

	interfaceFolder := ""
	if meet.InterfaceFolder != nil {
		interfaceFolder = *meet.InterfaceFolder
	}

	result, err := s.importer.Run(ctx, startlist.ImportRequest{
		MeetID:          meetID,
		Folder:          meet.Folder,
		InterfaceFolder: interfaceFolder,
		Format:          meet.SourceFormat,
	})
	if err != nil {
		// Unreadable source file: fatal to this attempt, reported in
		// the result body rather than as an HTTP error.
		return startlist.FailureResult(err), nil
	}

	if result.Status == startlist.StatusSuccess {
		s.archiveSourceFile(ctx, meet)
	}

	s.hub.BroadcastToRoom(live.MeetRoom(meetID), live.TypeStartListImported, result)

	return result, nil
}

// archiveSourceFile uploads the raw start-list file to object storage
// for audit. Best effort: failures are logged and never affect the
// import outcome.
func (s *importService) archiveSourceFile(ctx context.Context, meet *models.Meet) {
	if s.uploader == nil {
		return
	}

	name := "startlist.csv"
	if meet.SourceFormat == models.FormatFinishLynx {
		name = "lynx.evt"
	}

	text, err := s.files.ReadText(meet.Folder, name)
	if err != nil {
		s.logger.Warn("start list archive skipped, source unreadable",
			slog.Int("meet_id", meet.ID),
			slog.Any("error", err))
		return
	}

	key := fmt.Sprintf("meets/%d/%s", meet.ID, name)
	if _, err := s.uploader.Upload(ctx, key, "text/plain", strings.NewReader(text)); err != nil {
		s.logger.Warn("start list archive upload failed",
			slog.Int("meet_id", meet.ID),
			slog.String("key", key),
			slog.Any("error", err))
		return
	}
	s.logger.Info("start list archived",
		slog.Int("meet_id", meet.ID),
		slog.String("key", key))
}
