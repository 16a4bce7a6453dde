package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trackops/startline/models"
	"github.com/trackops/startline/repositories"
	"github.com/trackops/startline/storage"
)

type MeetService interface {
	Create(ctx context.Context, input CreateMeetInput) (*models.Meet, error)
	GetByID(ctx context.Context, id int) (*models.Meet, error)
	List(ctx context.Context) ([]models.Meet, error)
	Update(ctx context.Context, id int, input UpdateMeetInput) (*models.Meet, error)
	Delete(ctx context.Context, id int) error
}

type CreateMeetInput struct {
	Name            string              `json:"name"`
	Description     *string             `json:"description,omitempty"`
	Folder          string              `json:"folder"`
	OutputFormat    *string             `json:"output_format,omitempty"`
	SourceFormat    models.SourceFormat `json:"source_format"`
	InterfaceFolder *string             `json:"interface_folder,omitempty"`
	Editable        bool                `json:"editable"`
}

type UpdateMeetInput struct {
	Name            *string              `json:"name,omitempty"`
	Description     *string              `json:"description,omitempty"`
	Folder          *string              `json:"folder,omitempty"`
	OutputFormat    *string              `json:"output_format,omitempty"`
	SourceFormat    *models.SourceFormat `json:"source_format,omitempty"`
	InterfaceFolder *string              `json:"interface_folder,omitempty"`
	Editable        *bool                `json:"editable,omitempty"`
}

type meetService struct {
	meetRepo  repositories.MeetRepository
	eventRepo repositories.EventRepository
	uploader  storage.FileUploader // nil disables archive cleanup
	logger    *slog.Logger
}

func NewMeetService(meetRepo repositories.MeetRepository, eventRepo repositories.EventRepository, uploader storage.FileUploader, logger *slog.Logger) MeetService {
	return &meetService{
		meetRepo:  meetRepo,
		eventRepo: eventRepo,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *meetService) Create(ctx context.Context, input CreateMeetInput) (*models.Meet, error) {
	if input.Name == "" {
		return nil, ErrMeetNameRequired
	}
	if input.Folder == "" {
		return nil, ErrMeetFolderRequired
	}
	if !models.ValidSourceFormat(input.SourceFormat) {
		return nil, ErrMeetInvalidFormat
	}

	meet := &models.Meet{
		Name:            input.Name,
		Description:     input.Description,
		Folder:          input.Folder,
		OutputFormat:    input.OutputFormat,
		SourceFormat:    input.SourceFormat,
		InterfaceFolder: input.InterfaceFolder,
		Editable:        input.Editable,
	}

	if err := s.meetRepo.Create(ctx, meet); err != nil {
		if errors.Is(err, repositories.ErrMeetNameConflict) {
			return nil, ErrMeetNameConflict
		}
		return nil, fmt.Errorf("failed to create meet: %w", err)
	}
	return meet, nil
}

func (s *meetService) GetByID(ctx context.Context, id int) (*models.Meet, error) {
	meet, err := s.meetRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMeetNotFound) {
			return nil, ErrMeetNotFound
		}
		return nil, fmt.Errorf("failed to get meet: %w", err)
	}
	return meet, nil
}

func (s *meetService) List(ctx context.Context) ([]models.Meet, error) {
	meets, err := s.meetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meets: %w", err)
	}
	return meets, nil
}

func (s *meetService) Update(ctx context.Context, id int, input UpdateMeetInput) (*models.Meet, error) {
	meet, err := s.meetRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMeetNotFound) {
			return nil, ErrMeetNotFound
		}
		return nil, fmt.Errorf("failed to get meet for update: %w", err)
	}
	if !meet.Editable {
		// Locked meets can only be unlocked, nothing else.
		if input.Editable == nil || !*input.Editable {
			return nil, ErrMeetNotEditable
		}
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrMeetNameRequired
		}
		meet.Name = *input.Name
	}
	if input.Description != nil {
		meet.Description = input.Description
	}
	if input.Folder != nil {
		if *input.Folder == "" {
			return nil, ErrMeetFolderRequired
		}
		meet.Folder = *input.Folder
	}
	if input.OutputFormat != nil {
		meet.OutputFormat = input.OutputFormat
	}
	if input.SourceFormat != nil {
		if !models.ValidSourceFormat(*input.SourceFormat) {
			return nil, ErrMeetInvalidFormat
		}
		meet.SourceFormat = *input.SourceFormat
	}
	if input.InterfaceFolder != nil {
		meet.InterfaceFolder = input.InterfaceFolder
	}
	if input.Editable != nil {
		meet.Editable = *input.Editable
	}

	if err := s.meetRepo.Update(ctx, meet); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMeetNotFound):
			return nil, ErrMeetNotFound
		case errors.Is(err, repositories.ErrMeetNameConflict):
			return nil, ErrMeetNameConflict
		}
		return nil, fmt.Errorf("failed to update meet: %w", err)
	}
	return meet, nil
}

// Delete removes a meet and everything imported under it. The cascade
// is an explicit two-step purge: event rows first, then the meet row.
func (s *meetService) Delete(ctx context.Context, id int) error {
	if _, err := s.meetRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMeetNotFound) {
			return ErrMeetNotFound
		}
		return fmt.Errorf("failed to get meet for deletion: %w", err)
	}

	if err := s.eventRepo.PurgeMeet(ctx, id); err != nil {
		return fmt.Errorf("failed to purge meet events: %w", err)
	}
	if err := s.meetRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMeetNotFound) {
			return ErrMeetNotFound
		}
		return fmt.Errorf("failed to delete meet: %w", err)
	}

	s.purgeArchive(ctx, id)

	s.logger.Info("meet deleted", slog.Int("meet_id", id))
	return nil
}

// purgeArchive removes the meet's archived objects. Best effort, like
// the uploads: a leftover object is not worth failing the deletion.
func (s *meetService) purgeArchive(ctx context.Context, id int) {
	if s.uploader == nil {
		return
	}
	for _, name := range []string{"lynx.evt", "startlist.csv", "results.csv"} {
		key := fmt.Sprintf("meets/%d/%s", id, name)
		if err := s.uploader.Delete(ctx, key); err != nil {
			s.logger.Warn("archive object delete failed",
				slog.Int("meet_id", id),
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}
