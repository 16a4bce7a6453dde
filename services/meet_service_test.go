package services

import (
	"context"
	"errors"
	"testing"

	"github.com/trackops/startline/models"
)

func newMeetServiceFixture(meets ...*models.Meet) (MeetService, *fakeMeetRepo, *fakeEventRepo) {
	meetRepo := newFakeMeetRepo(meets...)
	eventRepo := newFakeEventRepo()
	return NewMeetService(meetRepo, eventRepo, nil, testLogger()), meetRepo, eventRepo
}

func TestCreateMeetValidation(t *testing.T) {
	service, _, _ := newMeetServiceFixture()

	tests := []struct {
		name    string
		input   CreateMeetInput
		wantErr error
	}{
		{
			name:    "missing name",
			input:   CreateMeetInput{Folder: "/meets/a", SourceFormat: models.FormatFinishLynx},
			wantErr: ErrMeetNameRequired,
		},
		{
			name:    "missing folder",
			input:   CreateMeetInput{Name: "Spring Open", SourceFormat: models.FormatFinishLynx},
			wantErr: ErrMeetFolderRequired,
		},
		{
			name:    "unknown source format",
			input:   CreateMeetInput{Name: "Spring Open", Folder: "/meets/a", SourceFormat: "CSV"},
			wantErr: ErrMeetInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateMeetNameConflict(t *testing.T) {
	service, _, _ := newMeetServiceFixture(&models.Meet{
		ID:           1,
		Name:         "Spring Open",
		Folder:       "/meets/a",
		SourceFormat: models.FormatFinishLynx,
	})

	_, err := service.Create(context.Background(), CreateMeetInput{
		Name:         "Spring Open",
		Folder:       "/meets/b",
		SourceFormat: models.FormatOmega,
	})
	if !errors.Is(err, ErrMeetNameConflict) {
		t.Fatalf("expected ErrMeetNameConflict, got %v", err)
	}
}

func TestUpdateLockedMeet(t *testing.T) {
	service, _, _ := newMeetServiceFixture(&models.Meet{
		ID:           1,
		Name:         "Spring Open",
		Folder:       "/meets/a",
		SourceFormat: models.FormatFinishLynx,
		Editable:     false,
	})

	newName := "Renamed"
	_, err := service.Update(context.Background(), 1, UpdateMeetInput{Name: &newName})
	if !errors.Is(err, ErrMeetNotEditable) {
		t.Fatalf("expected ErrMeetNotEditable, got %v", err)
	}

	// Unlocking is the one change a locked meet accepts.
	unlock := true
	meet, err := service.Update(context.Background(), 1, UpdateMeetInput{Editable: &unlock})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if !meet.Editable {
		t.Fatal("expected meet to be unlocked")
	}
}

func TestDeleteMeetPurgesEvents(t *testing.T) {
	service, meetRepo, eventRepo := newMeetServiceFixture(&models.Meet{
		ID:           1,
		Name:         "Spring Open",
		Folder:       "/meets/a",
		SourceFormat: models.FormatFinishLynx,
		Editable:     true,
	})

	if err := service.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(eventRepo.purgedMeets) != 1 || eventRepo.purgedMeets[0] != 1 {
		t.Fatalf("expected event purge for meet 1, got %v", eventRepo.purgedMeets)
	}
	if _, err := meetRepo.FindByID(context.Background(), 1); err == nil {
		t.Fatal("expected meet row to be gone")
	}
}

func TestDeleteMeetPurgesArchive(t *testing.T) {
	meetRepo := newFakeMeetRepo(&models.Meet{
		ID:           3,
		Name:         "Spring Open",
		Folder:       "/meets/a",
		SourceFormat: models.FormatFinishLynx,
		Editable:     true,
	})
	uploader := &fakeUploader{}
	service := NewMeetService(meetRepo, newFakeEventRepo(), uploader, testLogger())

	if err := service.Delete(context.Background(), 3); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"meets/3/lynx.evt", "meets/3/startlist.csv", "meets/3/results.csv"}
	if len(uploader.deleted) != len(want) {
		t.Fatalf("deleted keys = %v, want %v", uploader.deleted, want)
	}
	for i := range want {
		if uploader.deleted[i] != want[i] {
			t.Fatalf("deleted keys = %v, want %v", uploader.deleted, want)
		}
	}
}

func TestDeleteMeetUnknown(t *testing.T) {
	service, _, _ := newMeetServiceFixture()

	if err := service.Delete(context.Background(), 7); !errors.Is(err, ErrMeetNotFound) {
		t.Fatalf("expected ErrMeetNotFound, got %v", err)
	}
}
