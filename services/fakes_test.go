package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/trackops/startline/models"
	"github.com/trackops/startline/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMeetRepo struct {
	mu      sync.Mutex
	meets   map[int]*models.Meet
	nextID  int
	findErr error
}

func newFakeMeetRepo(meets ...*models.Meet) *fakeMeetRepo {
	r := &fakeMeetRepo{meets: make(map[int]*models.Meet), nextID: 1}
	for _, m := range meets {
		if m.ID == 0 {
			m.ID = r.nextID
		}
		if m.ID >= r.nextID {
			r.nextID = m.ID + 1
		}
		r.meets[m.ID] = m
	}
	return r
}

func (r *fakeMeetRepo) Create(ctx context.Context, meet *models.Meet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.meets {
		if existing.Name == meet.Name {
			return repositories.ErrMeetNameConflict
		}
	}
	meet.ID = r.nextID
	r.nextID++
	r.meets[meet.ID] = meet
	return nil
}

func (r *fakeMeetRepo) FindByID(ctx context.Context, id int) (*models.Meet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	meet, ok := r.meets[id]
	if !ok {
		return nil, repositories.ErrMeetNotFound
	}
	clone := *meet
	return &clone, nil
}

func (r *fakeMeetRepo) List(ctx context.Context) ([]models.Meet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meets := make([]models.Meet, 0, len(r.meets))
	for _, m := range r.meets {
		meets = append(meets, *m)
	}
	return meets, nil
}

func (r *fakeMeetRepo) Update(ctx context.Context, meet *models.Meet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meets[meet.ID]; !ok {
		return repositories.ErrMeetNotFound
	}
	clone := *meet
	r.meets[meet.ID] = &clone
	return nil
}

func (r *fakeMeetRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meets[id]; !ok {
		return repositories.ErrMeetNotFound
	}
	delete(r.meets, id)
	return nil
}

type fakeEventRepo struct {
	mu      sync.Mutex
	infos   []models.EventInfo
	entries []models.EventEntry

	purgedMeets []int
	purgeErr    error
	insertErr   error
	listErr     error

	commentUpdates map[string]*string
	updateErr      error
	knownEntryIDs  map[int]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		commentUpdates: make(map[string]*string),
		knownEntryIDs:  make(map[int]bool),
	}
}

func (r *fakeEventRepo) InsertEventInfo(ctx context.Context, info *models.EventInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.infos = append(r.infos, *info)
	return nil
}

func (r *fakeEventRepo) InsertEventEntry(ctx context.Context, entry *models.EventEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeEventRepo) PurgeMeet(ctx context.Context, meetID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.purgeErr != nil {
		return r.purgeErr
	}
	r.purgedMeets = append(r.purgedMeets, meetID)
	r.infos = nil
	r.entries = nil
	return nil
}

func (r *fakeEventRepo) ListInfoByMeet(ctx context.Context, meetID int) ([]models.EventInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var infos []models.EventInfo
	for _, info := range r.infos {
		if info.MeetID == meetID {
			infos = append(infos, info)
		}
	}
	return infos, nil
}

func (r *fakeEventRepo) ListEntriesByMeet(ctx context.Context, meetID int) ([]models.EventEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var entries []models.EventEntry
	for _, entry := range r.entries {
		if entry.MeetID == meetID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *fakeEventRepo) ListEntriesByEvent(ctx context.Context, meetID int, eventCode string) ([]models.EventEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var entries []models.EventEntry
	for _, entry := range r.entries {
		if entry.MeetID == meetID && entry.EventCode == eventCode {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *fakeEventRepo) UpdateInfoComment(ctx context.Context, meetID int, eventCode string, comments *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.commentUpdates[fmt.Sprintf("%d/%s", meetID, eventCode)] = comments
	return nil
}

func (r *fakeEventRepo) UpdateCheckIn(ctx context.Context, entryID int, status *models.CheckInStatus) error {
	return r.touchEntry(entryID)
}

func (r *fakeEventRepo) UpdateStartTime(ctx context.Context, entryID int, startTime *string) error {
	return r.touchEntry(entryID)
}

func (r *fakeEventRepo) UpdateFinishResult(ctx context.Context, entryID int, rank *int, finishTime *string) error {
	return r.touchEntry(entryID)
}

func (r *fakeEventRepo) UpdatePhotoFinish(ctx context.Context, entryID int, rank *int, photoTime *string) error {
	return r.touchEntry(entryID)
}

func (r *fakeEventRepo) touchEntry(entryID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if !r.knownEntryIDs[entryID] {
		return repositories.ErrEventEntryNotFound
	}
	return nil
}

// fakeFileStore serves start-list files from memory, keyed by
// folder/name.
type fakeFileStore struct {
	mu    sync.Mutex
	files map[string]string
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string]string)}
}

func (s *fakeFileStore) put(folder, name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[folder+"/"+name] = content
}

func (s *fakeFileStore) ReadText(folder, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[folder+"/"+name]
	if !ok {
		return "", fmt.Errorf("failed to read start list file %s/%s: file does not exist", folder, name)
	}
	return content, nil
}

func (s *fakeFileStore) CopyFile(srcFolder, dstFolder, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[srcFolder+"/"+name]
	if !ok {
		return fmt.Errorf("failed to open interface file %s/%s: file does not exist", srcFolder, name)
	}
	s.files[dstFolder+"/"+name] = content
	return nil
}
