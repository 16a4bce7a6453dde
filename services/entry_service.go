package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/trackops/startline/live"
	"github.com/trackops/startline/models"
	"github.com/trackops/startline/repositories"
)

// EntryService covers the volunteer and judge screens: listing a meet's
// events and entries and recording race state against individual
// entries. Every mutation is pushed to the meet's live room so open
// screens stay current.
type EntryService interface {
	ListEvents(ctx context.Context, meetID int) ([]models.EventInfo, error)
	ListEntries(ctx context.Context, meetID int, eventCode string) ([]models.EventEntry, error)

	CheckIn(ctx context.Context, meetID, entryID int, status *models.CheckInStatus) error
	RecordStartTime(ctx context.Context, meetID, entryID int, startTime *string) error
	RecordFinish(ctx context.Context, meetID, entryID int, rank *int, finishTime *string) error
	RecordPhotoFinish(ctx context.Context, meetID, entryID int, rank *int, photoTime *string) error
	UpdateEventComment(ctx context.Context, meetID int, eventCode string, comments *string) error
}

type entryService struct {
	eventRepo repositories.EventRepository
	hub       *live.Hub
}

func NewEntryService(eventRepo repositories.EventRepository, hub *live.Hub) EntryService {
	return &entryService{
		eventRepo: eventRepo,
		hub:       hub,
	}
}

func (s *entryService) ListEvents(ctx context.Context, meetID int) ([]models.EventInfo, error) {
	infos, err := s.eventRepo.ListInfoByMeet(ctx, meetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return infos, nil
}

func (s *entryService) ListEntries(ctx context.Context, meetID int, eventCode string) ([]models.EventEntry, error) {
	entries, err := s.eventRepo.ListEntriesByEvent(ctx, meetID, eventCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	// Lane order is stored as text; sort numerically here so this list
	// agrees with the results view.
	sort.SliceStable(entries, func(i, j int) bool {
		return laneLess(entries[i].LaneOrder, entries[j].LaneOrder)
	})
	return entries, nil
}

func (s *entryService) CheckIn(ctx context.Context, meetID, entryID int, status *models.CheckInStatus) error {
	if status != nil && !models.ValidCheckInStatus(*status) {
		return ErrInvalidCheckInStatus
	}
	if err := s.eventRepo.UpdateCheckIn(ctx, entryID, status); err != nil {
		return s.mapEntryError(err)
	}
	s.broadcastEntry(meetID, entryID, "start_pos", status)
	return nil
}

func (s *entryService) RecordStartTime(ctx context.Context, meetID, entryID int, startTime *string) error {
	if err := s.eventRepo.UpdateStartTime(ctx, entryID, startTime); err != nil {
		return s.mapEntryError(err)
	}
	s.broadcastEntry(meetID, entryID, "start_time", startTime)
	return nil
}

func (s *entryService) RecordFinish(ctx context.Context, meetID, entryID int, rank *int, finishTime *string) error {
	if rank != nil && *rank <= 0 {
		return ErrInvalidFinishRank
	}
	if err := s.eventRepo.UpdateFinishResult(ctx, entryID, rank, finishTime); err != nil {
		return s.mapEntryError(err)
	}
	s.broadcastEntry(meetID, entryID, "finish", map[string]interface{}{
		"finish_rank": rank,
		"finish_time": finishTime,
	})
	return nil
}

func (s *entryService) RecordPhotoFinish(ctx context.Context, meetID, entryID int, rank *int, photoTime *string) error {
	if rank != nil && *rank <= 0 {
		return ErrInvalidFinishRank
	}
	if err := s.eventRepo.UpdatePhotoFinish(ctx, entryID, rank, photoTime); err != nil {
		return s.mapEntryError(err)
	}
	s.broadcastEntry(meetID, entryID, "photo_finish", map[string]interface{}{
		"photo_rank": rank,
		"photo_time": photoTime,
	})
	return nil
}

func (s *entryService) UpdateEventComment(ctx context.Context, meetID int, eventCode string, comments *string) error {
	if err := s.eventRepo.UpdateInfoComment(ctx, meetID, eventCode, comments); err != nil {
		if errors.Is(err, repositories.ErrEventInfoNotFound) {
			return ErrEventInfoNotFound
		}
		return fmt.Errorf("failed to update event comments: %w", err)
	}
	s.hub.BroadcastToRoom(live.MeetRoom(meetID), live.TypeEventInfoUpdated, map[string]interface{}{
		"event_code": eventCode,
		"comments":   comments,
	})
	return nil
}

func (s *entryService) mapEntryError(err error) error {
	if errors.Is(err, repositories.ErrEventEntryNotFound) {
		return ErrEventEntryNotFound
	}
	return fmt.Errorf("failed to update entry: %w", err)
}

func (s *entryService) broadcastEntry(meetID, entryID int, field string, value interface{}) {
	s.hub.BroadcastToRoom(live.MeetRoom(meetID), live.TypeEntryUpdated, map[string]interface{}{
		"entry_id": entryID,
		"field":    field,
		"value":    value,
	})
}
