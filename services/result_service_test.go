package services

import (
	"context"
	"strings"
	"testing"

	"github.com/trackops/startline/models"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func seedResultRepo() *fakeEventRepo {
	repo := newFakeEventRepo()
	name := "100m Final"
	repo.infos = []models.EventInfo{
		{MeetID: 1, EventCode: "001-H01", Name: &name},
	}
	repo.entries = []models.EventEntry{
		{MeetID: 1, EventCode: "001-H01", LaneOrder: "4", AthleteNum: "57", LastName: "Brown", FirstName: "Lee", AthleteClub: "Hillside"},
		{MeetID: 1, EventCode: "001-H01", LaneOrder: "2", AthleteNum: "55", LastName: "Doe", FirstName: "John", AthleteClub: "Riverside", FinishRank: intPtr(2), FinishTime: strPtr("11.02")},
		{MeetID: 1, EventCode: "001-H01", LaneOrder: "3", AthleteNum: "56", LastName: "Smith", FirstName: "Anna", AthleteClub: "Lakeside", FinishRank: intPtr(1), FinishTime: strPtr("10.87")},
	}
	return repo
}

func TestMeetResultsOrdersRankedEntriesFirst(t *testing.T) {
	service := NewResultService(seedResultRepo(), nil, testLogger())

	results, err := service.MeetResults(context.Background(), 1)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 event, got %d", len(results))
	}

	entries := results[0].Entries
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	gotOrder := []string{entries[0].AthleteNum, entries[1].AthleteNum, entries[2].AthleteNum}
	wantOrder := []string{"56", "55", "57"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("expected order %v, got %v", wantOrder, gotOrder)
		}
	}
}

func TestMeetResultsKeepsOrphanedEntries(t *testing.T) {
	repo := seedResultRepo()
	repo.entries = append(repo.entries, models.EventEntry{
		MeetID: 1, EventCode: "002-H01", LaneOrder: "1", AthleteNum: "80",
		LastName: "Hall", FirstName: "Max", AthleteClub: "Seaside",
	})
	service := NewResultService(repo, nil, testLogger())

	results, err := service.MeetResults(context.Background(), 1)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 events, got %d", len(results))
	}
	if results[1].Info.EventCode != "002-H01" {
		t.Fatalf("expected orphaned event last, got %q", results[1].Info.EventCode)
	}
	if len(results[1].Entries) != 1 {
		t.Fatalf("expected 1 orphaned entry, got %d", len(results[1].Entries))
	}
}

func TestExportCSV(t *testing.T) {
	service := NewResultService(seedResultRepo(), nil, testLogger())

	data, err := service.ExportCSV(context.Background(), 1)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 records, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "event_code,event_name,lane_order") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Smith") || !strings.Contains(lines[1], "10.87") {
		t.Fatalf("expected winner first, got %q", lines[1])
	}
}

func TestExportCSVArchivesCopy(t *testing.T) {
	uploader := &fakeUploader{}
	service := NewResultService(seedResultRepo(), uploader, testLogger())

	if _, err := service.ExportCSV(context.Background(), 1); err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(uploader.keys) != 1 || uploader.keys[0] != "meets/1/results.csv" {
		t.Fatalf("expected archived export, got %v", uploader.keys)
	}
}
