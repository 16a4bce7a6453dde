package startlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/trackops/startline/models"
)

var errTest = errors.New("boom")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memWriter records inserts in memory. failEntryNum / failInfoCode make
// individual rows fail to exercise the per-row failure accounting.
type memWriter struct {
	mu           sync.Mutex
	infos        []*models.EventInfo
	entries      []*models.EventEntry
	failInfoCode string
	failEntryNum string
}

func (w *memWriter) InsertEventInfo(_ context.Context, info *models.EventInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failInfoCode != "" && info.EventCode == w.failInfoCode {
		return errTest
	}
	w.infos = append(w.infos, info)
	return nil
}

func (w *memWriter) InsertEventEntry(_ context.Context, entry *models.EventEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failEntryNum != "" && entry.AthleteNum == w.failEntryNum {
		return errTest
	}
	w.entries = append(w.entries, entry)
	return nil
}

func (w *memWriter) entryByNum(num string) *models.EventEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range w.entries {
		if e.AthleteNum == num {
			return e
		}
	}
	return nil
}

// memFiles is an in-memory FileStore keyed by folder and file name.
type memFiles struct {
	files   map[string]string
	copyErr error
}

func newMemFiles() *memFiles {
	return &memFiles{files: make(map[string]string)}
}

func (m *memFiles) put(folder, name, text string) {
	m.files[folder+"/"+name] = text
}

func (m *memFiles) ReadText(folder, name string) (string, error) {
	text, ok := m.files[folder+"/"+name]
	if !ok {
		return "", errors.New("failed to read start list file " + folder + "/" + name)
	}
	return text, nil
}

func (m *memFiles) CopyFile(srcFolder, dstFolder, name string) error {
	if m.copyErr != nil {
		return m.copyErr
	}
	text, err := m.ReadText(srcFolder, name)
	if err != nil {
		return err
	}
	m.put(dstFolder, name, text)
	return nil
}

func TestRunUnsupportedFormat(t *testing.T) {
	imp := NewImporter(&memWriter{}, newMemFiles(), testLogger())
	_, err := imp.Run(context.Background(), ImportRequest{MeetID: 1, Folder: "meet", Format: "XYZ"})
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestRunMissingEventFileIsFatal(t *testing.T) {
	imp := NewImporter(&memWriter{}, newMemFiles(), testLogger())
	_, err := imp.Run(context.Background(), ImportRequest{
		MeetID: 1,
		Folder: "meet",
		Format: models.FormatFinishLynx,
	})
	if err == nil {
		t.Fatal("expected an error when the event file is unreadable")
	}
}

func TestRunPerRowFailureDoesNotAbortBatch(t *testing.T) {
	files := newMemFiles()
	files.put("meet", omegaFile,
		"10;2024-01-01;09:00;;;;;;60;100m;T2;Acme\n"+
			";;;1;51;Doe;John;Riverside\n"+
			";;;2;52;Roe;Jane;Northside\n"+
			";;;3;53;Poe;Jim;Eastside\n")
	writer := &memWriter{failEntryNum: "52"}
	imp := NewImporter(writer, files, testLogger())

	result, err := imp.Run(context.Background(), ImportRequest{
		MeetID: 7,
		Folder: "meet",
		Format: models.FormatOmega,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Status != StatusFailure {
		t.Errorf("status = %q, want failure", result.Status)
	}
	if result.Error == nil || result.Error.DBError == "" {
		t.Fatal("expected a dbError naming the failed rows")
	}
	// The two well-behaved rows must still have been persisted.
	if len(writer.entries) != 2 {
		t.Errorf("persisted %d entries, want 2", len(writer.entries))
	}
	if writer.entryByNum("52") != nil {
		t.Error("failing row should not have been persisted")
	}
}

func TestRunHytekCopyFailureIsNonFatal(t *testing.T) {
	files := newMemFiles()
	// A stale start list already sits in the meet folder; the interface
	// copy will fail and the import must fall back to it.
	files.put("meet", omegaFile,
		"10;2024-01-01;09:00;;;;;;60;100m;T2;Acme\n"+
			";;;3;55;Doe;John;Riverside\n")
	files.copyErr = errTest
	writer := &memWriter{}
	imp := NewImporter(writer, files, testLogger())

	result, err := imp.Run(context.Background(), ImportRequest{
		MeetID:          7,
		Folder:          "meet",
		InterfaceFolder: "interface",
		Format:          models.FormatHytekOmega,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Status != StatusSuccess {
		t.Errorf("status = %q, want success", result.Status)
	}
	if result.Error == nil || result.Error.CopyError == "" {
		t.Error("expected the copy error to be carried as a warning")
	}
	if len(writer.entries) != 1 {
		t.Errorf("persisted %d entries, want 1", len(writer.entries))
	}
}

func TestRunHytekCopyStagesInterfaceFile(t *testing.T) {
	files := newMemFiles()
	files.put("meet", omegaFile, "99;;;;;;;;;Old\n")
	files.put("interface", omegaFile,
		"10;2024-01-01;09:00;;;;;;60;100m;T2;Acme\n"+
			";;;3;55;Doe;John;Riverside\n")
	writer := &memWriter{}
	imp := NewImporter(writer, files, testLogger())

	result, err := imp.Run(context.Background(), ImportRequest{
		MeetID:          7,
		Folder:          "meet",
		InterfaceFolder: "interface",
		Format:          models.FormatHytekOmega,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != StatusSuccess || result.Error != nil {
		t.Fatalf("result = %+v, want clean success", result)
	}
	// The copied file, not the stale one, must have been parsed.
	if len(writer.infos) != 1 || writer.infos[0].EventCode != "10" {
		t.Errorf("infos = %+v, want the staged event 10", writer.infos)
	}
	if len(writer.entries) != 1 {
		t.Errorf("persisted %d entries, want 1", len(writer.entries))
	}
}

func TestRunOmegaBlankInterfaceFolderSkipsCopy(t *testing.T) {
	files := newMemFiles()
	files.put("meet", omegaFile, "10;;;;;;;;;100m\n;;;3;55;Doe;John;Riverside\n")
	files.copyErr = errTest // would surface if the copy were attempted
	imp := NewImporter(&memWriter{}, files, testLogger())

	result, err := imp.Run(context.Background(), ImportRequest{
		MeetID:          7,
		Folder:          "meet",
		InterfaceFolder: "   ",
		Format:          models.FormatHytekOmega,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Error != nil {
		t.Errorf("blank interface folder should skip the copy, got %+v", result.Error)
	}
}
