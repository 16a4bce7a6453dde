// Package startlist implements the start-list ingestion pipeline: it
// tokenizes timing-vendor files (Lynx "FL" and OMEGA / HYTEK OMEGA),
// reconciles athlete rows against the people index, synthesizes
// composite event codes and bulk-loads event metadata and entries. The
// load is best effort, never all-or-nothing: each row insert is
// attempted independently and failures are counted into the final
// result instead of aborting the batch.
package startlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trackops/startline/models"
)

// ImportRequest names the meet, its source folder and the file format
// for one import run. The caller is responsible for purging prior rows
// for the meet before running; the pipeline itself is insert-only.
type ImportRequest struct {
	MeetID          int
	Folder          string
	InterfaceFolder string
	Format          models.SourceFormat
}

type Importer struct {
	writer EventWriter
	files  FileStore
	logger *slog.Logger
}

func NewImporter(writer EventWriter, files FileStore, logger *slog.Logger) *Importer {
	return &Importer{
		writer: writer,
		files:  files,
		logger: logger,
	}
}

// Run executes one import. A non-nil error means the source file could
// not be read at all and nothing was processed; every other outcome,
// including per-row insert failures and a failed interface copy, is
// folded into the returned ImportResult.
func (imp *Importer) Run(ctx context.Context, req ImportRequest) (ImportResult, error) {
	var copyError string
	if req.Format == models.FormatHytekOmega && strings.TrimSpace(req.InterfaceFolder) != "" {
		// A failed copy is not fatal: a start list already present in
		// the meet folder is an acceptable stale substitute.
		if err := imp.files.CopyFile(req.InterfaceFolder, req.Folder, omegaFile); err != nil {
			copyError = err.Error()
			imp.logger.Warn("interface folder copy failed, using existing file",
				slog.Int("meet_id", req.MeetID),
				slog.Any("error", err))
		}
	}

	sink := newInsertSink(ctx, imp.writer, imp.logger)

	switch req.Format {
	case models.FormatFinishLynx:
		text, err := imp.files.ReadText(req.Folder, lynxEventFile)
		if err != nil {
			return ImportResult{}, err
		}
		people := PeopleIndex{}
		if pplText, pplErr := imp.files.ReadText(req.Folder, lynxPeopleFile); pplErr == nil {
			people = BuildPeopleIndex(pplText)
		} else {
			// Missing people file is not an error; names and clubs
			// simply default to empty strings.
			imp.logger.Info("people file unavailable, athlete names left blank",
				slog.Int("meet_id", req.MeetID),
				slog.Any("error", pplErr))
		}
		li := &lynxImporter{meetID: req.MeetID, people: people, sink: sink}
		li.run(NewRowScanner(text, ','))

	case models.FormatOmega, models.FormatHytekOmega:
		text, err := imp.files.ReadText(req.Folder, omegaFile)
		if err != nil {
			return ImportResult{}, err
		}
		oi := &omegaImporter{meetID: req.MeetID, sink: sink}
		oi.run(NewRowScanner(text, ';'))

	default:
		return ImportResult{}, fmt.Errorf("unsupported source format %q", req.Format)
	}

	counts := sink.wait()
	imp.logger.Info("start list processed",
		slog.Int("meet_id", req.MeetID),
		slog.String("format", string(req.Format)),
		slog.Int("events", counts.TotalInfo),
		slog.Int("entries", counts.TotalEntries),
		slog.Int("failed_events", counts.FailedInfo),
		slog.Int("failed_entries", counts.FailedEntries))

	return BuildResult(counts, copyError), nil
}
