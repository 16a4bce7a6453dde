package startlist

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/trackops/startline/models"
)

// EventWriter is the slice of storage the import pipeline needs. Both
// inserts are attempted row by row; the pipeline counts failures rather
// than aborting on them.
type EventWriter interface {
	InsertEventInfo(ctx context.Context, info *models.EventInfo) error
	InsertEventEntry(ctx context.Context, entry *models.EventEntry) error
}

const insertConcurrency = 8

// insertSink collects the inserts emitted by the row classifiers and
// issues them through a bounded errgroup. No row blocks another and no
// row failure stops the batch: a failed insert is logged and counted,
// and the group functions always return nil so the remaining rows still
// run. Counts are read only after wait, once every issued insert has
// finished.
type insertSink struct {
	ctx    context.Context
	writer EventWriter
	logger *slog.Logger
	group  *errgroup.Group

	totalInfo     atomic.Int64
	failedInfo    atomic.Int64
	totalEntries  atomic.Int64
	failedEntries atomic.Int64
}

func newInsertSink(ctx context.Context, writer EventWriter, logger *slog.Logger) *insertSink {
	group := &errgroup.Group{}
	group.SetLimit(insertConcurrency)
	return &insertSink{
		ctx:    ctx,
		writer: writer,
		logger: logger,
		group:  group,
	}
}

func (s *insertSink) putInfo(info *models.EventInfo) {
	s.totalInfo.Add(1)
	s.group.Go(func() error {
		if err := s.writer.InsertEventInfo(s.ctx, info); err != nil {
			s.failedInfo.Add(1)
			s.logger.Error("event info insert failed",
				slog.Int("meet_id", info.MeetID),
				slog.String("event_code", info.EventCode),
				slog.Any("error", err))
		}
		return nil
	})
}

func (s *insertSink) putEntry(entry *models.EventEntry) {
	s.totalEntries.Add(1)
	s.group.Go(func() error {
		if err := s.writer.InsertEventEntry(s.ctx, entry); err != nil {
			s.failedEntries.Add(1)
			s.logger.Error("event entry insert failed",
				slog.Int("meet_id", entry.MeetID),
				slog.String("event_code", entry.EventCode),
				slog.String("athlete_num", entry.AthleteNum),
				slog.Any("error", err))
		}
		return nil
	})
}

// wait blocks until all issued inserts have completed and returns the
// finalized counters.
func (s *insertSink) wait() Counts {
	_ = s.group.Wait() // group functions never return an error
	return Counts{
		TotalInfo:     int(s.totalInfo.Load()),
		FailedInfo:    int(s.failedInfo.Load()),
		TotalEntries:  int(s.totalEntries.Load()),
		FailedEntries: int(s.failedEntries.Load()),
	}
}
