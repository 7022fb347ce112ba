package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/cricketreg/internal/dependencies/clock"
	"github.com/mcoot/cricketreg/internal/model"
)

// ErrExportFailed wraps failures writing a report
var ErrExportFailed = errors.New("export failed")

// Report is a generated workbook ready for download
type Report struct {
	FileName string
	Count    int
	Data     []byte
}

// Service builds XLSX reports from filtered rosters
type Service struct {
	clock  clock.Clock
	loc    *time.Location
	logger *slog.Logger
}

// New creates a new export Service rendering timestamps in loc
func New(clock clock.Clock, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		clock:  clock,
		loc:    loc,
		logger: logger,
	}
}

// Location returns the time zone reports are rendered in
func (s *Service) Location() *time.Location {
	return s.loc
}

// Build renders players, already filtered and ordered, as a workbook for partition
func (s *Service) Build(players []*model.PlayerRegistration, partition model.League) (*Report, error) {
	rows := Rows(players, partition, s.loc)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, partition, rows); err != nil {
		s.logger.Error("failed to build export", "partition", partitionName(partition), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	report := &Report{
		FileName: FileName(partition, s.clock.Now().In(s.loc)),
		Count:    len(rows),
		Data:     buf.Bytes(),
	}
	s.logger.Info("export built",
		"partition", partitionName(partition),
		"count", report.Count,
		"file", report.FileName,
	)
	return report, nil
}
