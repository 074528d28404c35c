package scheduler

import (
	"context"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/ledger"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/robfig/cron/v3"
)

const archiveTimeout = time.Minute

// ReportArchiver выгружает отчёт за период в объектное хранилище.
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, r ledger.Range) (*usecase.ArchiveReportRes, error)
}

// ArchiveScheduler по расписанию архивирует отчёт за текущий день.
type ArchiveScheduler struct {
	cron     *cron.Cron
	archiver ReportArchiver
	logger   logger.Logger
	location *time.Location
	clock    func() time.Time
}

// NewArchiveScheduler разбирает spec (cron с секундами) в часовом поясе loc.
func NewArchiveScheduler(archiver ReportArchiver, logger logger.Logger, loc *time.Location, spec string) (*ArchiveScheduler, error) {
	const op = "ArchiveScheduler.New"

	if loc == nil {
		loc = time.Local
	}

	s := &ArchiveScheduler{
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		archiver: archiver,
		logger:   logger,
		location: loc,
		clock:    time.Now,
	}

	if _, err := s.cron.AddFunc(spec, s.archiveToday); err != nil {
		return nil, e.Wrap(op, err)
	}

	return s, nil
}

func (s *ArchiveScheduler) Start() {
	s.cron.Start()
	s.logger.Infof("report archive scheduler started")
}

// Stop не запускает новые задачи и ждёт уже начатую.
func (s *ArchiveScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ArchiveScheduler) archiveToday() {
	now := s.clock().In(s.location)
	y, m, d := now.Date()
	r := ledger.Range{From: time.Date(y, m, d, 0, 0, 0, 0, s.location), To: now}

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	res, err := s.archiver.ArchiveReport(ctx, r)
	if err != nil {
		s.logger.Errorf(err, "scheduled report archive failed")
		return
	}

	s.logger.Infof("scheduled report archived: %s", res.Key)
}
