// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler rescans a documents directory on a cron schedule. The spec
// carries a leading seconds field ("0 */15 * * * *").
type Scheduler struct {
	cron *cron.Cron
	svc  *Service
	dir  string
	log  *zap.Logger

	mu      sync.Mutex
	running bool
}

// ParseSchedule validates a cron spec with a seconds field.
func ParseSchedule(spec string) error {
	if _, err := cron.NewParser(cronFields).Parse(spec); err != nil {
		return fmt.Errorf("parsing schedule %q: %w", spec, err)
	}
	return nil
}

const cronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// NewScheduler registers a rescan of dir on spec. Runs that would overlap a
// rescan still in progress are skipped.
func NewScheduler(svc *Service, dir, spec string, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{
		cron: cron.New(cron.WithParser(cron.NewParser(cronFields))),
		svc:  svc,
		dir:  dir,
		log:  log,
	}

	if _, err := s.cron.AddFunc(spec, s.rescan); err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}
	return s, nil
}

// rescan is the scheduled job.
func (s *Scheduler) rescan() {
	if !s.begin() {
		s.log.Warn("previous rescan still running, skipping", zap.String("dir", s.dir))
		return
	}
	defer s.end()

	summary, err := s.svc.ScanDir(context.Background(), s.dir, io.Discard)
	if err != nil {
		s.log.Error("scheduled rescan failed", zap.String("dir", s.dir), zap.Error(err))
		return
	}
	s.log.Info("scheduled rescan finished",
		zap.String("dir", s.dir),
		zap.Int("extracted", summary.Extracted),
		zap.Int("skipped", summary.Skipped),
		zap.Int("empty", summary.Empty),
		zap.Int("failed", summary.Failed),
	)
}

func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running rescan to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
