package cron

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultTrendingTagsSpec = "@every 10m"

type Manager struct {
	engine          *cron.Cron
	cfg             config.CronConfig
	trendingTagsJob *job.TrendingTagsJob
}

func NewCronManager(cfg config.CronConfig, trendingTagsJob *job.TrendingTagsJob) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		cfg:             cfg,
		trendingTagsJob: trendingTagsJob,
	}
}

// registerJobs schedules every job; specs accept seconds and @every descriptors.
func (s *Manager) registerJobs() error {
	spec := s.cfg.TrendingTags
	if spec == "" {
		spec = defaultTrendingTagsSpec
	}
	if _, err := s.engine.AddJob(spec, s.trendingTagsJob); err != nil {
		return err
	}
	log.Info("Cron job registered", "job", "trending_tags", "spec", spec)
	return nil
}

// Start registers the jobs and starts the scheduler in the background.
func (s *Manager) Start() error {
	if err := s.registerJobs(); err != nil {
		return err
	}
	s.engine.Start()
	log.Info("Cron engine started", "jobs", len(s.engine.Entries()))
	return nil
}

// Stop halts scheduling and waits for running jobs.
func (s *Manager) Stop() {
	log.Info("Cron engine stopping")
	<-s.engine.Stop().Done()
}
