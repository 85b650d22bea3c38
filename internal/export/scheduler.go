package export

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"mtd/internal/export/interfaces"
	"mtd/internal/providers"
	"mtd/internal/structures"
)

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	exporter *Exporter
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) Init() {
	if !s.config.Export.Enabled {
		s.logger.Infof(providers.TypeApp, "Export disabled")
		return
	}

	interval := s.config.Export.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), func() {
		if err := s.Export(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Scheduled export failed: %s", err)
		}
	})
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Export writes one snapshot now. Safe to call concurrently with the
// scheduled run; exports serialize through opsMu.
func (s *Scheduler) Export() error {
	if !s.config.Export.Enabled {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	err := s.exporter.SaveToFile(s.config.Export.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while exporting history: %s", err)
		return err
	}
	s.logger.Infof(providers.TypeApp, "Exported history to file %s", s.config.Export.FilePath)
	return nil
}

// Close releases the exporter's compressor. Call after the final Export;
// a closed exporter cannot write another snapshot.
func (s *Scheduler) Close() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	s.exporter.Close()
}

func NewScheduler(config *structures.Config, logger providers.Logger, exporter *Exporter) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		exporter: exporter,
	}
}
