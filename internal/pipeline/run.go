package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ordercash/internal/config"
	"ordercash/internal/reconcile"
	"ordercash/internal/statement"
	"ordercash/internal/warehouse"
)

// Result collects the artifact paths of one full run.
type Result struct {
	RunID         string
	WarehousePath string
	LedgerPath    string
	ReconcilePath string
	Summary       reconcile.Summary
}

// Service chains the three stages of a period close: combine the warehouse
// exports, process the statements, reconcile the two.
type Service struct {
	cfg config.Config
	log zerolog.Logger

	combine   func(config.Config, zerolog.Logger) (string, error)
	processor *statement.Processor
}

func NewService(cfg config.Config, log zerolog.Logger) (*Service, error) {
	processor, err := statement.NewProcessor(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:       cfg,
		log:       log,
		combine:   warehouse.Combine,
		processor: processor,
	}, nil
}

// Processor exposes the statement stage so callers can swap its text source.
func (s *Service) Processor() *statement.Processor { return s.processor }

// Run executes the full pipeline for one accounting period.
func (s *Service) Run(b reconcile.Boundaries) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := s.log.With().Str("run_id", res.RunID).Logger()

	started := time.Now()
	path, err := s.combine(s.cfg, log)
	if err != nil {
		return nil, err
	}
	res.WarehousePath = path
	log.Info().Dur("elapsed", time.Since(started)).Msg("warehouse stage done")

	started = time.Now()
	res.LedgerPath, err = s.processor.Process(b.StmtPeriod)
	if err != nil {
		return nil, err
	}
	log.Info().Dur("elapsed", time.Since(started)).Msg("statement stage done")

	started = time.Now()
	res.ReconcilePath, err = reconcile.New(s.cfg, log).Run(b)
	if err != nil {
		return nil, err
	}
	res.Summary, err = reconcile.Summarize(res.ReconcilePath)
	if err != nil {
		return nil, err
	}
	log.Info().Dur("elapsed", time.Since(started)).Msg("reconcile stage done")

	return res, nil
}
