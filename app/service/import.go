package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
	"github.com/mlongerich/DonationTracker-sub005/app/importer"
	"github.com/mlongerich/DonationTracker-sub005/config"
)

type importRunRepository interface {
	Create(ctx context.Context, run *entity.ImportRun) error
	FindByPublicID(ctx context.Context, publicID string) (*entity.ImportRun, error)
	List(ctx context.Context, limit, offset int32) ([]*entity.ImportRun, error)
}

// ImportService runs reconciliation batches and persists their summaries.
type ImportService struct {
	scope     importer.TxScope
	runRepo   importRunRepository
	profiles  *importer.ProfileRegistry
	importCfg config.ImportConfig
	logger    logrus.FieldLogger
}

func NewImportService(
	scope importer.TxScope,
	runRepo importRunRepository,
	profiles *importer.ProfileRegistry,
	importCfg config.ImportConfig,
) *ImportService {
	return &ImportService{
		scope:     scope,
		runRepo:   runRepo,
		profiles:  profiles,
		importCfg: importCfg,
		logger:    logrus.WithField("module", "import-service"),
	}
}

// RunImport reconciles one batch of export rows against the ledger and
// stores the run summary. A row failure never aborts the batch; the run
// record carries every row error alongside the four outcome counters.
func (s *ImportService) RunImport(ctx context.Context, profileName string, rows []importer.RawRow) (*entity.ImportRun, error) {
	profile, err := s.profiles.Get(profileName)
	if err != nil {
		if errors.Is(err, importer.ErrProfileNotSupported) {
			return nil, ErrProfileUnsupported
		}
		return nil, err
	}

	if s.importCfg.MaxRowsPerRequest > 0 && len(rows) > s.importCfg.MaxRowsPerRequest {
		return nil, fmt.Errorf("%w: import exceeds %d rows", ErrInvalidRequest, s.importCfg.MaxRowsPerRequest)
	}

	startedAt := time.Now().UTC()
	classifier := importer.NewClassifier(s.importCfg.ProjectNameMaxLength)
	runner := importer.NewRunner(s.scope, profile, classifier, s.logger)
	result := runner.Run(ctx, rows)

	errorsJSON, err := json.Marshal(result.Errors)
	if err != nil {
		return nil, err
	}

	run := &entity.ImportRun{
		PublicID:            uuid.NewString(),
		Profile:             profile.Name,
		RowsTotal:           int32(len(rows)),
		SucceededCount:      result.SucceededCount,
		FailedCount:         result.FailedCount,
		NeedsAttentionCount: result.NeedsAttentionCount,
		SkippedCount:        result.SkippedCount,
		ErrorsJSON:          string(errorsJSON),
		StartedAt:           startedAt,
		FinishedAt:          time.Now().UTC(),
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":          run.PublicID,
		"rows":            run.RowsTotal,
		"succeeded":       run.SucceededCount,
		"failed":          run.FailedCount,
		"needs_attention": run.NeedsAttentionCount,
		"skipped":         run.SkippedCount,
	}).Info("import_run_completed")

	return run, nil
}

func (s *ImportService) GetImportRun(ctx context.Context, publicID string) (*entity.ImportRun, error) {
	run, err := s.runRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrImportRunNotFound
	}
	return run, nil
}

func (s *ImportService) ListImportRuns(ctx context.Context, limit, offset int32) ([]*entity.ImportRun, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.runRepo.List(ctx, limit, offset)
}
