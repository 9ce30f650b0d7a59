package services

import (
	"context"
	"fmt"
	"time"

	"github.com/municipales2026/importer/internal/checksum"
	"github.com/municipales2026/importer/internal/extract"
	"github.com/municipales2026/importer/internal/source"
	"github.com/municipales2026/importer/pkg/importer"
)

// Stage names, as reported in logs and metrics.
const (
	StageLocate     = "locate"
	StageEncoding   = "encoding"
	StageRead       = "read"
	StageExtract    = "extract"
	StageConnect    = "connect"
	StageSchema     = "schema"
	StageDistricts  = "districts"
	StageLists      = "lists"
	StageCandidates = "candidates"
	StageRepair     = "repair"
	StageIndexes    = "indexes"
)

type sessionOpener func(ctx context.Context, cfg *importer.ImportConfig) (importer.DBConnection, func(), error)

// ImportService implements the Importer interface.
// Thread-Safety: NOT safe for concurrent Run() calls; two reloads of the same
// database would destroy each other's tables.
type ImportService struct {
	connectorFactory func(*importer.ImportConfig) (importer.Connector, error)
	schema           importer.SchemaManager
	loader           importer.BulkLoader
	repairer         importer.Repairer
	indexes          importer.IndexBuilder
	metrics          importer.MetricsRecorder
	logger           importer.Logger
	openSession      sessionOpener
	checksum         checksum.Calculator
	now              func() time.Time
}

// NewImportService creates an ImportService with all dependencies injected.
//
// Panics on nil dependencies: these are wiring mistakes that should fail at
// startup rather than halfway through a destructive reload.
func NewImportService(
	connectorFactory func(*importer.ImportConfig) (importer.Connector, error),
	schema importer.SchemaManager,
	loader importer.BulkLoader,
	repairer importer.Repairer,
	indexes importer.IndexBuilder,
	metrics importer.MetricsRecorder,
	logger importer.Logger,
) *ImportService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if schema == nil {
		panic("schema cannot be nil")
	}
	if loader == nil {
		panic("loader cannot be nil")
	}
	if repairer == nil {
		panic("repairer cannot be nil")
	}
	if indexes == nil {
		panic("indexes cannot be nil")
	}
	if metrics == nil {
		panic("metrics cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	svc := &ImportService{
		connectorFactory: connectorFactory,
		schema:           schema,
		loader:           loader,
		repairer:         repairer,
		indexes:          indexes,
		metrics:          metrics,
		logger:           logger,
		checksum:         checksum.New(),
		now:              time.Now,
	}
	svc.openSession = svc.defaultOpenSession
	return svc
}

// defaultOpenSession connects and pins one connection for the whole run.
func (s *ImportService) defaultOpenSession(ctx context.Context, cfg *importer.ImportConfig) (importer.DBConnection, func(), error) {
	connector, err := s.connectorFactory(cfg)
	if err != nil {
		return nil, nil, err
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("%w: failed to acquire connection: %w", importer.ErrConnectionFailed, err)
	}

	return conn, func() {
		conn.Release()
		pool.Close()
	}, nil
}

// extracted holds the row sets derived from the source before any write.
type extracted struct {
	districts  []importer.District
	lists      []importer.List
	candidates []importer.Candidate
}

// Run performs the full reload. The source is read and extracted before the
// schema is touched, so a bad file leaves the existing tables intact.
func (s *ImportService) Run(ctx context.Context, cfg importer.ImportConfig) (*importer.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := s.now()
	summary := &importer.Summary{RunID: cfg.RunID}

	rows, err := s.readSource(&cfg, summary)
	if err != nil {
		return nil, err
	}

	var conn importer.DBConnection
	var closeSession func()
	err = s.stage(StageConnect, func() error {
		var err error
		conn, closeSession, err = s.openSession(ctx, &cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer closeSession()

	if err := s.write(ctx, conn, &cfg, rows, summary); err != nil {
		return nil, err
	}

	summary.Elapsed = s.now().Sub(start)
	s.metrics.RecordSummary(summary)
	s.logger.Info("Import completed in %.1fs", summary.Elapsed.Seconds())
	return summary, nil
}

// readSource runs every stage that only touches the local file.
func (s *ImportService) readSource(cfg *importer.ImportConfig, summary *importer.Summary) (*extracted, error) {
	var path string
	err := s.stage(StageLocate, func() error {
		var err error
		path, err = source.Locate(cfg.DataDir, cfg.SourcePattern, s.logger)
		return err
	})
	if err != nil {
		return nil, err
	}
	summary.SourceFile = path
	s.logger.Info("Source file: %s", path)

	var enc source.Encoding
	err = s.stage(StageEncoding, func() error {
		var err error
		enc, err = source.DetectEncoding(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	summary.Encoding = enc.Name

	var table *source.Table
	err = s.stage(StageRead, func() error {
		var err error
		if summary.Checksum, err = s.checksum.CalculateFile(path); err != nil {
			return err
		}
		table, err = source.Load(path, enc)
		return err
	})
	if err != nil {
		return nil, err
	}
	summary.SourceRows = len(table.Records)
	s.logger.Info("Read %d rows (%s)", summary.SourceRows, enc.Name)
	s.logger.Verbose("Source sha256: %s", summary.Checksum)

	rows := &extracted{}
	err = s.stage(StageExtract, func() error {
		var err error
		rows.districts = extract.Districts(table.Records)
		if rows.lists, err = extract.Lists(table.Records); err != nil {
			return err
		}
		rows.candidates, err = extract.Candidates(table.Records)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Extracted %d districts, %d lists, %d candidates",
		len(rows.districts), len(rows.lists), len(rows.candidates))

	return rows, nil
}

// write runs the destructive stages, parents before children.
func (s *ImportService) write(ctx context.Context, conn importer.DBConnection, cfg *importer.ImportConfig, rows *extracted, summary *importer.Summary) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{StageSchema, func() error {
			return s.schema.Reset(ctx, conn)
		}},
		{StageDistricts, func() (err error) {
			summary.Districts, err = s.loader.LoadDistricts(ctx, conn, rows.districts)
			return err
		}},
		{StageLists, func() (err error) {
			summary.Lists, err = s.loader.LoadLists(ctx, conn, rows.lists)
			return err
		}},
		{StageCandidates, func() (err error) {
			summary.Candidates, err = s.loader.LoadCandidates(ctx, conn, rows.candidates, cfg.CandidateBatchSize)
			return err
		}},
		{StageRepair, func() (err error) {
			summary.Repaired, err = s.repairer.RepairHeadOfList(ctx, conn)
			return err
		}},
		{StageIndexes, func() error {
			return s.indexes.Build(ctx, conn)
		}},
	}

	for _, step := range steps {
		if err := s.stage(step.name, step.run); err != nil {
			return err
		}
	}

	s.logger.Info("Loaded %d districts, %d lists, %d candidates; %d heads of list repaired",
		summary.Districts, summary.Lists, summary.Candidates, summary.Repaired)
	return nil
}

// stage times fn and reports it to metrics. A failure is logged with the
// stage name so the operator knows where the run stopped.
func (s *ImportService) stage(name string, fn func() error) error {
	s.logger.Verbose("Stage %s...", name)
	started := s.now()

	err := fn()

	elapsed := s.now().Sub(started)
	s.metrics.ObserveStage(name, elapsed.Seconds())
	if err != nil {
		s.logger.Error("Stage %s failed after %s", name, elapsed.Round(time.Millisecond))
		return err
	}

	s.logger.Verbose("Stage %s done in %s", name, elapsed.Round(time.Millisecond))
	return nil
}
