package internal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chrisconley/payflow/internal/infra"
	"github.com/chrisconley/payflow/specs"
)

// StageCompleted is published on the bus after each pipeline stage finishes.
type StageCompleted struct {
	Stage   infra.EventType
	Records int
}

func (e StageCompleted) EventType() infra.EventType { return e.Stage }

// PipelineResult carries every intermediate and final batch of one run, plus
// the quality audit. All-or-nothing: a result only exists when every stage
// succeeded.
type PipelineResult struct {
	Clean    []specs.CleanRecordSpec
	Enriched []specs.EnrichedRecordSpec
	Metrics  []specs.MetricRecordSpec
	Table    specs.TableSpec
	Report   QualityReport
}

// Runner executes the pipeline stages in their fixed order: clean, enrich,
// compute metrics, export.
//
// The runner holds no cross-batch state; each Run is a pure transformation of
// one finite input batch. It logs stage boundaries and publishes stage events;
// the transform functions themselves stay log-free.
type Runner struct {
	config specs.PipelineConfigSpec
	logger *zap.Logger
	bus    *infra.Bus
}

// NewRunner builds a runner. A nil logger disables logging; a nil bus
// disables stage events.
func NewRunner(config specs.PipelineConfigSpec, logger *zap.Logger, bus *infra.Bus) Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bus == nil {
		bus = infra.NewBus()
	}
	return Runner{config: config, logger: logger, bus: bus}
}

// Run transforms one raw batch end to end.
//
// Record identity is preserved at every boundary: each stage must return
// exactly one output row per input row, in order, and the runner refuses to
// continue past a stage that broke that contract. Any error aborts before
// partial output is produced.
func (r Runner) Run(records []specs.RawRecordSpec) (PipelineResult, error) {
	r.bus.Publish(StageCompleted{Stage: infra.RawBatchIngested, Records: len(records)})
	r.logger.Info("batch ingested", zap.Int("records", len(records)))

	clean, err := Clean(records)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("clean: %w", err)
	}
	if err := checkCardinality("cleaner", len(records), len(clean)); err != nil {
		return PipelineResult{}, err
	}
	r.bus.Publish(StageCompleted{Stage: infra.BatchCleaned, Records: len(clean)})
	r.logger.Info("batch cleaned", zap.Int("records", len(clean)))

	enriched, err := Enrich(clean, r.config.Enrichment)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("enrich: %w", err)
	}
	if err := checkCardinality("enricher", len(clean), len(enriched)); err != nil {
		return PipelineResult{}, err
	}
	r.bus.Publish(StageCompleted{Stage: infra.BatchEnriched, Records: len(enriched)})
	r.logger.Info("batch enriched", zap.Int("records", len(enriched)), zap.Int64("seed", r.config.Enrichment.Seed))

	metrics, err := ComputeMetrics(enriched, r.config.Metrics)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("compute metrics: %w", err)
	}
	if err := checkCardinality("metric calculator", len(enriched), len(metrics)); err != nil {
		return PipelineResult{}, err
	}
	r.bus.Publish(StageCompleted{Stage: infra.MetricsComputed, Records: len(metrics)})
	r.logger.Info("metrics computed", zap.Int("records", len(metrics)))

	table, err := Export(metrics)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("export: %w", err)
	}
	if err := checkCardinality("exporter", len(metrics), len(table.Rows)); err != nil {
		return PipelineResult{}, err
	}
	r.bus.Publish(StageCompleted{Stage: infra.TableExported, Records: len(table.Rows)})

	report := BuildQualityReport(metrics)
	r.logger.Info("batch complete",
		zap.Int("records", report.Records),
		zap.Int("flagged", report.FlaggedRows),
		zap.Float64("success_rate", report.SuccessRate),
		zap.String("total_mrr_at_risk", report.TotalMRRAtRisk),
	)

	return PipelineResult{
		Clean:    clean,
		Enriched: enriched,
		Metrics:  metrics,
		Table:    table,
		Report:   report,
	}, nil
}

func checkCardinality(stage string, in, out int) error {
	if in != out {
		return fmt.Errorf("%s changed row count: %d in, %d out", stage, in, out)
	}
	return nil
}
