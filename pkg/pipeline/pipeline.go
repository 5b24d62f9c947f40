// Package pipeline wires the five stages of the wine-quality run:
// ingestion, cleaning, partitioning, model fitting and evaluation.
// Everything lives within one run; nothing persists but the report.
package pipeline

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deyachatterjee/data-science-toolkit/pkg/config"
	"github.com/deyachatterjee/data-science-toolkit/pkg/data"
	"github.com/deyachatterjee/data-science-toolkit/pkg/dataprep"
	"github.com/deyachatterjee/data-science-toolkit/pkg/eval"
	"github.com/deyachatterjee/data-science-toolkit/pkg/loader"
	"github.com/deyachatterjee/data-science-toolkit/pkg/logging"
	"github.com/deyachatterjee/data-science-toolkit/pkg/model"
)

// Report is the outcome of one pipeline run.
type Report struct {
	RunID string `json:"run_id"`

	Rows        int `json:"rows"`
	SkippedRows int `json:"skipped_rows"`
	DroppedRows int `json:"dropped_rows"`
	DroppedCols int `json:"dropped_columns"`
	Imputed     int `json:"imputed_values"`

	LowQuality int `json:"low_quality"`
	OkQuality  int `json:"ok_quality"`

	TrainSize    int `json:"train_size"`
	TestSize     int `json:"test_size"`
	BalancedSize int `json:"balanced_train_size"`

	Summary      []dataprep.ColumnSummary      `json:"summary"`
	Correlations []dataprep.FeatureCorrelation `json:"quality_correlations"`

	Tree   eval.Result `json:"ctree"`
	Forest eval.Result `json:"random_forest"`
}

// Write stores the report as indented JSON.
func (r *Report) Write(path string) error {
	buf, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: marshal report: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("pipeline: write report: %w", err)
	}
	return nil
}

// Runner executes the pipeline for one configuration.
type Runner struct {
	cfg *config.Config
	log zerolog.Logger
}

// New returns a Runner for cfg.
func New(cfg *config.Config) *Runner {
	return &Runner{
		cfg: cfg,
		log: logging.Logger().With().Str("component", "pipeline").Logger(),
	}
}

// Run executes ingestion, cleaning, partitioning, the two model fits and
// the evaluation, in that order.
func (r *Runner) Run() (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := r.log.With().Str("run_id", report.RunID).Logger()

	// Stages 1 and 2: ingestion and cleaning.
	frame, err := r.ingestAndClean(log, report)
	if err != nil {
		return nil, err
	}

	// Stage 3: partitioning.
	rnd := rand.New(rand.NewSource(r.cfg.Split.Seed))
	train, test, err := loader.StratifiedSplit(frame.Label, r.cfg.Split.TestRatio, rnd)
	if err != nil {
		return nil, err
	}
	report.TrainSize, report.TestSize = len(train), len(test)

	balanced := train
	switch r.cfg.Split.Rebalance {
	case "up":
		balanced = loader.Upsample(train, frame.Label, rnd)
	case "down":
		balanced = loader.Downsample(train, frame.Label, rnd)
	}
	report.BalancedSize = len(balanced)
	log.Info().
		Int("train", len(train)).
		Int("test", len(test)).
		Int("balanced", len(balanced)).
		Str("rebalance", r.cfg.Split.Rebalance).
		Msg("dataset partitioned")

	// Stage 4: model fitting. The conditional inference tree sees the raw
	// training subset; the forest sees the rebalanced resample.
	ctree := model.NewCTree(
		model.WithAlpha(r.cfg.Tree.Alpha),
		model.WithCTreeDepth(r.cfg.Tree.MaxDepth),
		model.WithMinSplit(r.cfg.Tree.MinSplit),
		model.WithMinBucket(r.cfg.Tree.MinBucket),
	)
	if err := ctree.Fit(subsetX(frame.X, train), subsetY(frame.Label, train)); err != nil {
		return nil, err
	}
	log.Info().Int("nodes", ctree.NodeCount()).Int("depth", ctree.Depth()).Msg("conditional inference tree fitted")

	forest := model.NewForest(
		model.WithNEstimators(r.cfg.Forest.Trees),
		model.WithForestDepth(r.cfg.Forest.MaxDepth),
		model.WithForestMaxFeatures(r.cfg.Forest.MaxFeatures),
		model.WithForestSeed(r.cfg.Forest.Seed),
	)
	if err := forest.Fit(subsetX(frame.X, balanced), subsetY(frame.Label, balanced)); err != nil {
		return nil, err
	}
	log.Info().Int("trees", r.cfg.Forest.Trees).Msg("random forest fitted")

	// Stage 5: evaluation on the held-out subset.
	Xtest := subsetX(frame.X, test)
	ytest := subsetY(frame.Label, test)

	report.Tree, err = r.evaluate("ctree", ctree, Xtest, ytest)
	if err != nil {
		return nil, err
	}
	report.Forest, err = r.evaluate("random_forest", forest, Xtest, ytest)
	if err != nil {
		return nil, err
	}

	log.Info().
		Float64("ctree_accuracy", report.Tree.Accuracy).
		Float64("forest_accuracy", report.Forest.Accuracy).
		Float64("ctree_balanced_accuracy", report.Tree.BalancedAccuracy).
		Float64("forest_balanced_accuracy", report.Forest.BalancedAccuracy).
		Msg("evaluation complete")
	return report, nil
}

// ingestAndClean covers stages 1 and 2: load and tag both sources, clean
// names, drop empties and build the model-ready frame.
func (r *Runner) ingestAndClean(log zerolog.Logger, report *Report) (*dataprep.Frame, error) {
	delim := r.cfg.DelimiterRune()
	red, err := data.LoadCSV(r.cfg.Data.RedPath, delim)
	if err != nil {
		return nil, err
	}
	white, err := data.LoadCSV(r.cfg.Data.WhitePath, delim)
	if err != nil {
		return nil, err
	}

	merged, err := data.Concat(r.cfg.Clean.SourceColumn,
		data.Tagged{Tag: "red", Table: red},
		data.Tagged{Tag: "white", Table: white},
	)
	if err != nil {
		return nil, err
	}
	merged.Header = dataprep.CleanNames(merged.Header)
	log.Info().
		Int("red", len(red.Rows)).
		Int("white", len(white.Rows)).
		Int("skipped", merged.Skipped).
		Msg("sources ingested")

	cleaned, droppedRows, droppedCols := dataprep.DropEmpty(merged)
	frame, err := dataprep.Build(cleaned, dataprep.BuildOptions{
		QualityColumn: r.cfg.Clean.QualityColumn,
		SourceColumn:  r.cfg.Clean.SourceColumn,
		QualityCutoff: r.cfg.Clean.QualityCutoff,
	})
	if err != nil {
		return nil, err
	}

	report.Rows = len(frame.X)
	report.SkippedRows = merged.Skipped
	report.DroppedRows = droppedRows + frame.Dropped
	report.DroppedCols = droppedCols
	report.Imputed = frame.Imputed
	report.LowQuality, report.OkQuality = frame.ClassCounts()
	report.Summary = dataprep.Summarize(frame.Names, frame.X)
	report.Correlations = dataprep.QualityCorrelations(frame.Names, frame.X, frame.Quality)

	log.Info().
		Int("rows", report.Rows).
		Int("low_quality", report.LowQuality).
		Int("ok_quality", report.OkQuality).
		Int("imputed", report.Imputed).
		Msg("dataset cleaned")
	return frame, nil
}

// evaluate thresholds a fitted classifier's probabilities on the
// evaluation subset.
func (r *Runner) evaluate(name string, m model.Classifier, X [][]float64, y []int) (eval.Result, error) {
	return eval.Evaluate(name, y, m.PredictProba(X), positiveIndex(m.Classes()), r.cfg.Eval.Threshold)
}

func subsetX(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for k, i := range idx {
		out[k] = X[i]
	}
	return out
}

func subsetY(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}

// positiveIndex locates the low-quality label in a class list.
func positiveIndex(classes []int) int {
	for i, c := range classes {
		if c == 1 {
			return i
		}
	}
	return -1
}
