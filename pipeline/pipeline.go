// Package pipeline runs a full trendline pass over one dataset:
// load, fit, detect, and write the optional chart and archive.
package pipeline

import (
	"context"
	"time"

	"github.com/YuminosukeSato/trendline/anomaly"
	"github.com/YuminosukeSato/trendline/archive"
	"github.com/YuminosukeSato/trendline/chart"
	"github.com/YuminosukeSato/trendline/config"
	"github.com/YuminosukeSato/trendline/dataset"
	"github.com/YuminosukeSato/trendline/pkg/errors"
	"github.com/YuminosukeSato/trendline/pkg/log"
	"github.com/YuminosukeSato/trendline/preprocessing"
	"github.com/YuminosukeSato/trendline/trend"
	"github.com/rs/zerolog"
)

// Report は1回の実行結果
type Report struct {
	Series    *dataset.Series
	Trend     *trend.Result
	Direction trend.Direction

	// R2 is only meaningful when HasR2 is true; a constant series has no R².
	R2    float64
	HasR2 bool

	Residuals []float64
	// StandardizedResiduals は残差を平均0、標準偏差1に変換したもの。
	// 検知は生の残差で行うため、これは報告専用で検知や出力には使われない
	StandardizedResiduals []float64

	HistoryLength int
	Spikes        []anomaly.Spike
	ChangePoints  []anomaly.ChangePoint

	ChartPath   string
	ArchivePath string
}

// SpikeAlerts returns the number of spike alerts.
func (r *Report) SpikeAlerts() int {
	return anomaly.CountAlerts(r.Spikes)
}

// ChangePointAlerts returns the number of change-point alerts.
func (r *Report) ChangePointAlerts() int {
	return anomaly.CountChangePoints(r.ChangePoints)
}

// MarshalZerologObject は実行結果の要約をzerologのイベントに追加する
func (r *Report) MarshalZerologObject(e *zerolog.Event) {
	e.Int("samples", r.Series.Len()).
		Float64("slope", r.Trend.Slope).
		Float64("intercept", r.Trend.Intercept).
		Float64("start", r.Trend.Start).
		Float64("end", r.Trend.End).
		Str("direction", r.Direction.String()).
		Int("spikes", r.SpikeAlerts()).
		Int("change_points", r.ChangePointAlerts())
	if r.HasR2 {
		e.Float64("r2_score", r.R2)
	}
}

// Run executes every stage configured in cfg. A nil logger uses the package default.
func Run(ctx context.Context, cfg *config.Config, logger log.Logger) (report *Report, err error) {
	if cfg == nil {
		return nil, errors.NewValueError("pipeline.Run", "config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.GetLoggerWithName("pipeline")
	}
	defer func() {
		if err != nil {
			report = nil
		}
	}()
	defer errors.Recover(&err, "pipeline.Run")

	begin := time.Now()
	report = &Report{}

	// 読み込み
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "pipeline: before load")
	}
	series, err := dataset.Load(cfg.Data.Path, cfg.DatasetOptions())
	if err != nil {
		logFailure(logger, err, log.PhaseLoading)
		return nil, err
	}
	if cfg.Data.Round {
		series = series.Rounded()
		logger.Debug("Values rounded", log.PhaseKey, log.PhasePreprocessing)
	}
	report.Series = series
	logger.Info("Dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, cfg.Data.Path,
		log.SamplesKey, series.Len(),
	)

	// 推定
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "pipeline: before fit")
	}
	r, residuals, err := trend.Detrend(series.Values)
	if err != nil {
		logFailure(logger, err, log.PhaseFitting)
		return nil, err
	}
	report.Trend = r
	report.Residuals = residuals
	report.Direction = r.Direction(cfg.Detection.Epsilon)
	if score, err := r.Score(series.Values); err == nil {
		report.R2, report.HasR2 = score, true
	} else {
		logger.Debug("R2 score undefined", log.ErrAttrKey, err)
	}

	scaler := preprocessing.NewSeriesScaler(true, true)
	if report.StandardizedResiduals, err = scaler.FitTransform(residuals); err != nil {
		logFailure(logger, err, log.PhasePreprocessing)
		return nil, err
	}

	fields := []any{
		log.OperationKey, log.OperationFit,
		log.SlopeKey, r.Slope,
		log.InterceptKey, r.Intercept,
		log.StartKey, r.Start,
		log.EndKey, r.End,
		log.DirectionKey, report.Direction.String(),
	}
	if report.HasR2 {
		fields = append(fields, log.R2ScoreKey, report.R2)
	}
	logger.Info("Trendline fitted", fields...)

	// 検知
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "pipeline: before detection")
	}
	report.HistoryLength = cfg.HistoryLength(series.Len())
	if series.Len() <= anomaly.MinHistoryLength {
		logger.Warn("Series too short for anomaly detection, no point can raise an alert",
			log.PhaseKey, log.PhaseDetection,
			log.SamplesKey, series.Len(),
			log.HistoryLengthKey, report.HistoryLength,
		)
	}
	spikeDetector := anomaly.NewSpikeDetector(cfg.Detection.Confidence, report.HistoryLength)
	if report.Spikes, err = spikeDetector.DetectSpikes(residuals); err != nil {
		logFailure(logger, err, log.PhaseDetection)
		return nil, err
	}
	cpDetector := &anomaly.ChangePointDetector{
		Confidence:    cfg.Detection.Confidence,
		HistoryLength: report.HistoryLength,
		Epsilon:       cfg.Detection.MartingaleEpsilon,
	}
	if report.ChangePoints, err = cpDetector.DetectChangePoints(residuals); err != nil {
		logFailure(logger, err, log.PhaseDetection)
		return nil, err
	}
	logger.Info("Anomaly detection finished",
		log.OperationKey, log.OperationDetect,
		log.ConfidenceKey, cfg.Detection.Confidence,
		log.HistoryLengthKey, report.HistoryLength,
		log.AlertsKey, report.SpikeAlerts(),
		log.ChangePointsKey, report.ChangePointAlerts(),
	)

	// 出力
	if path := cfg.Output.ChartPath; path != "" {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "pipeline: before chart")
		}
		if err := chart.Save(path, series.Values, r, report.Spikes, chart.DefaultOptions()); err != nil {
			logFailure(logger, err, log.PhaseOutput)
			return nil, err
		}
		report.ChartPath = path
		logger.Info("Chart written", log.OperationKey, log.OperationRender, log.PathKey, path)
	}

	if path := cfg.Output.ArchivePath; path != "" {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "pipeline: before archive")
		}
		start, step := archiveClock(series.Times)
		if err := archive.WriteFile(path, start, step, series.Values, r); err != nil {
			logFailure(logger, err, log.PhaseOutput)
			return nil, err
		}
		report.ArchivePath = path
		logger.Info("Archive written", log.OperationKey, log.OperationArchive, log.PathKey, path)
	}

	logger.Debug("Pipeline finished", log.DurationMsKey, time.Since(begin).Milliseconds())
	return report, nil
}

// archiveClock は時刻列がRFC 3339の等間隔系列ならその開始時刻と間隔を返し、
// そうでなければUnixエポックから1秒刻みとする
func archiveClock(times []string) (time.Time, time.Duration) {
	fallback := time.Unix(0, 0).UTC()
	if len(times) < 2 {
		return fallback, time.Second
	}
	t0, err0 := time.Parse(time.RFC3339, times[0])
	t1, err1 := time.Parse(time.RFC3339, times[1])
	if err0 != nil || err1 != nil || !t1.After(t0) {
		return fallback, time.Second
	}
	return t0, t1.Sub(t0)
}

func logFailure(logger log.Logger, err error, phase string) {
	logger.Error("Pipeline stage failed", err,
		log.PhaseKey, phase,
		log.ErrorCodeKey, errorCode(err),
	)
}

func errorCode(err error) string {
	var dimErr *errors.DimensionError
	var valErr *errors.ValidationError
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		return log.ErrorInvalidInput
	case errors.As(err, &dimErr):
		return log.ErrorDimensionMismatch
	case errors.As(err, &valErr):
		return log.ErrorValidation
	default:
		return "INTERNAL"
	}
}
