package log

// Operation context.
const (
	// ComponentKey identifies the package doing the work.
	// Examples: "trend", "dataset", "anomaly", "pipeline"
	ComponentKey = "component"

	// OperationKey names the operation being performed.
	OperationKey = "operation"

	// PhaseKey names the pipeline stage.
	PhaseKey = "phase"
)

// Data shape.
const (
	// SamplesKey is the number of observations in a series.
	SamplesKey = "data.samples"

	// SeriesKey is the number of series processed together.
	SeriesKey = "data.series"

	// PathKey is a file path read or written.
	PathKey = "data.path"

	// BytesKey is a payload size in bytes.
	BytesKey = "data.bytes"
)

// Trendline fit.
const (
	SlopeKey     = "trend.slope"
	InterceptKey = "trend.intercept"
	StartKey     = "trend.start"
	EndKey       = "trend.end"
	DirectionKey = "trend.direction"

	// R2ScoreKey is the coefficient of determination of the trendline.
	R2ScoreKey = "metrics.r2_score"
)

// Detection.
const (
	ConfidenceKey    = "detect.confidence"
	HistoryLengthKey = "detect.history_length"
	AlertsKey        = "detect.alerts"
	ChangePointsKey  = "detect.change_points"
)

// Performance.
const (
	DurationMsKey = "perf.duration_ms"
)

// Errors.
const (
	ErrorCodeKey  = "error.code"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationLoad      = "load"
	OperationFit       = "fit"
	OperationDetrend   = "detrend"
	OperationDetect    = "detect"
	OperationRender    = "render"
	OperationArchive   = "archive"
	OperationFitBatch  = "fit_batch"
	PhaseLoading       = "loading"
	PhasePreprocessing = "preprocessing"
	PhaseFitting       = "fitting"
	PhaseDetection     = "detection"
	PhaseOutput        = "output"

	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorValidation        = "VALIDATION"
)
