// Package model holds the state shared by the fit-then-transform helpers.
package model

// EstimatorState は変換器の学習状態を表す
type EstimatorState int

const (
	// NotFitted は未学習の状態
	NotFitted EstimatorState = iota
	// Fitted は学習済みの状態
	Fitted
)

// BaseEstimator は Fit を持つ型に埋め込む学習状態
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted は学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted は学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset は初期状態に戻す
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// SeriesTransformer は1次元系列を変換するインターフェース
type SeriesTransformer interface {
	Fit(values []float64) error
	Transform(values []float64) ([]float64, error)
	FitTransform(values []float64) ([]float64, error)
	InverseTransform(values []float64) ([]float64, error)
}
