// Package preprocessing は系列をトレンドライン推定や異常検知に渡す前の前処理を提供する。
package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/trendline/core/model"
	"github.com/YuminosukeSato/trendline/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SeriesScaler は1次元系列を平均0、標準偏差1に変換する標準化スケーラー
type SeriesScaler struct {
	model.BaseEstimator

	// Mean は学習時の平均値
	Mean float64

	// Scale は学習時の標準偏差（母標準偏差）
	Scale float64

	// WithMean は平均を引くかどうか
	WithMean bool

	// WithStd は標準偏差で割るかどうか
	WithStd bool
}

var _ model.SeriesTransformer = (*SeriesScaler)(nil)

// NewSeriesScaler は新しいSeriesScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewSeriesScaler(true, true)
//	scaled, err := scaler.FitTransform(residuals)
func NewSeriesScaler(withMean, withStd bool) *SeriesScaler {
	return &SeriesScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// Fit は系列から平均と標準偏差を計算する
func (s *SeriesScaler) Fit(values []float64) error {
	if len(values) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "SeriesScaler.Fit")
	}
	if err := errors.CheckNumericalStability("SeriesScaler.Fit", values); err != nil {
		return err
	}

	s.Mean = 0
	if s.WithMean {
		s.Mean = stat.Mean(values, nil)
	}

	s.Scale = 1
	if s.WithStd {
		_, std := stat.PopMeanStdDev(values, nil)
		// 標準偏差が0に近い場合は1に設定（ゼロ除算を避ける）
		if std >= 1e-8 {
			s.Scale = std
		}
	}

	s.SetFitted()
	return nil
}

// Transform は学習済みの統計量で系列を標準化する。入力は変更しない。
func (s *SeriesScaler) Transform(values []float64) ([]float64, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SeriesScaler", "Transform")
	}

	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(-s.Mean, out)
	floats.Scale(1/s.Scale, out)
	return out, nil
}

// FitTransform はFitとTransformを続けて実行する
func (s *SeriesScaler) FitTransform(values []float64) ([]float64, error) {
	if err := s.Fit(values); err != nil {
		return nil, err
	}
	return s.Transform(values)
}

// InverseTransform は標準化を元のスケールに戻す
func (s *SeriesScaler) InverseTransform(values []float64) ([]float64, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SeriesScaler", "InverseTransform")
	}

	out := make([]float64, len(values))
	copy(out, values)
	floats.Scale(s.Scale, out)
	floats.AddConst(s.Mean, out)
	return out, nil
}

func (s *SeriesScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("SeriesScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("SeriesScaler(mean=%.6g, scale=%.6g)", s.Mean, s.Scale)
}

// Round は各値を最も近い整数に丸めた新しい系列を返す（0.5は0から遠い方へ）
func Round(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Round(v)
	}
	return out
}
