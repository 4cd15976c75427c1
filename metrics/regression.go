// Package metrics は観測値とトレンドラインの当てはまりを評価する指標を提供する。
package metrics

import (
	"math"

	"github.com/YuminosukeSato/trendline/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	yMean := stat.Mean(mat.Col(nil, 0, yTrue), nil)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// R2ScoreSlices はスライス入力に対してR²を計算する
func R2ScoreSlices(yTrue, yPred []float64) (float64, error) {
	t, p, err := toVecs("R2ScoreSlices", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return R2Score(t, p)
}

// RMSESlices はスライス入力に対してRMSEを計算する
func RMSESlices(yTrue, yPred []float64) (float64, error) {
	t, p, err := toVecs("RMSESlices", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return RMSE(t, p)
}

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yTrue.IsEmpty() {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred == nil || yPred.IsEmpty() {
		return 0, errors.NewDimensionError(op, n, 0)
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len())
	}
	return n, nil
}

// mat.NewVecDense は長さ0でパニックするため先に検査する
func toVecs(op string, yTrue, yPred []float64) (*mat.VecDense, *mat.VecDense, error) {
	if len(yTrue) == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}
	if len(yPred) != len(yTrue) {
		return nil, nil, errors.NewDimensionError(op, len(yTrue), len(yPred))
	}
	return mat.NewVecDense(len(yTrue), yTrue), mat.NewVecDense(len(yPred), yPred), nil
}
