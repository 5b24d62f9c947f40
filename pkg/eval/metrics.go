// Package eval scores classifier predictions on the held-out subset:
// probability thresholding, confusion matrix and the derived rates.
package eval

import "fmt"

// ConfusionMatrix tabulates predicted vs. actual outcomes for a binary
// classifier with positive label 1.
type ConfusionMatrix struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// Confusion builds the matrix from true and predicted labels.
func Confusion(yTrue, yPred []int) (ConfusionMatrix, error) {
	if len(yTrue) != len(yPred) {
		return ConfusionMatrix{}, fmt.Errorf("eval: %d true labels vs %d predictions", len(yTrue), len(yPred))
	}
	var m ConfusionMatrix
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			m.TP++
		case yPred[i] == 1 && yTrue[i] != 1:
			m.FP++
		case yPred[i] != 1 && yTrue[i] != 1:
			m.TN++
		default:
			m.FN++
		}
	}
	return m, nil
}

func (m ConfusionMatrix) total() int { return m.TP + m.FP + m.TN + m.FN }

// Accuracy is the fraction of correct predictions.
func (m ConfusionMatrix) Accuracy() float64 {
	if m.total() == 0 {
		return 0
	}
	return float64(m.TP+m.TN) / float64(m.total())
}

// Precision is TP / (TP + FP).
func (m ConfusionMatrix) Precision() float64 {
	if m.TP+m.FP == 0 {
		return 0
	}
	return float64(m.TP) / float64(m.TP+m.FP)
}

// Recall (sensitivity) is TP / (TP + FN).
func (m ConfusionMatrix) Recall() float64 {
	if m.TP+m.FN == 0 {
		return 0
	}
	return float64(m.TP) / float64(m.TP+m.FN)
}

// Specificity is TN / (TN + FP).
func (m ConfusionMatrix) Specificity() float64 {
	if m.TN+m.FP == 0 {
		return 0
	}
	return float64(m.TN) / float64(m.TN+m.FP)
}

// F1 is the harmonic mean of precision and recall.
func (m ConfusionMatrix) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// BalancedAccuracy is the mean of recall and specificity.
func (m ConfusionMatrix) BalancedAccuracy() float64 {
	return (m.Recall() + m.Specificity()) / 2
}

// ThresholdProba converts per-class probability vectors into binary
// predictions: 1 when the probability at positiveIdx reaches threshold.
func ThresholdProba(probas [][]float64, positiveIdx int, threshold float64) []int {
	out := make([]int, len(probas))
	for i, p := range probas {
		if positiveIdx >= 0 && positiveIdx < len(p) && p[positiveIdx] >= threshold {
			out[i] = 1
		}
	}
	return out
}

// Result summarizes one model's performance on the evaluation subset.
type Result struct {
	Model            string          `json:"model"`
	Threshold        float64         `json:"threshold"`
	Matrix           ConfusionMatrix `json:"confusion_matrix"`
	Accuracy         float64         `json:"accuracy"`
	Precision        float64         `json:"precision"`
	Recall           float64         `json:"recall"`
	Specificity      float64         `json:"specificity"`
	F1               float64         `json:"f1"`
	BalancedAccuracy float64         `json:"balanced_accuracy"`
}

// Evaluate thresholds the positive-class probabilities and derives the
// confusion-matrix metrics.
func Evaluate(modelName string, yTrue []int, probas [][]float64, positiveIdx int, threshold float64) (Result, error) {
	preds := ThresholdProba(probas, positiveIdx, threshold)
	m, err := Confusion(yTrue, preds)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Model:            modelName,
		Threshold:        threshold,
		Matrix:           m,
		Accuracy:         m.Accuracy(),
		Precision:        m.Precision(),
		Recall:           m.Recall(),
		Specificity:      m.Specificity(),
		F1:               m.F1(),
		BalancedAccuracy: m.BalancedAccuracy(),
	}, nil
}
