// Package model implements the two classifiers of the wine-quality
// pipeline: a conditional inference tree and a random forest of CART
// trees. Models live only for the duration of a run; there is no
// persistence.
package model

// Classifier is the supervised-learning contract shared by both models.
type Classifier interface {
	// Fit trains on the feature matrix X (n x p) and labels y (length n).
	Fit(X [][]float64, y []int) error
	// Predict returns the predicted class label for each row of X.
	Predict(X [][]float64) []int
	// PredictProba returns per-class probability vectors aligned with Classes.
	PredictProba(X [][]float64) [][]float64
	// Classes lists the class labels in probability-vector order.
	Classes() []int
}

var (
	_ Classifier = (*DecisionTree)(nil)
	_ Classifier = (*CTree)(nil)
	_ Classifier = (*Forest)(nil)
)
