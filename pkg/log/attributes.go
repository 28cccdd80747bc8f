package log

// Standard field keys used across the evaluation pipeline. Using shared
// constants keeps log output queryable with a consistent vocabulary.
const (
	// ModelNameKey identifies the benchmark model being evaluated.
	ModelNameKey = "model"

	// DatasetKey identifies the dataset slice (e.g. "red", "white").
	DatasetKey = "dataset"

	// SeedKey is the random seed of the current cross-validation repeat.
	SeedKey = "seed"

	// FoldKey is the zero-based fold index within a repeat.
	FoldKey = "fold"

	// SamplesKey is a row count.
	SamplesKey = "samples"

	// FeaturesKey is a feature-column count.
	FeaturesKey = "features"

	// AccuracyKey, AUCKey and MAEKey are the three benchmark metrics.
	AccuracyKey = "accuracy"
	AUCKey      = "auc"
	MAEKey      = "mae"

	// LambdaKey is a chosen penalty strength (ridge, lasso).
	LambdaKey = "lambda"

	// ComponentsKey is a chosen principal-component count.
	ComponentsKey = "components"

	// SubsetSizeKey is a chosen best-subset feature count.
	SubsetSizeKey = "subset_size"

	// DurationMsKey is an elapsed wall-clock time in milliseconds.
	DurationMsKey = "duration_ms"
)
