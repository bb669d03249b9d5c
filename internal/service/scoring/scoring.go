package scoring

const (
	categoryLogo        = "logo"
	categoryColors      = "colors"
	categoryDescription = "description"
	categoryIndustries  = "industries"
)

const (
	weightLogo        = 40
	weightColors      = 30
	weightDescription = 20
	weightIndustries  = 10
)

// MaxConfidence is the score of a brand carrying every signal.
const MaxConfidence = weightLogo + weightColors + weightDescription + weightIndustries

// BrandSignals captures the completeness checks taken on the raw provider brand
// object, before any normalization.
type BrandSignals struct {
	Logos          int
	Colors         int
	HasDescription bool
	Industries     int
}

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int
	Breakdown map[string]int
}

// ComputeConfidence adds one fixed weight per signal present. The total is
// always a subset sum of 40, 30, 20 and 10.
func ComputeConfidence(input BrandSignals) ScoreResult {
	breakdown := map[string]int{
		categoryLogo:        presence(input.Logos > 0, weightLogo),
		categoryColors:      presence(input.Colors > 0, weightColors),
		categoryDescription: presence(input.HasDescription, weightDescription),
		categoryIndustries:  presence(input.Industries > 0, weightIndustries),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     clamp(total),
		Breakdown: breakdown,
	}
}

func presence(ok bool, weight int) int {
	if ok {
		return weight
	}
	return 0
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxConfidence {
		return MaxConfidence
	}
	return score
}
