package attendance

import (
	"math"

	"github.com/trezcool/mahudhurio/core"
)

// RiskLevel is derived from an attendance ratio, never stored.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

func (rl RiskLevel) IsAtRisk() bool { return rl == RiskHigh || rl == RiskMedium }

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// Settings are the tunables of the estimator. Ratios are on the 0-100 scale.
type Settings struct {
	HighRiskBelow      float64 // ratio < HighRiskBelow -> high
	MediumRiskBelow    float64 // HighRiskBelow <= ratio < MediumRiskBelow -> medium
	NoiseBand          float64 // |last - first| <= NoiseBand -> stable
	Horizon            int     // projected periods when none is requested
	WeeklyCurrentMonth bool
}

func DefaultSettings() Settings {
	return Settings{
		HighRiskBelow:      50,
		MediumRiskBelow:    70,
		NoiseBand:          3,
		Horizon:            3,
		WeeklyCurrentMonth: true,
	}
}

// SettingsFromConfig maps the report configuration, keeping defaults for unset values:
// zero thresholds and horizon, nil noise band and nil weekly split.
func SettingsFromConfig(conf core.ReportConfig) Settings {
	s := DefaultSettings()
	if conf.HighRiskBelow > 0 {
		s.HighRiskBelow = conf.HighRiskBelow
	}
	if conf.MediumRiskBelow > 0 {
		s.MediumRiskBelow = conf.MediumRiskBelow
	}
	if conf.TrendNoiseBand != nil && *conf.TrendNoiseBand >= 0 {
		s.NoiseBand = *conf.TrendNoiseBand
	}
	if conf.Horizon > 0 {
		s.Horizon = conf.Horizon
	}
	if conf.WeeklyCurrentMonth != nil {
		s.WeeklyCurrentMonth = *conf.WeeklyCurrentMonth
	}
	return s
}

// ClassifyRisk maps a 0-100 ratio to a RiskLevel using half-open intervals:
// exactly HighRiskBelow is medium, exactly MediumRiskBelow is low.
// NaN, infinite and negative ratios are rejected; ratios above 100 are clamped.
func (s Settings) ClassifyRisk(ratio float64) (RiskLevel, error) {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < 0 {
		return "", ErrInvalidRatio
	}
	ratio = math.Min(ratio, 100)
	switch {
	case ratio < s.HighRiskBelow:
		return RiskHigh, nil
	case ratio < s.MediumRiskBelow:
		return RiskMedium, nil
	default:
		return RiskLow, nil
	}
}

// ClassifyTrend compares the first and last ratios of a chronological series.
func (s Settings) ClassifyTrend(series []float64) TrendDirection {
	if len(series) < 2 {
		return TrendStable
	}
	diff := series[len(series)-1] - series[0]
	switch {
	case diff > s.NoiseBand:
		return TrendImproving
	case diff < -s.NoiseBand:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Aggregator returns the period aggregator matching the settings.
func (s Settings) Aggregator() Aggregator {
	return Aggregator{WeeklyCurrentMonth: s.WeeklyCurrentMonth}
}

// Estimate fits the aggregated series and projects `horizon` periods (Settings.Horizon when <= 0).
// It returns ErrEmptyInput when there is no period and ErrInsufficientData below 2 periods.
func (s Settings) Estimate(agg Aggregation, horizon int) (TrendProjection, error) {
	if agg.IsEmpty() {
		return TrendProjection{}, ErrEmptyInput
	}
	if horizon <= 0 {
		horizon = s.Horizon
	}

	historical := agg.Series()
	fit, err := FitLine(agg.Percents())
	if err != nil {
		return TrendProjection{}, err
	}

	projected := fit.Project(horizon)
	labels := NextPeriods(historical[len(historical)-1].Key, horizon)
	for i := range projected {
		projected[i].Period = labels[i].String()
	}
	return TrendProjection{
		Historical: historical,
		Slope:      fit.Slope,
		Intercept:  fit.Intercept,
		Projected:  projected,
	}, nil
}
