// Package scenario defines the data model shared by the simulation engine:
// the inputs supplied by the caller (variables, options, dependence, utility,
// cost-of-risk and game configuration) and the per-option results the engine
// hands back. All types are plain data; the engine consumes them read-only
// and results are owned by the caller once returned.
package scenario

import (
	"encoding/json"
	"math"
)

// Target selects which side of an option a variable multiplies.
type Target string

const (
	TargetReturn Target = "return"
	TargetCost   Target = "cost"
)

// DistKind identifies a supported sampling distribution.
type DistKind string

const (
	DistNormal     DistKind = "normal"
	DistLognormal  DistKind = "lognormal"
	DistTriangular DistKind = "triangular"
	DistUniform    DistKind = "uniform"
)

// Variable is one uncertain business driver. Params holds the named
// distribution parameters (mean/sd, mu/sigma, min/mode/max, min/max).
type Variable struct {
	ID           string             `yaml:"id" json:"id"`
	Name         string             `yaml:"name" json:"name"`
	AppliesTo    Target             `yaml:"applies_to" json:"applies_to"`
	Distribution DistKind           `yaml:"distribution" json:"distribution"`
	Params       map[string]float64 `yaml:"params" json:"params"`
	Weight       float64            `yaml:"weight" json:"weight"`
}

// Option is one candidate decision. HorizonMonths of zero means "use the
// scenario-level horizon" (and twelve months when that is zero too).
type Option struct {
	ID             string  `yaml:"id" json:"id"`
	Label          string  `yaml:"label" json:"label"`
	BaseReturn     float64 `yaml:"base_return" json:"base_return"`
	BaseCost       float64 `yaml:"base_cost" json:"base_cost"`
	MitigationCost float64 `yaml:"mitigation_cost,omitempty" json:"mitigation_cost,omitempty"`
	HorizonMonths  int     `yaml:"horizon_months,omitempty" json:"horizon_months,omitempty"`
}

// PairwiseDependence targets a single Spearman correlation between two
// variables. Rho is conventionally kept in [-0.9, 0.9] upstream; the engine
// tolerates any value in [-1, 1].
type PairwiseDependence struct {
	VarA string  `yaml:"var_a" json:"var_a"`
	VarB string  `yaml:"var_b" json:"var_b"`
	Rho  float64 `yaml:"rho" json:"rho"`
}

// CopulaMatrixConfig targets a full k×k Spearman correlation structure.
// Dimension must equal the scenario's variable count and Matrix must be
// symmetric with a unit diagonal.
type CopulaMatrixConfig struct {
	Dimension    int         `yaml:"dimension" json:"dimension"`
	Matrix       [][]float64 `yaml:"matrix" json:"matrix"`
	UseNearestPD bool        `yaml:"use_nearest_pd" json:"use_nearest_pd"`
}

// DependenceConfig selects at most one dependence mechanism. When both are
// supplied the full matrix takes precedence.
type DependenceConfig struct {
	Pairwise *PairwiseDependence `yaml:"pairwise,omitempty" json:"pairwise,omitempty"`
	Matrix   *CopulaMatrixConfig `yaml:"matrix,omitempty" json:"matrix,omitempty"`
}

// PosteriorOverride replaces the location/scale parameters of one Normal or
// Lognormal variable with a Bayesian posterior before sampling. Other
// distribution kinds ignore it.
type PosteriorOverride struct {
	VariableID string  `yaml:"variable_id" json:"variable_id"`
	Mean       float64 `yaml:"mean" json:"mean"`
	SD         float64 `yaml:"sd" json:"sd"`
}

// UtilityMode selects the per-run utility transform.
type UtilityMode string

const (
	UtilityCARA        UtilityMode = "cara"
	UtilityCRRA        UtilityMode = "crra"
	UtilityExponential UtilityMode = "exponential"
	UtilityQuadratic   UtilityMode = "quadratic"
	UtilityPower       UtilityMode = "power"
)

// UtilityParams configures expected-utility and certainty-equivalent
// reporting. OutcomeScale divides outcomes before the transform so that
// risk aversion coefficients stay in a sane range; zero means no scaling.
type UtilityParams struct {
	Mode         UtilityMode `yaml:"mode" json:"mode"`
	RiskAversion float64     `yaml:"risk_aversion" json:"risk_aversion"`
	OutcomeScale float64     `yaml:"outcome_scale,omitempty" json:"outcome_scale,omitempty"`
}

// TCORParams configures the Total Cost of Risk breakdown. Rates are
// fractions: insurance of option base cost, contingency of economic capital.
type TCORParams struct {
	InsuranceRate   float64 `yaml:"insurance_rate" json:"insurance_rate"`
	ContingencyRate float64 `yaml:"contingency_rate" json:"contingency_rate"`
}

// Strategy is the decision maker's own posture in the competitor game.
type Strategy string

const (
	StrategyConservative Strategy = "conservative"
	StrategyAggressive   Strategy = "aggressive"
)

// Response is the competitor's simulated binary reaction.
type Response string

const (
	ResponseUndercut Response = "undercut"
	ResponseMatch    Response = "match"
)

// ResponseMultipliers scales an option's return and cost for one
// strategy/response combination.
type ResponseMultipliers struct {
	Return float64 `yaml:"return" json:"return"`
	Cost   float64 `yaml:"cost" json:"cost"`
}

// GameConfig enables the discrete competitor-response game: one Bernoulli
// trial per run picks Undercut (with the configured probability) or Match,
// and the matching multipliers are applied to return and cost.
type GameConfig struct {
	UndercutProbability float64                                      `yaml:"undercut_probability" json:"undercut_probability"`
	Multipliers         map[Strategy]map[Response]ResponseMultipliers `yaml:"multipliers" json:"multipliers"`
}

// Scenario is the full input to one simulation call.
type Scenario struct {
	Seed          uint32             `yaml:"seed" json:"seed"`
	Runs          int                `yaml:"runs" json:"runs"`
	HorizonMonths int                `yaml:"horizon_months,omitempty" json:"horizon_months,omitempty"`
	Options       []Option           `yaml:"options" json:"options"`
	Variables     []Variable         `yaml:"variables" json:"variables"`
	Dependence    *DependenceConfig  `yaml:"dependence,omitempty" json:"dependence,omitempty"`
	Override      *PosteriorOverride `yaml:"bayesian_override,omitempty" json:"bayesian_override,omitempty"`
	Utility       *UtilityParams     `yaml:"utility,omitempty" json:"utility,omitempty"`
	TCOR          *TCORParams        `yaml:"tcor,omitempty" json:"tcor,omitempty"`
	Game          *GameConfig        `yaml:"game,omitempty" json:"game,omitempty"`
	Strategy      Strategy           `yaml:"strategy,omitempty" json:"strategy,omitempty"`

	// Parallel runs each option on its own seed-derived generator. The
	// output is still deterministic for a fixed seed but is a different
	// stream than the sequential single-generator mode.
	Parallel bool `yaml:"parallel,omitempty" json:"parallel,omitempty"`
}

// UtilityResult reports expected utility and its certainty equivalent in
// outcome units. Both may be NaN or infinite when the chosen transform is
// undefined for part of the outcome distribution; such values serialize as
// null so exports stay valid JSON.
type UtilityResult struct {
	Mode                UtilityMode `json:"mode"`
	ExpectedUtility     float64     `json:"expected_utility"`
	CertaintyEquivalent float64     `json:"certainty_equivalent"`
}

// MarshalJSON maps non-finite values to null; encoding/json rejects NaN and
// infinities outright.
func (u UtilityResult) MarshalJSON() ([]byte, error) {
	type field struct {
		Mode                UtilityMode `json:"mode"`
		ExpectedUtility     *float64    `json:"expected_utility"`
		CertaintyEquivalent *float64    `json:"certainty_equivalent"`
	}
	return json.Marshal(field{
		Mode:                u.Mode,
		ExpectedUtility:     finiteOrNil(u.ExpectedUtility),
		CertaintyEquivalent: finiteOrNil(u.CertaintyEquivalent),
	})
}

func finiteOrNil(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

// TCORResult is the Total Cost of Risk breakdown. Total is the sum of the
// four components.
type TCORResult struct {
	ExpectedLoss float64 `json:"expected_loss"`
	Insurance    float64 `json:"insurance"`
	Contingency  float64 `json:"contingency"`
	Mitigation   float64 `json:"mitigation"`
	Total        float64 `json:"total"`
}

// PairwiseDiagnostics reports the achieved Spearman correlation after
// pairwise reordering.
type PairwiseDiagnostics struct {
	VarA        string  `json:"var_a"`
	VarB        string  `json:"var_b"`
	TargetRho   float64 `json:"target_rho"`
	AchievedRho float64 `json:"achieved_rho"`
}

// MatrixDiagnostics reports the achieved correlation matrix after full
// copula reordering. Feasible reflects the original target's Cholesky
// check; Repaired is set when a nearest-PD shrink was applied.
type MatrixDiagnostics struct {
	Achieved       [][]float64 `json:"achieved"`
	FrobeniusError float64     `json:"frobenius_error"`
	Feasible       bool        `json:"feasible"`
	Repaired       bool        `json:"repaired"`
}

// Result is the engine's output for one option, in input order. Optional
// blocks are present exactly when the corresponding configuration was
// supplied.
type Result struct {
	OptionID        string               `json:"option_id"`
	Label           string               `json:"label"`
	Outcomes        []float64            `json:"outcomes"`
	ExpectedValue   float64              `json:"expected_value"`
	VaR95           float64              `json:"var95"`
	CVaR95          float64              `json:"cvar95"`
	EconomicCapital float64              `json:"economic_capital"`
	RAROC           float64              `json:"raroc"`
	Utility         *UtilityResult       `json:"utility,omitempty"`
	TCOR            *TCORResult          `json:"tcor,omitempty"`
	Pairwise        *PairwiseDiagnostics `json:"pairwise,omitempty"`
	Matrix          *MatrixDiagnostics   `json:"matrix,omitempty"`
	HorizonMonths   int                  `json:"horizon_months"`
}
