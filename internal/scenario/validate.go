package scenario

import (
	"errors"
	"fmt"
	"math"
)

// Structural validation errors. Business meaning of the configuration is the
// caller's concern; the engine only rejects inputs it cannot compute on.
var (
	ErrNoRuns          = errors.New("runs must be positive")
	ErrNoOptions       = errors.New("at least one option is required")
	ErrNoVariables     = errors.New("at least one variable is required")
	ErrUnknownKind     = errors.New("unknown distribution kind")
	ErrUnknownVariable = errors.New("dependence references unknown variable")
	ErrMatrixNotSquare = errors.New("copula matrix is not square")
	ErrMatrixDimension = errors.New("copula matrix dimension does not match variable count")
	ErrMatrixAsymmetric = errors.New("copula matrix is not symmetric")
	ErrMissingStrategy = errors.New("game config requires an own strategy")
)

const symmetryTol = 1e-9

// Validate performs the structural and numerical checks the engine requires
// before any sampling begins. It never inspects business semantics.
func (s *Scenario) Validate() error {
	if s.Runs <= 0 {
		return ErrNoRuns
	}
	if len(s.Options) == 0 {
		return ErrNoOptions
	}
	if len(s.Variables) == 0 {
		return ErrNoVariables
	}

	ids := make(map[string]bool, len(s.Variables))
	for _, v := range s.Variables {
		switch v.Distribution {
		case DistNormal, DistLognormal, DistTriangular, DistUniform:
		default:
			return fmt.Errorf("variable %q: %w: %q", v.ID, ErrUnknownKind, v.Distribution)
		}
		ids[v.ID] = true
	}

	if s.Dependence != nil {
		if m := s.Dependence.Matrix; m != nil {
			if err := validateMatrix(m, len(s.Variables)); err != nil {
				return err
			}
		} else if p := s.Dependence.Pairwise; p != nil {
			if !ids[p.VarA] {
				return fmt.Errorf("%w: %q", ErrUnknownVariable, p.VarA)
			}
			if !ids[p.VarB] {
				return fmt.Errorf("%w: %q", ErrUnknownVariable, p.VarB)
			}
		}
	}

	if s.Game != nil && s.Strategy == "" {
		return ErrMissingStrategy
	}
	return nil
}

func validateMatrix(m *CopulaMatrixConfig, variableCount int) error {
	k := m.Dimension
	if k != variableCount {
		return fmt.Errorf("%w: dimension %d, variables %d", ErrMatrixDimension, k, variableCount)
	}
	if len(m.Matrix) != k {
		return fmt.Errorf("%w: %d rows for dimension %d", ErrMatrixNotSquare, len(m.Matrix), k)
	}
	for i, row := range m.Matrix {
		if len(row) != k {
			return fmt.Errorf("%w: row %d has %d columns", ErrMatrixNotSquare, i, len(row))
		}
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if math.Abs(m.Matrix[i][j]-m.Matrix[j][i]) > symmetryTol {
				return fmt.Errorf("%w: [%d][%d]=%g vs [%d][%d]=%g",
					ErrMatrixAsymmetric, i, j, m.Matrix[i][j], j, i, m.Matrix[j][i])
			}
		}
	}
	return nil
}
