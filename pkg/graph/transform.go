package graph

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/pathlinker/pkg/errors"
)

// Weighting selects how input weights become search costs.
type Weighting string

const (
	// Unweighted gives every real edge cost 1.
	Unweighted Weighting = "unweighted"
	// Additive uses input weights as costs.
	Additive Weighting = "additive"
	// Probability treats weights as probabilities in (0,1] and uses -ln(w).
	Probability Weighting = "probability"
)

// Weightings lists the supported weightings.
var Weightings = []Weighting{Unweighted, Additive, Probability}

// ParseWeighting parses a weighting name, case-insensitively.
func ParseWeighting(s string) (Weighting, error) {
	w := Weighting(strings.ToLower(strings.TrimSpace(s)))
	switch w {
	case Unweighted, Additive, Probability:
		return w, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown weighting %q (want one of %v)", s, Weightings)
}

// Transform rewrites the weight of every real and mirror edge of g. Connector
// edges keep weight 0. The result of the weighting is multiplied by penalty.
//
// Transform fails with INVALID_INPUT when the penalty is not a positive finite
// number, when a weight is missing or not finite under Additive, and when a
// weight is missing or outside (0,1] under Probability. Negative additive
// weights are left in place for the oracle to reject.
func Transform(g *Graph, w Weighting, penalty float64) error {
	if err := errors.ValidateEdgePenalty(penalty); err != nil {
		return err
	}

	cost, err := costFunc(w)
	if err != nil {
		return err
	}

	for id := range g.edges {
		e := &g.edges[id]
		if e.Origin == OriginConnector {
			e.Weight = 0
			continue
		}
		c, err := cost(e)
		if err != nil {
			return fmt.Errorf("edge %s->%s (input %d): %w", g.Name(e.From), g.Name(e.To), e.Input, err)
		}
		e.Weight = c * penalty
	}
	return nil
}

func costFunc(w Weighting) (func(*Edge) (float64, error), error) {
	switch w {
	case Unweighted:
		return func(*Edge) (float64, error) { return 1, nil }, nil
	case Additive:
		return func(e *Edge) (float64, error) {
			if !e.HasRaw {
				return 0, errors.New(errors.ErrCodeInvalidInput, "missing weight")
			}
			if err := errors.ValidateFinite(e.Raw); err != nil {
				return 0, err
			}
			return e.Raw, nil
		}, nil
	case Probability:
		return func(e *Edge) (float64, error) {
			if !e.HasRaw {
				return 0, errors.New(errors.ErrCodeInvalidInput, "missing probability")
			}
			if err := errors.ValidateProbability(e.Raw); err != nil {
				return 0, err
			}
			// -ln(1) is -0; keep costs non-negative zero.
			return math.Abs(-math.Log(e.Raw)), nil
		}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown weighting %q", string(w))
}
