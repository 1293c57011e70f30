// Package validation checks routed connections against the routing rules: routes end
// exactly on their endpoints, normal routes only use horizontal and vertical segments,
// and a route leaves a fixed endpoint along its exit direction for at least the minimum
// stub length.
package validation

import (
	"fmt"
	"math"

	"orthoroute/config"
	"orthoroute/core"
	"orthoroute/diagram"
	"orthoroute/geometry"
)

// Rule names a routing rule.
type Rule string

const (
	RuleDegenerate Rule = "degenerate"
	RuleFidelity   Rule = "fidelity"
	RuleOrthogonal Rule = "orthogonal"
	RuleStub       Rule = "stub"
	RuleRedundant  Rule = "redundant" // Strict mode only
	RuleMissing    Rule = "missing"
)

// ValidationError describes one broken rule. Index is the offending point or segment,
// or -1 when the whole route is concerned.
type ValidationError struct {
	Connection core.ConnectionID
	Index      int
	Rule       Rule
	Message    string
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("connection %d: %s: %s", e.Connection, e.Rule, e.Message)
	}
	return fmt.Sprintf("connection %d [%d]: %s: %s", e.Connection, e.Index, e.Rule, e.Message)
}

// RouteValidator validates routes against their endpoint snapshots.
type RouteValidator struct {
	errors     []ValidationError
	minStart   float64
	strictMode bool // Also reject zero-length segments and points that do not turn
}

// NewRouteValidator creates a validator that expects the given router settings.
func NewRouteValidator(cfg config.Router) *RouteValidator {
	return &RouteValidator{minStart: cfg.MinStartLength}
}

// SetStrictMode enables or disables strict validation.
func (v *RouteValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// Validate checks one connection's route.
func (v *RouteValidator) Validate(c core.Connection, a, b core.EndpointSnapshot) []ValidationError {
	v.errors = nil
	v.check(c, a, b)
	return v.errors
}

// ValidateScene checks every connection in s, in ID order.
func (v *RouteValidator) ValidateScene(s *diagram.Scene) []ValidationError {
	v.errors = nil
	for _, c := range s.Connections() {
		a, okA := s.Snapshot(c.Endpoints[0])
		b, okB := s.Snapshot(c.Endpoints[1])
		if !okA || !okB {
			v.addError(c.ID, -1, RuleMissing, "endpoint not in scene")
			continue
		}
		v.check(c, a, b)
	}
	return v.errors
}

func (v *RouteValidator) check(c core.Connection, a, b core.EndpointSnapshot) {
	route := c.Route
	if !route.Valid() {
		v.addError(c.ID, -1, RuleDegenerate, "route has %d points", len(route))
		return
	}

	if !route.First().Eq(a.Pos) {
		v.addError(c.ID, 0, RuleFidelity, "starts at %v, endpoint is at %v", route.First(), a.Pos)
	}
	if !route.Last().Eq(b.Pos) {
		v.addError(c.ID, len(route)-1, RuleFidelity, "ends at %v, endpoint is at %v", route.Last(), b.Pos)
	}

	if c.Mode == core.ModeOffPage {
		if len(route) != 2 {
			v.addError(c.ID, -1, RuleDegenerate, "off-page route has %d points", len(route))
		}
		return
	}

	segs := route.Segments()
	for i, s := range segs {
		if s.IsDegenerate() {
			if v.strictMode && !a.Pos.Eq(b.Pos) {
				v.addError(c.ID, i, RuleRedundant, "zero-length segment at %v", s.A)
			}
			continue
		}
		if !s.IsAxisAligned() {
			v.addError(c.ID, i, RuleOrthogonal, "segment %v -> %v is diagonal", s.A, s.B)
		}
	}

	if v.strictMode {
		for i := 1; i+1 < len(route); i++ {
			d1 := route[i].Sub(route[i-1])
			d2 := route[i+1].Sub(route[i])
			if !d1.IsZero() && !d2.IsZero() && math.Abs(d1.Cross(d2)) < geometry.Epsilon && d1.Dot(d2) > 0 {
				v.addError(c.ID, i, RuleRedundant, "point %v does not turn", route[i])
			}
		}
	}

	v.checkStub(c, segs[0], a)
}

// checkStub verifies the first segment leaves a along its exit direction and is long
// enough. Free endpoints only need the length.
func (v *RouteValidator) checkStub(c core.Connection, first geometry.Segment, a core.EndpointSnapshot) {
	if first.IsDegenerate() {
		return
	}
	if dir := a.Dir.Cardinal(); !dir.IsZero() && !first.Dir().Eq(dir) {
		v.addError(c.ID, 0, RuleStub, "leaves towards %v, exit direction is %v", first.Dir(), dir)
		return
	}
	if first.Length() < v.minStart-geometry.Epsilon {
		v.addError(c.ID, 0, RuleStub, "first segment is %g long, minimum is %g", first.Length(), v.minStart)
	}
}

func (v *RouteValidator) addError(id core.ConnectionID, index int, rule Rule, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Connection: id,
		Index:      index,
		Rule:       rule,
		Message:    fmt.Sprintf(format, args...),
	})
}
