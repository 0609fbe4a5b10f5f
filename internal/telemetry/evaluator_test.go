package telemetry

import (
	"math"
	"testing"
)

func TestEvaluateWithinBand(t *testing.T) {
	band := Band{Target: 14, Tolerance: 2.5}

	decision, deviation := Evaluate(14.0, band)
	if decision != DecisionNone {
		t.Fatalf("expected no alert at target, got %s", decision)
	}
	if deviation != 0 {
		t.Fatalf("expected zero deviation at target, got %v", deviation)
	}

	// Deviation equal to the tolerance must not flag; only strictly
	// above does.
	decision, deviation = Evaluate(16.5, band)
	if decision != DecisionNone {
		t.Fatalf("expected no alert at band edge, got %s", decision)
	}
	if math.Abs(deviation-2.5) > 1e-9 {
		t.Fatalf("expected deviation 2.5, got %v", deviation)
	}
}

func TestEvaluateAboveBand(t *testing.T) {
	band := Band{Target: 14, Tolerance: 2.5}

	decision, deviation := Evaluate(17.0, band)
	if decision != DecisionWarning {
		t.Fatalf("expected warning for 17.0 against 14±2.5, got %s", decision)
	}
	if math.Abs(deviation-3.0) > 1e-9 {
		t.Fatalf("expected deviation 3.0, got %v", deviation)
	}
}

func TestEvaluateBelowBand(t *testing.T) {
	decision, deviation := Evaluate(10.0, Band{Target: 14, Tolerance: 2.5})
	if decision != DecisionWarning {
		t.Fatalf("expected warning for 10.0, got %s", decision)
	}
	if math.Abs(deviation-4.0) > 1e-9 {
		t.Fatalf("expected deviation 4.0, got %v", deviation)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	band := Band{Target: 14, Tolerance: 2.5}
	firstDecision, firstDeviation := Evaluate(15.3, band)
	for i := 0; i < 100; i++ {
		decision, deviation := Evaluate(15.3, band)
		if decision != firstDecision || deviation != firstDeviation {
			t.Fatalf("evaluation not deterministic: (%s, %v) vs (%s, %v)",
				decision, deviation, firstDecision, firstDeviation)
		}
	}
}
