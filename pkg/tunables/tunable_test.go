package tunables

import (
	"testing"

	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

func TestNewNumericRejectsBadDefault(t *testing.T) {
	if _, err := NewNumeric("x", KindInteger, IntValue(20), Range{Min: 0, Max: 10}); err == nil {
		t.Fatal("expected error for out-of-range default")
	}
}

func TestAssignPrecisionLoss(t *testing.T) {
	tn, err := NewNumeric("x", KindInteger, IntValue(5), Range{Min: 0, Max: 10})
	if err != nil {
		t.Fatal(err)
	}
	err = tn.Assign(FloatValue(5.5))
	if err == nil {
		t.Fatal("expected precision loss error")
	}
	if k, ok := tunerr.KindOf(err); !ok || k != tunerr.KindPrecisionLoss {
		t.Fatalf("got kind %v, want PrecisionLoss", k)
	}
}

func TestAssignInvalidValue(t *testing.T) {
	tn, err := NewNumeric("x", KindInteger, IntValue(5), Range{Min: 0, Max: 10})
	if err != nil {
		t.Fatal(err)
	}
	err = tn.Assign(IntValue(20))
	if k, ok := tunerr.KindOf(err); !ok || k != tunerr.KindInvalidValue {
		t.Fatalf("got kind %v, want InvalidValue", k)
	}
}

func TestCategoricalAssign(t *testing.T) {
	tn, err := NewCategorical("mode", StringValue("fast"), []string{"fast", "slow"})
	if err != nil {
		t.Fatal(err)
	}
	if err := tn.Assign(StringValue("slow")); err != nil {
		t.Fatal(err)
	}
	if err := tn.Assign(StringValue("bogus")); err == nil {
		t.Fatal("expected invalid value error")
	}
}

// S6: range [0,10], step 3, current value 6 -> quantized values [0,3,6,9];
// assigning 4 is rejected as an invalid value.
func TestQuantizationScenarioS6(t *testing.T) {
	tn, err := NewNumeric("q", KindInteger, IntValue(6), Range{Min: 0, Max: 10})
	if err != nil {
		t.Fatal(err)
	}
	tn.SetQuantization(3)

	values, ok := tn.QuantizedValues()
	if !ok {
		t.Fatal("expected a finite quantized sequence")
	}
	want := []int64{0, 3, 6, 9}
	if len(values) != len(want) {
		t.Fatalf("got %d values, want %d: %v", len(values), len(want), values)
	}
	for i, w := range want {
		got, err := values[i].Int64()
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("values[%d] = %d, want %d", i, got, w)
		}
	}

	if got := tn.Cardinality(); got != 4 {
		t.Errorf("Cardinality() = %d, want 4", got)
	}

	err = tn.Assign(IntValue(4))
	if k, ok := tunerr.KindOf(err); !ok || k != tunerr.KindInvalidValue {
		t.Fatalf("assigning off-grid value 4: got kind %v, want InvalidValue", k)
	}
	if got, _ := tn.Current().Int64(); got != 6 {
		t.Fatalf("failed assignment must not change Current: got %d, want 6", got)
	}
}

func TestUnquantizedRealCardinalityUnbounded(t *testing.T) {
	tn, err := NewNumeric("r", KindReal, FloatValue(0.5), Range{Min: 0, Max: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := tn.Cardinality(); got != Unbounded {
		t.Errorf("Cardinality() = %d, want Unbounded", got)
	}
	if _, ok := tn.QuantizedValues(); ok {
		t.Error("expected QuantizedValues to report ok=false for unquantized real")
	}
}

func TestSpecialValueIsValid(t *testing.T) {
	tn, err := NewNumeric("x", KindInteger, IntValue(5), Range{Min: 0, Max: 10})
	if err != nil {
		t.Fatal(err)
	}
	tn.SetSpecialValues([]SpecialValue{{Value: IntValue(-1), Weight: 0.1}})
	if err := tn.Assign(IntValue(-1)); err != nil {
		t.Fatalf("expected special value -1 to be a valid assignment: %v", err)
	}
}

func TestLabelWeights(t *testing.T) {
	tn, err := NewCategorical("mode", StringValue("fast"), []string{"fast", "slow", "medium"})
	if err != nil {
		t.Fatal(err)
	}
	if tn.LabelWeights() != nil {
		t.Fatal("expected nil label weights before SetLabelWeights")
	}
	if err := tn.SetLabelWeights([]float64{0.5, 0.3, 0.2}); err != nil {
		t.Fatal(err)
	}
	if got := tn.LabelWeights(); len(got) != 3 || got[0] != 0.5 || got[2] != 0.2 {
		t.Fatalf("unexpected label weights: %v", got)
	}
	if err := tn.SetLabelWeights([]float64{1, 2}); err == nil {
		t.Fatal("expected error for mismatched weight count")
	}

	numeric, _ := NewNumeric("x", KindInteger, IntValue(5), Range{Min: 0, Max: 10})
	if err := numeric.SetLabelWeights([]float64{1}); err == nil {
		t.Fatal("expected error setting label weights on a non-categorical tunable")
	}

	c := tn.Copy()
	if got := c.LabelWeights(); len(got) != 3 || got[1] != 0.3 {
		t.Fatalf("expected Copy to carry label weights, got %v", got)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	tn, err := NewNumeric("x", KindInteger, IntValue(5), Range{Min: 0, Max: 10})
	if err != nil {
		t.Fatal(err)
	}
	c := tn.Copy()
	if err := c.Assign(IntValue(7)); err != nil {
		t.Fatal(err)
	}
	if tn.Current().Equal(c.Current()) {
		t.Fatal("copy must not share mutable state with original")
	}
	c.Range().Max = 999
	if tn.Range().Max == 999 {
		t.Fatal("copy's range must not alias the original's range")
	}
}

func TestLess(t *testing.T) {
	a, _ := NewNumeric("a", KindInteger, IntValue(1), Range{Min: 0, Max: 10})
	b, _ := NewNumeric("b", KindInteger, IntValue(1), Range{Min: 0, Max: 10})
	if !a.Less(b) {
		t.Error("expected a < b by name")
	}
	if b.Less(a) {
		t.Error("expected b not < a")
	}
}
