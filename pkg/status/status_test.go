package status

import "testing"

func TestPredicates(t *testing.T) {
	cases := []struct {
		s        Status
		good     bool
		ready    bool
		terminal bool
	}{
		{Unknown, true, false, false},
		{Pending, true, false, false},
		{Ready, true, true, false},
		{Running, true, false, false},
		{Succeeded, true, true, true},
		{Failed, false, false, true},
		{Canceled, false, false, true},
		{TimedOut, false, false, true},
	}
	for _, c := range cases {
		if got := c.s.IsGood(); got != c.good {
			t.Errorf("%s.IsGood() = %v, want %v", c.s, got, c.good)
		}
		if got := c.s.IsReady(); got != c.ready {
			t.Errorf("%s.IsReady() = %v, want %v", c.s, got, c.ready)
		}
		if got := c.s.IsTerminal(); got != c.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", c.s, got, c.terminal)
		}
	}
}
