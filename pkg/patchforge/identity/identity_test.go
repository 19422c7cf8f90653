package identity

import "testing"

func TestComputeEquality(t *testing.T) {
	a := []int{1, 2, 3, 45057}
	b := []int{1, 2, 3, 45057}
	c := []int{1, 2, 3, 45058}

	if Compute(a) != Compute(b) {
		t.Error("identical parameter sets hash to different identities")
	}
	if Compute(a) == Compute(c) {
		t.Error("distinct parameter sets hash to the same identity")
	}
}

func TestComputeOrderSensitive(t *testing.T) {
	if Compute([]int{1, 2}) == Compute([]int{2, 1}) {
		t.Error("identity ignores parameter order")
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	in := []int{0, -1, 127, 45057, 1 << 20}
	out, ok := FromCanonical(Canonical(in))
	if !ok {
		t.Fatal("FromCanonical rejected canonical bytes")
	}
	if len(out) != len(in) {
		t.Fatalf("got %d values, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("value %d = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestFromCanonicalRejectsRaggedInput(t *testing.T) {
	if _, ok := FromCanonical([]byte{1, 2, 3}); ok {
		t.Error("accepted input not a multiple of four bytes")
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	id := Compute([]int{9, 9, 9})
	back, ok := Parse(id.String())
	if !ok {
		t.Fatalf("Parse(%q) failed", id.String())
	}
	if back != id {
		t.Errorf("Parse(%q) = %v, want %v", id.String(), back, id)
	}

	if _, ok := Parse("not-hex"); ok {
		t.Error("accepted malformed identity string")
	}
}
