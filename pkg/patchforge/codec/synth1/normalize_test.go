package synth1

import (
	"errors"
	"testing"

	"patchforge/pkg/patchforge/codec"
)

func TestNormalizedParamsRange(t *testing.T) {
	s := New()
	params := codec.ParameterSet(DefaultParams())

	norm, err := s.NormalizedParams(params)
	if err != nil {
		t.Fatalf("NormalizedParams failed: %v", err)
	}
	if len(norm) != NumParams {
		t.Fatalf("got %d values, want %d", len(norm), NumParams)
	}
	for i, f := range norm {
		if f < 0 || f > 1 {
			t.Errorf("param %d normalizes to %f, outside [0, 1]", i, f)
		}
	}
}

func TestNormalizedParamsOffsets(t *testing.T) {
	s := New()
	params := codec.ParameterSet(DefaultParams())

	// Parameter 1 carries a -1 offset, so its minimum raw value 1 must
	// normalize to exactly zero and its maximum to exactly one.
	params[1] = 1
	norm, err := s.NormalizedParams(params)
	if err != nil {
		t.Fatalf("NormalizedParams failed: %v", err)
	}
	if norm[1] != 0 {
		t.Errorf("min of offset param = %f, want 0", norm[1])
	}

	params[1] = paramMax[1] + 1
	norm, err = s.NormalizedParams(params)
	if err != nil {
		t.Fatalf("NormalizedParams failed: %v", err)
	}
	if norm[1] != 1 {
		t.Errorf("max of offset param = %f, want 1", norm[1])
	}
}

func TestNormalizedParamsClamps(t *testing.T) {
	s := New()
	params := codec.ParameterSet(DefaultParams())
	params[0] = -50

	norm, err := s.NormalizedParams(params)
	if err != nil {
		t.Fatalf("NormalizedParams failed: %v", err)
	}
	if norm[0] != 0 {
		t.Errorf("out-of-range value normalizes to %f, want clamped 0", norm[0])
	}
}

func TestNormalizedParamsRejectsWrongLength(t *testing.T) {
	_, err := New().NormalizedParams(codec.ParameterSet{1, 2})
	if !errors.Is(err, codec.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}
