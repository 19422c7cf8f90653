package codec_test

import (
	"errors"
	"testing"

	"patchforge/pkg/patchforge/codec"
	"patchforge/pkg/patchforge/codec/synth1"
)

func TestLookupRegisteredFamily(t *testing.T) {
	s, err := codec.Lookup(synth1.FamilyTag)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if s.Family() != synth1.FamilyTag {
		t.Errorf("family = %q, want %q", s.Family(), synth1.FamilyTag)
	}
}

func TestLookupUnknownFamily(t *testing.T) {
	_, err := codec.Lookup("dx7")
	if !errors.Is(err, codec.ErrUnknownFamily) {
		t.Errorf("err = %v, want ErrUnknownFamily", err)
	}
}

func TestFamilies(t *testing.T) {
	found := false
	for _, f := range codec.Families() {
		if f == synth1.FamilyTag {
			found = true
		}
	}
	if !found {
		t.Errorf("Families() = %v, missing %q", codec.Families(), synth1.FamilyTag)
	}
}
