package flags

import (
	"testing"

	"pgregory.net/rapid"
)

func TestDecodeFlagstringEmptyStringIsAllFalse(t *testing.T) {
	f, err := DecodeFlagstring("")
	if err != nil {
		t.Fatalf("DecodeFlagstring(\"\") error: %v", err)
	}
	for _, info := range Registry {
		if f.Get(info.Name) {
			t.Fatalf("flag %q set from an empty flagstring", info.Name)
		}
	}
}

func TestDecodeFlagstringRejectsInvalidCharacter(t *testing.T) {
	if _, err := DecodeFlagstring("BCZ"); err == nil {
		t.Fatalf("expected an error for a character outside %q", flagstringAlphabet)
	}
}

func TestDecodeFlagstringIsCaseInsensitive(t *testing.T) {
	upper, err := DecodeFlagstring("BCD")
	if err != nil {
		t.Fatalf("DecodeFlagstring(upper): %v", err)
	}
	lower, err := DecodeFlagstring("bcd")
	if err != nil {
		t.Fatalf("DecodeFlagstring(lower): %v", err)
	}
	if EncodeFlagstring(upper) != EncodeFlagstring(lower) {
		t.Fatalf("case sensitivity changed the decoded flags")
	}
}

// TestFlagstringRoundTrip checks that encoding an arbitrary set of
// flags and decoding the result yields the same non-legacy flags back,
// over many randomly generated flag sets.
func TestFlagstringRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := New()
		order := nonComplexOrder()
		chosen := make([]bool, len(order))
		for i, name := range order {
			chosen[i] = rapid.IntRange(0, 1).Draw(t, name) == 1
			f.Set(name, chosen[i])
		}

		roundTripped, err := DecodeFlagstring(EncodeFlagstring(f))
		if err != nil {
			t.Fatalf("DecodeFlagstring(EncodeFlagstring(f)): %v", err)
		}
		for i, name := range order {
			if got := roundTripped.Get(name); got != chosen[i] {
				t.Fatalf("flag %q round-tripped to %v, want %v", name, got, chosen[i])
			}
		}
	})
}

func TestValidateCompatibilityFlagsEitherWay(t *testing.T) {
	f := New()
	f.Set("force_heart_container_to_coast", true)
	if errs := f.ValidateCompatibility(); len(errs) == 0 {
		t.Fatalf("expected an error when force_heart_container_to_coast is set without shuffle_coast_item")
	}

	f.Set("shuffle_coast_item", true)
	if errs := f.ValidateCompatibility(); len(errs) != 0 {
		t.Fatalf("expected no error once shuffle_coast_item is also set, got %v", errs)
	}
}

func TestSortedNamesExcludesFalseFlags(t *testing.T) {
	f := New()
	f.Set("community_hints", true)
	f.Set("progressive_items", false)

	names := f.SortedNames()
	if len(names) != 1 || names[0] != "community_hints" {
		t.Fatalf("SortedNames() = %v, want [community_hints]", names)
	}
}

func TestLookupUnknownFlag(t *testing.T) {
	if _, ok := Lookup("not_a_real_flag"); ok {
		t.Fatalf("expected Lookup to report an unknown flag as absent")
	}
}
