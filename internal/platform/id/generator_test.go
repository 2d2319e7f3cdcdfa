package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerators_ProduceDistinctIDs(t *testing.T) {
	t.Parallel()

	generators := map[string]Generator{
		"random": NewRandomGenerator(),
		"uuid":   NewUUIDGenerator(),
	}
	for name, gen := range generators {
		first, err := gen.NewID()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		second, err := gen.NewID()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if first == "" || first == second {
			t.Fatalf("%s: expected distinct ids, got=%q and %q", name, first, second)
		}
	}
}

func TestUUIDGenerator_ParsesAsUUID(t *testing.T) {
	t.Parallel()

	value, err := NewUUIDGenerator().NewID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(value); err != nil {
		t.Fatalf("expected uuid, got=%q: %v", value, err)
	}
}
