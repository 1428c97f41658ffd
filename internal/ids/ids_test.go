package ids

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator(t *testing.T) {
	var g Generator = UUID{}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := g.NewID()
		parsed, err := uuid.Parse(id)
		if err != nil {
			t.Fatalf("not a uuid: %q (%v)", id, err)
		}
		if parsed.Version() != 4 {
			t.Fatalf("expected version 4, got %d", parsed.Version())
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence("tx")
	for _, want := range []string{"tx-1", "tx-2", "tx-3"} {
		if got := s.NewID(); got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}
