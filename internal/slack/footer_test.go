package slack

import (
	"testing"
	"time"
)

func TestFooterHashDeterministic(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := FooterHash("Success", "done", at, 100)
	b := FooterHash("Success", "done", at.Add(900*time.Millisecond), 100)
	if a != b {
		t.Fatalf("expected same hash within one second, got %s and %s", a, b)
	}
	if len(a) != 2*footerHashBytes {
		t.Fatalf("hash length = %d, want %d", len(a), 2*footerHashBytes)
	}
}

func TestFooterHashChangesWithInputs(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	base := FooterHash("Success", "done", at, 100)
	others := []string{
		FooterHash("Error", "done", at, 100),
		FooterHash("Success", "failed", at, 100),
		FooterHash("Success", "done", at.Add(time.Second), 100),
		FooterHash("Success", "done", at, 101),
		FooterHash("Successdone", "", at, 100),
	}
	for i, h := range others {
		if h == base {
			t.Fatalf("variant %d collided with base hash %s", i, base)
		}
	}
}

func TestFooterHashFewCollisions(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	seen := make(map[string]struct{}, 5000)
	for i := 0; i < 5000; i++ {
		seen[FooterHash("job", string(rune('a'+i%26))+time.Duration(i).String(), at, i)] = struct{}{}
	}
	if len(seen) != 5000 {
		t.Fatalf("expected 5000 distinct hashes, got %d", len(seen))
	}
}
