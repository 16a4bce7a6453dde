package startlist

import (
	"errors"
	"testing"
)

func TestImportGuard(t *testing.T) {
	guard := NewImportGuard()

	if err := guard.Acquire(1); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	if err := guard.Acquire(1); !errors.Is(err, ErrImportInFlight) {
		t.Fatalf("second acquire for same meet: err = %v, want ErrImportInFlight", err)
	}

	// Other meets are unaffected.
	if err := guard.Acquire(2); err != nil {
		t.Fatalf("acquire for a different meet failed: %v", err)
	}

	guard.Release(1)
	if err := guard.Acquire(1); err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
}
