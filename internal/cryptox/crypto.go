// Package cryptox hashes and verifies account passwords.
//
// Digests are bcrypt strings ("$2a$10$..."), which carry their own salt and
// cost, so nothing besides the digest has to be stored. bcrypt is CPU-bound;
// a weighted semaphore caps how many hash/verify calls run at once so that a
// burst of logins cannot starve unrelated requests of CPU.
package cryptox

import (
	"context"
	"fmt"
	"runtime"

	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// Hasher is safe for concurrent use.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher returns a Hasher using the given bcrypt cost and allowing at most
// concurrency simultaneous operations. Zero values select bcrypt.DefaultCost
// and runtime.NumCPU().
func NewHasher(cost, concurrency int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(concurrency))}, nil
}

// Hash returns a salted bcrypt digest of plaintext. Two calls with the same
// input return different digests.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password longer than %d bytes", common.ErrValidation, MaxPasswordBytes)
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed or foreign
// digest, or a cancelled ctx, yields false.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
