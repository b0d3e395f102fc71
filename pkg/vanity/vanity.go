// Package vanity searches for mint keypairs whose base58 address matches a
// prefix and/or suffix.
package vanity

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ErrImpossiblePattern is returned for patterns containing characters base58 never emits.
var ErrImpossiblePattern = errors.New("pattern contains non-base58 characters")

// Result represents a vanity address search result.
type Result struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
	Attempts   uint64
	Duration   time.Duration
}

// Options configures vanity address generation.
type Options struct {
	Prefix          string
	Suffix          string
	Workers         int           // default: NumCPU
	Timeout         time.Duration // 0 = bounded only by ctx
	CaseInsensitive bool
}

func (o Options) matcher() func(string) bool {
	prefix, suffix := o.Prefix, o.Suffix
	if o.CaseInsensitive {
		prefix, suffix = strings.ToLower(prefix), strings.ToLower(suffix)
	}
	return func(addr string) bool {
		if o.CaseInsensitive {
			addr = strings.ToLower(addr)
		}
		return strings.HasPrefix(addr, prefix) && strings.HasSuffix(addr, suffix)
	}
}

// ValidatePattern rejects patterns that no address can match.
func ValidatePattern(pattern string) error {
	for _, r := range pattern {
		if !strings.ContainsRune(base58Alphabet, r) {
			return fmt.Errorf("%w: %q", ErrImpossiblePattern, r)
		}
	}
	return nil
}

// Generate runs Workers goroutines drawing random keypairs until one matches,
// the timeout passes, or ctx is cancelled.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if opts.Prefix == "" && opts.Suffix == "" {
		return nil, fmt.Errorf("prefix or suffix is required")
	}
	if !opts.CaseInsensitive {
		if err := ValidatePattern(opts.Prefix + opts.Suffix); err != nil {
			return nil, err
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	parent := ctx
	if opts.Timeout > 0 {
		var stop context.CancelFunc
		parent, stop = context.WithTimeout(ctx, opts.Timeout)
		defer stop()
	}
	searchCtx, cancel := context.WithCancel(parent)
	defer cancel()

	match := opts.matcher()
	var (
		attempts atomic.Uint64
		once     sync.Once
		result   *Result
		wg       sync.WaitGroup
	)
	start := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for searchCtx.Err() == nil {
				key, err := solana.NewRandomPrivateKey()
				if err != nil {
					continue
				}
				n := attempts.Add(1)
				if !match(key.PublicKey().String()) {
					continue
				}
				once.Do(func() {
					result = &Result{
						PrivateKey: key,
						PublicKey:  key.PublicKey(),
						Attempts:   n,
						Duration:   time.Since(start),
					}
					cancel()
				})
				return
			}
		}()
	}
	wg.Wait()

	if result != nil {
		return result, nil
	}
	return nil, fmt.Errorf("search stopped after %d attempts: %w", attempts.Load(), context.Cause(searchCtx))
}

// EstimateDifficulty is the expected number of attempts for a case-sensitive
// pattern of the given total length: 58^n.
func EstimateDifficulty(patternLen int) uint64 {
	result := uint64(1)
	for i := 0; i < patternLen; i++ {
		result *= 58
	}
	return result
}
