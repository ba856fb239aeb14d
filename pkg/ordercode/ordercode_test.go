package ordercode

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
)

func neverExists(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func TestGenerate_Format(t *testing.T) {
	g := NewOrderGenerator()

	code, err := g.Generate(context.Background(), neverExists)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	pattern := regexp.MustCompile(`^DUY[A-Z0-9]{8}$`)
	if !pattern.MatchString(code) {
		t.Errorf("code %q does not match %s", code, pattern)
	}
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	g := NewOrderGenerator()

	var calls int
	exists := func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls < 3, nil // first two candidates collide
	}

	code, err := g.Generate(context.Background(), exists)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code == "" {
		t.Fatal("expected a code after retries")
	}
	if calls != 3 {
		t.Errorf("expected 3 existence checks, got %d", calls)
	}
}

func TestGenerate_Exhausted(t *testing.T) {
	g := &Generator{Prefix: "DUY", MaxAttempts: 5}

	var calls int
	alwaysTaken := func(ctx context.Context, code string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := g.Generate(context.Background(), alwaysTaken)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 attempts, got %d", calls)
	}
}

func TestGenerate_PropagatesStoreError(t *testing.T) {
	g := NewOrderGenerator()
	boom := errors.New("mongo down")

	_, err := g.Generate(context.Background(), func(ctx context.Context, code string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

// Codes handed out concurrently against a shared reservation set must never
// repeat.
func TestGenerate_UniqueUnderConcurrency(t *testing.T) {
	g := NewOrderGenerator()

	var mu sync.Mutex
	issued := make(map[string]bool)
	exists := func(ctx context.Context, code string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		return issued[code], nil
	}

	const n = 200
	var wg sync.WaitGroup
	codes := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := g.Generate(context.Background(), exists)
			if err != nil {
				t.Errorf("Generate: %v", err)
				return
			}
			mu.Lock()
			if issued[code] {
				// The generator itself cannot reserve; the caller does.
				// A duplicate here means the random space misbehaved.
				t.Errorf("duplicate code issued: %s", code)
			}
			issued[code] = true
			mu.Unlock()
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool)
	for code := range codes {
		if seen[code] {
			t.Fatalf("duplicate code %s", code)
		}
		seen[code] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct codes, got %d", n, len(seen))
	}
}

func TestWarrantyGenerator_MixedCase(t *testing.T) {
	g := NewWarrantyGenerator()

	code, err := g.Generate(context.Background(), neverExists)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	pattern := regexp.MustCompile(`^[A-Za-z0-9]{8}$`)
	if !pattern.MatchString(code) {
		t.Errorf("warranty code %q does not match %s", code, pattern)
	}
}
