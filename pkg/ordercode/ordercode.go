// Package ordercode produces the short public codes printed on orders and
// warranty claims. Codes are random, checked against the store before use,
// and generation gives up after a fixed number of collisions instead of
// looping forever.
package ordercode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

// ErrExhausted is returned when every attempt collided with an existing code.
var ErrExhausted = errors.New("ordercode: attempts exhausted without a unique code")

const (
	defaultCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	defaultLength   = 8
	defaultAttempts = 10
)

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

type Generator struct {
	Prefix      string
	Length      int
	Charset     string
	MaxAttempts int
}

// NewOrderGenerator returns the generator for public order codes,
// e.g. DUY8F9K2LQ0.
func NewOrderGenerator() *Generator {
	return &Generator{
		Prefix:      "DUY",
		Length:      defaultLength,
		Charset:     defaultCharset,
		MaxAttempts: defaultAttempts,
	}
}

// NewWarrantyGenerator returns the generator for warranty codes, which have
// no prefix and a mixed-case charset.
func NewWarrantyGenerator() *Generator {
	return &Generator{
		Length:      defaultLength,
		Charset:     defaultCharset + "abcdefghijklmnopqrstuvwxyz",
		MaxAttempts: defaultAttempts,
	}
}

// Generate returns a code for which exists reported false. It retries on
// collision up to MaxAttempts times and returns ErrExhausted after that.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	for i := 0; i < attempts; i++ {
		code, err := g.random()
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return "", ErrExhausted
}

func (g *Generator) random() (string, error) {
	length := g.Length
	if length <= 0 {
		length = defaultLength
	}
	charset := g.Charset
	if charset == "" {
		charset = defaultCharset
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("ordercode: read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = charset[int(b)%len(charset)]
	}

	return g.Prefix + string(buf), nil
}
