package service

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type options struct {
	now          func() time.Time
	hashCost     int
	tempPassword func() (string, error)
}

// Option tunes a manager at construction time.
type Option func(*options)

// WithClock replaces time.Now, mainly so suspension expiry can be tested.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHashCost sets the bcrypt cost used for new password hashes.
// Values outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func WithHashCost(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

// WithTempPasswordGenerator replaces the random temp password source.
func WithTempPasswordGenerator(gen func() (string, error)) Option {
	return func(o *options) { o.tempPassword = gen }
}

func buildOptions(opts []Option) options {
	o := options{
		now:          func() time.Time { return time.Now().UTC() },
		hashCost:     bcrypt.DefaultCost,
		tempPassword: generateTempPassword,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hashCost < bcrypt.MinCost || o.hashCost > bcrypt.MaxCost {
		o.hashCost = bcrypt.DefaultCost
	}
	return o
}
