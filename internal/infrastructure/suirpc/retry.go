package suirpc

import "time"

// RetryPolicy is the bounded retry-with-backoff policy applied to fullnode
// calls. Expressed as data rather than inline control flow so it can be
// tuned from config and tested on its own.
type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

// DefaultRetryPolicy mirrors the fullnode call policy used in production:
// three attempts, 1s/2s backoff between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseBackoff: time.Second}
}

// Backoff returns the delay before the given retry. attempt is zero-based:
// Backoff(0) is the delay after the first failure.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseBackoff
	for i := 0; i < attempt; i++ {
		d *= 2
	}
	return d
}
