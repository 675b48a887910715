package mail

import "context"

// Gateway sends application mail (registration confirmations, reset tokens).
// Ordinary delivery failures (provider rejection, rate limiting) are reported
// through the boolean result, never as an error or a panic; callers decide
// whether a failed send is fatal to their operation.
type Gateway interface {
	// Send delivers a message and blocks until the attempt finishes.
	// An empty from falls back to the gateway's configured sender.
	Send(ctx context.Context, subject, body, to, from string, asHTML bool) bool

	// SendAsync delivers without blocking the caller. The returned channel
	// receives the same success indicator Send would have returned.
	SendAsync(ctx context.Context, subject, body, to, from string, asHTML bool) <-chan bool
}
