package domain

// GuardResult is the verdict of a protective check (circuit breaker,
// rate limiter) in front of an outbound call or inbound request.
type GuardResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Guard   string `json:"guard,omitempty"`
}
