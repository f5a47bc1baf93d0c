package types

import "time"

// DeliveryReport describes the outcome of posting a message to a webhook.
type DeliveryReport struct {
	URL        string        // Target URL the message was posted to.
	StatusCode int           // HTTP status of the last attempt, zero if no response was received.
	Attempts   int           // Number of requests issued.
	Duration   time.Duration // Wall time across all attempts.
	RequestID  string        // Value of the X-Request-Id header.
}

// Succeeded reports whether the last attempt got a 2xx response.
func (r DeliveryReport) Succeeded() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
