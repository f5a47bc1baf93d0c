package types

// Notifier defines the common interface for secondary notification services.
type Notifier interface {
	Send(title, message string) error // Deliver a plain-text rendition of the announcement.
	GetNames() []string               // Service names.
	GetURLs() []string                // Service URLs.
}
