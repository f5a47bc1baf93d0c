// Package notifications provides mechanisms for announcing releases.
// It renders a release into a webhook message, posts it, and optionally forwards a
// plain-text copy to secondary services through Shoutrrr.
//
// Key components:
//   - Message Model: Webhook payload and embed types (model.go).
//   - Rendering: Release templates and plain-text flattening (release.go, common_templates.go).
//   - JSON Encoding: Payload marshaling (json.go).
//   - Webhook Delivery: Single POST with opt-in retries (webhook.go).
//   - Shoutrrr Integration: Secondary service fan-out (shoutrrr.go, notifier.go).
//
// Usage example:
//
//	msg, err := notifications.NewReleaseMessage(release, notifications.DefaultTemplates())
//	sender := notifications.NewWebhookSender(url, 0, 0, 0)
//	report, err := sender.Send(ctx, msg)
//
// Logging is handled through logrus.
package notifications
