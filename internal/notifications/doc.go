// Package notifications delivers roster events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-category toggles let a team silence review prompts while
// keeping critical-urgency alerts on.
//
// Extend this package if you need alternative transports; callers depend only
// on the Service interface.
package notifications
