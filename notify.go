package main

// Notifier hears about failed passes. A nil notifier is allowed and means
// notifications are disabled.
type Notifier interface {
	NotifyPassFailure(cfg AppConfig, key string, passErr error) error
}
