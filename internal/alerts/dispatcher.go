package alerts

import (
	"sync"
	"time"
)

// Dispatcher fans out alerts to matching webhook configurations.
type Dispatcher struct {
	configs []WebhookConfig
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher from webhook configurations.
// Returns nil if configs is empty (callers should nil-check).
func NewDispatcher(configs []WebhookConfig) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	return &Dispatcher{configs: configs}
}

// Dispatch sends the alert to all webhooks whose Events list matches its
// severity. Fires goroutines and does not block the caller.
func (d *Dispatcher) Dispatch(a Alert) {
	event := Event{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Severity:  a.Severity,
		Message:   a.Message,
		Action:    a.Action,
		Region:    a.Region,
	}
	for _, cfg := range d.configs {
		if matches(cfg.Events, a.Severity) {
			d.wg.Add(1)
			go func(cfg WebhookConfig) {
				defer d.wg.Done()
				Send(cfg, event)
			}(cfg)
		}
	}
}

// Wait blocks until all in-flight deliveries have finished. Short-lived
// callers must call it before exiting.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func matches(events []string, severity Severity) bool {
	for _, e := range events {
		if e == string(severity) {
			return true
		}
	}
	return false
}
