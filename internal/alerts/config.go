package alerts

// WebhookConfig defines a webhook alert destination.
type WebhookConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic", "slack", "pagerduty"
	Events  []string          `yaml:"events"  json:"events"` // ["critical", "warning", "info"]
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// Event is the payload sent to webhook endpoints.
type Event struct {
	Timestamp string   `json:"timestamp"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Action    string   `json:"action"`
	Region    int      `json:"region,omitempty"`
}
