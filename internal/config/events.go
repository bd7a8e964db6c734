package config

// EventsConfig locates the broker queue that carries reservation events
// and the directory the audit consumer writes to.  An empty URL disables
// publishing.
type EventsConfig struct {
    URL      string
    Queue    string
    AuditDir string
}

// LoadEventsConfig reads RABBITMQ_URL (AMQP_URL as a fallback),
// EVENTS_QUEUE and AUDIT_LOG_DIR.
func LoadEventsConfig() EventsConfig {
    return EventsConfig{
        URL:      envStr("RABBITMQ_URL", envStr("AMQP_URL", "")),
        Queue:    envStr("EVENTS_QUEUE", "reservation.events"),
        AuditDir: envStr("AUDIT_LOG_DIR", "logs"),
    }
}
