package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// DefaultDialTimeout bounds connecting to the broker, handshake included.
const DefaultDialTimeout = 2 * time.Second

// DefaultRetryAfter is how long a failed dial keeps the publisher from
// dialing again.
const DefaultRetryAfter = 5 * time.Second

// ErrBrokerUnavailable is returned without dialing while the publisher
// waits out a recent connection failure.
var ErrBrokerUnavailable = errors.New("broker unavailable")

// Publisher sends reservation events to a durable RabbitMQ queue.  The
// connection is opened lazily and reopened after a failure, so a broker
// outage never blocks startup.  A dial never outlives DialTimeout or the
// deadline of the publishing context, whichever comes first, and after a
// failed dial publishes fail fast for RetryAfter.
type Publisher struct {
    url   string
    queue string
    log   *zap.Logger

    DialTimeout time.Duration
    RetryAfter  time.Duration

    mu        sync.Mutex
    conn      *amqp.Connection
    ch        *amqp.Channel
    downUntil time.Time
}

// NewPublisher returns a Publisher for the given broker URL and queue.
func NewPublisher(url, queue string, log *zap.Logger) *Publisher {
    if log == nil {
        log = zap.NewNop()
    }
    return &Publisher{
        url:         url,
        queue:       queue,
        log:         log,
        DialTimeout: DefaultDialTimeout,
        RetryAfter:  DefaultRetryAfter,
    }
}

// Publish marshals ev and publishes it as a persistent message.  Errors
// are returned so the caller can decide to ignore them.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    p.mu.Lock()
    defer p.mu.Unlock()

    ch, err := p.channel(ctx)
    if err != nil {
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Type:         string(ev.Type),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
        p.reset()
        return fmt.Errorf("publish: %w", err)
    }
    return nil
}

// channel returns an open channel, dialing and declaring the queue when
// needed.  Callers hold p.mu.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    p.reset()
    if time.Now().Before(p.downUntil) {
        return nil, ErrBrokerUnavailable
    }
    timeout := p.dialTimeout(ctx)
    if timeout <= 0 {
        return nil, fmt.Errorf("dial broker: %w", context.DeadlineExceeded)
    }
    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(timeout),
    })
    if err != nil {
        p.downUntil = time.Now().Add(p.RetryAfter)
        return nil, fmt.Errorf("dial broker: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, fmt.Errorf("channel open: %w", err)
    }
    if err := declare(ch, p.queue); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, err
    }
    p.conn, p.ch = conn, ch
    p.log.Info("event publisher connected", zap.String("queue", p.queue))
    return ch, nil
}

func (p *Publisher) dialTimeout(ctx context.Context) time.Duration {
    timeout := p.DialTimeout
    if timeout <= 0 {
        timeout = DefaultDialTimeout
    }
    if deadline, ok := ctx.Deadline(); ok {
        if left := time.Until(deadline); left < timeout {
            timeout = left
        }
    }
    return timeout
}

func (p *Publisher) reset() {
    if p.ch != nil {
        _ = p.ch.Close()
    }
    if p.conn != nil {
        _ = p.conn.Close()
    }
    p.ch, p.conn = nil, nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.reset()
    return nil
}

// declare makes sure the durable queue exists.  It is idempotent.
func declare(ch *amqp.Channel, name string) error {
    if _, err := ch.QueueDeclare(
        name,  // name
        true,  // durable
        false, // autoDelete
        false, // exclusive
        false, // noWait
        nil,   // args
    ); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    return nil
}

// Nop discards every event.  It stands in when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, ReservationEvent) error { return nil }
