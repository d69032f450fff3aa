// Package service publishes activity events to RabbitMQ and records the
// matching metrics.  Publishing never fails a request: errors are logged
// and counted.
package service

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    "github.com/labstack/gommon/log"
    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/studentdev-hub/internal/metrics"
    "github.com/iliyamo/studentdev-hub/internal/queue"
)

// Publisher delivers activity events somewhere.
type Publisher interface {
    Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// AMQPPublisher dials the broker per publish.  Activity is low volume so
// there is no connection to keep healthy between events.
type AMQPPublisher struct {
    URL string
}

// Publish sends ev to the activity queue as a persistent JSON message.
func (p AMQPPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        return errors.Wrap(err, "rabbitmq: dial")
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "rabbitmq: channel open")
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        queue.ActivityQueue, // name
        true,                // durable
        false,               // autoDelete
        false,               // exclusive
        false,               // noWait
        nil,                 // args
    ); err != nil {
        return errors.Wrap(err, "rabbitmq: queue declare")
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return errors.Wrap(err, "rabbitmq: marshal event")
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    // default exchange, routing key = queue name
    return errors.Wrap(ch.PublishWithContext(ctx, "", queue.ActivityQueue, false, false, pub), "rabbitmq: publish")
}

// Nop drops every event.  Used when EVENTS_ENABLED is false.
type Nop struct{}

func (Nop) Publish(context.Context, queue.ActivityEvent) error { return nil }

// Recorder fans an applied mutation out to the broker.  Publishing runs
// in the background with its own timeout so a slow broker never holds a
// request.  Close waits for publishes still in flight.
type Recorder struct {
    Pub     Publisher
    Timeout time.Duration
    Now     func() time.Time

    // inline makes Record block until publishing is done; tests set it.
    inline bool

    mu       sync.Mutex
    closed   bool           // set by Close, later events are dropped
    inFlight sync.WaitGroup // background publishes not yet finished
}

func NewRecorder(pub Publisher) *Recorder {
    if pub == nil {
        pub = Nop{}
    }
    return &Recorder{Pub: pub, Timeout: 5 * time.Second, Now: time.Now}
}

// Record stamps ev with the current time and publishes it.  Events
// recorded after Close are dropped and counted.
func (r *Recorder) Record(ev queue.ActivityEvent) {
    ev.OccurredAt = r.Now().UTC().Format(time.RFC3339)
    publish := func() {
        ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
        defer cancel()
        if err := r.Pub.Publish(ctx, ev); err != nil {
            metrics.EventsPublished.WithLabelValues("error").Inc()
            log.Warnf("activity: publish %s %s: %v", ev.Kind, ev.Op, err)
            return
        }
        metrics.EventsPublished.WithLabelValues("ok").Inc()
    }

    r.mu.Lock()
    if r.closed {
        r.mu.Unlock()
        metrics.EventsPublished.WithLabelValues("dropped").Inc()
        log.Warnf("activity: recorder closed, dropping %s %s", ev.Kind, ev.Op)
        return
    }
    r.inFlight.Add(1) // under mu so Close cannot start waiting in between
    r.mu.Unlock()

    if r.inline {
        defer r.inFlight.Done()
        publish()
        return
    }
    go func() {
        defer r.inFlight.Done()
        publish()
    }()
}

// Close stops accepting events and waits for in-flight publishes until
// ctx is done.  It returns ctx.Err() when publishes were still running.
// Calling Close again only waits.
func (r *Recorder) Close(ctx context.Context) error {
    r.mu.Lock()
    r.closed = true
    r.mu.Unlock()

    done := make(chan struct{})
    go func() {
        r.inFlight.Wait()
        close(done)
    }()
    select {
    case <-done:
        return nil
    case <-ctx.Done():
        return errors.Wrap(ctx.Err(), "activity: waiting for publishes")
    }
}
