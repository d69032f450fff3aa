package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/labstack/gommon/log"
    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"
)

// StartActivityConsumer connects to RabbitMQ, declares the activity queue
// (durable) and appends every event to <logDir>/activity.log as a single
// line.  It reconnects with backoff until ctx is cancelled, which is the
// only way it returns.
func StartActivityConsumer(ctx context.Context, url, logDir string) error {
    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warnf("activity-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, logDir)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warnf("activity-consumer: consume loop ended: %v; reconnecting", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string) error {
    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "channel open")
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warnf("activity-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(ActivityQueue, true, false, false, false, nil); err != nil {
        return errors.Wrap(err, "queue declare")
    }
    msgs, err := ch.Consume(ActivityQueue, "", false, false, false, false, nil)
    if err != nil {
        return errors.Wrap(err, "queue consume")
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := HandleMessage(d.Body, logDir); err != nil {
                log.Errorf("activity-consumer: handle message failed: %v", err)
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// HandleMessage decodes one event and appends its audit line.
func HandleMessage(body []byte, logDir string) error {
    var ev ActivityEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return errors.Wrap(err, "unmarshal")
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return errors.Wrap(err, "mkdir logs")
    }
    f, err := os.OpenFile(filepath.Join(logDir, "activity.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return errors.Wrap(err, "open log file")
    }
    defer f.Close()

    actor := ev.Actor
    if actor == "" {
        actor = "guest"
    }
    line := fmt.Sprintf("[%s] %s %s | scope=%q | id=%s | actor=%s | role=%s\n",
        ev.OccurredAt, ev.Kind, ev.Op, ev.Scope, ev.ItemID, actor, ev.Role)
    if _, err := f.WriteString(line); err != nil {
        return errors.Wrap(err, "write log")
    }
    return nil
}
