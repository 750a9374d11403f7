package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exporter builds a CSV of one user's reservation history and returns
// the path it was written to.  Implemented by the export service.
type Exporter interface {
	Export(ctx context.Context, userID uint64) (string, error)
}

// StartNotificationConsumer connects to RabbitMQ, declares the durable
// notification queue and starts consuming.  Each message is appended to
// logs/notifications.log in a single-line, human-friendly format; this
// stands in for a real delivery channel (mail, chat webhook).  The
// function runs a reconnect loop with exponential backoff and never
// returns under normal operation; processing errors are logged and the
// offending message rejected so the server keeps running.
func StartNotificationConsumer() error {
	return runConsumer(notificationQueueName, handleNotification)
}

// StartExportConsumer consumes export requests and hands them to the
// exporter.  Runs the same reconnect loop as the notification consumer.
func StartExportConsumer(exp Exporter) error {
	return runConsumer(exportQueueName, func(body []byte) error {
		var req ExportRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		path, err := exp.Export(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("export for user %d: %w", req.UserID, err)
		}
		log.Printf("export-consumer: wrote %s for user %d", path, req.UserID)
		return nil
	})
}

func runConsumer(queueName string, handle func([]byte) error) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("%s-consumer: failed to dial broker: %v; retrying in %s", queueName, err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, queueName, handle); err != nil {
			log.Printf("%s-consumer: consume loop ended: %v; reconnecting", queueName, err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, queueName string, handle func([]byte) error) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("%s-consumer: set QoS failed: %v", queueName, err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handle(d.Body); err != nil {
			log.Printf("%s-consumer: handle message failed: %v", queueName, err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleNotification(body []byte) error {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "notifications.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	cost := "-"
	if n.Cost != nil {
		cost = fmt.Sprintf("%.2f", *n.Cost)
	}
	line := fmt.Sprintf("[%s] %s | user_id=%d | reservation_id=%d | lot_id=%d | spot_id=%d | cost=%s | %s\n",
		n.OccurredAt, n.Kind, n.UserID, n.ReservationID, n.LotID, n.SpotID, cost, n.Message)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
