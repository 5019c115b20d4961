package storegateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/novaplan/premium/internal/premium/domain"
)

const (
	// DefaultExchange is the topic exchange the billing gateway publishes
	// purchase events to.
	DefaultExchange = "billing.events"
	// DefaultQueue is the queue this process consumes from.
	DefaultQueue = "premium.purchases"

	routingPurchaseUpdated = "purchase.updated"
	routingPurchaseError   = "purchase.error"
)

// purchaseEvent is the wire shape of a purchase-updated message.
type purchaseEvent struct {
	ProductID    string `json:"product_id"`
	Acknowledged bool   `json:"acknowledged"`
	AutoRenewing bool   `json:"auto_renewing"`
	Token        string `json:"token"`
}

// purchaseErrorEvent is the wire shape of a purchase-error message.
type purchaseErrorEvent struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// EventFeedConfig configures the AMQP purchase-event feed.
type EventFeedConfig struct {
	URL      string
	Exchange string
	Queue    string
	Logger   *slog.Logger
}

// EventFeed consumes live purchase events from the billing gateway's AMQP
// exchange and dispatches them to registered listeners.
type EventFeed struct {
	cfg    EventFeedConfig
	logger *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	running bool

	updates listenerSet[domain.Purchase]
	errs    listenerSet[domain.PurchaseError]
}

// NewEventFeed creates a feed. Nothing is dialed until Start.
func NewEventFeed(cfg EventFeedConfig) *EventFeed {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	return &EventFeed{cfg: cfg, logger: cfg.Logger}
}

// Start connects to the broker, binds the purchase routing keys and begins
// consuming in a background goroutine.
func (f *EventFeed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return nil
	}

	conn, err := amqp.Dial(f.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		f.cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		f.cfg.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range []string{routingPurchaseUpdated, routingPurchaseError} {
		if err := ch.QueueBind(f.cfg.Queue, key, f.cfg.Exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("bind queue for %s: %w", key, err)
		}
	}

	deliveries, err := ch.Consume(
		f.cfg.Queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("start consuming: %w", err)
	}

	f.conn = conn
	f.channel = ch
	f.running = true

	f.logger.Info("purchase event feed connected",
		"queue", f.cfg.Queue,
		"exchange", f.cfg.Exchange,
	)

	go f.consume(ctx, deliveries)
	return nil
}

func (f *EventFeed) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			f.handle(ctx, d)
		}
	}
}

func (f *EventFeed) handle(ctx context.Context, d amqp.Delivery) {
	switch d.RoutingKey {
	case routingPurchaseUpdated:
		var ev purchaseEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			f.logger.Error("failed to decode purchase event", "error", err)
			_ = d.Nack(false, false)
			return
		}
		f.updates.dispatch(ctx, domain.Purchase{
			ProductID:    ev.ProductID,
			Acknowledged: ev.Acknowledged,
			AutoRenewing: ev.AutoRenewing,
			Token:        ev.Token,
		})
	case routingPurchaseError:
		var ev purchaseErrorEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			f.logger.Error("failed to decode purchase error event", "error", err)
			_ = d.Nack(false, false)
			return
		}
		f.errs.dispatch(ctx, domain.PurchaseError{
			ProductID: ev.ProductID,
			Code:      ev.Code,
			Message:   ev.Message,
		})
	default:
		f.logger.Warn("unexpected routing key", "routing_key", d.RoutingKey)
	}
	_ = d.Ack(false)
}

// OnPurchaseUpdated registers a live purchase handler.
func (f *EventFeed) OnPurchaseUpdated(handler func(ctx context.Context, p domain.Purchase)) (domain.Subscription, error) {
	return f.updates.add(handler), nil
}

// OnPurchaseError registers a purchase error handler.
func (f *EventFeed) OnPurchaseError(handler func(ctx context.Context, e domain.PurchaseError)) (domain.Subscription, error) {
	return f.errs.add(handler), nil
}

// Close shuts the channel and connection down. Safe to call repeatedly.
func (f *EventFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return nil
	}
	f.running = false
	if f.channel != nil {
		_ = f.channel.Close()
	}
	if f.conn != nil {
		_ = f.conn.Close()
	}
	return nil
}
