package mq

import (
	"fmt"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	// ExchangeVisits — события визитов (producer: raider).
	ExchangeVisits Exchange = "raider.visits"

	// ExchangeForts — события о fort'ах (producer: внешние сканеры).
	ExchangeForts Exchange = "raider.forts"
)

// Queues — имена очередей.
const (
	QueueVisitsCompleted Queue = "visits.completed"
	QueueFortsDiscovered Queue = "forts.discovered"
)

// Routing keys.
const (
	RoutingKeyCompleted  RoutingKey = "completed"
	RoutingKeyDiscovered RoutingKey = "discovered"
)

// SetupTopology объявляет exchanges, queues и bindings.
// Идемпотентно: повторные вызовы безопасны.
func SetupTopology(conn *Connection) error {
	ch := conn.Channel()
	if ch == nil {
		return fmt.Errorf("no channel available")
	}

	for _, ex := range []Exchange{ExchangeVisits, ExchangeForts} {
		err := ch.ExchangeDeclare(
			string(ex), // name
			"direct",   // type
			true,       // durable
			false,      // auto-deleted
			false,      // internal
			false,      // no-wait
			nil,        // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex, err)
		}
	}

	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueVisitsCompleted, RoutingKeyCompleted, ExchangeVisits},
		{QueueFortsDiscovered, RoutingKeyDiscovered, ExchangeForts},
	}

	for _, b := range bindings {
		_, err := ch.QueueDeclare(
			string(b.queue), // name
			true,            // durable
			false,           // delete when unused
			false,           // exclusive
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}

		err = ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}
