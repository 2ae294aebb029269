package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	v1 "github.com/muhammadchandra19/ome/domain/event-consumer/v1"
)

// generateEvents creates a realistic stream of exchange events: a connect
// marker, a mix of market data ticks and order lifecycle events, and a
// disconnect marker at the end.
func generateEvents(count int, exchange string, symbols []string, orderCount int, startEventID int64, basePrice float64, priceSpread float64) []v1.RawExchangeEvent {
	events := make([]v1.RawExchangeEvent, 0, count+2)
	eventID := startEventID

	// Track how much of each order is still open so fills stay plausible
	remaining := make(map[int64]int64, orderCount)
	acked := make(map[int64]bool, orderCount)
	for i := 1; i <= orderCount; i++ {
		remaining[int64(i)] = int64(rand.Intn(900) + 100)
	}

	appendEvent := func(e v1.RawExchangeEvent) {
		now := time.Now()
		e.EventID = eventID
		e.Exchange = exchange
		e.EventTime = now
		e.Timestamp = now
		events = append(events, e)
		eventID++
	}

	appendEvent(v1.RawExchangeEvent{EventType: "exchange_connected"})

	for i := 0; i < count; i++ {
		// Event mix: 60% market data, 40% order lifecycle
		if rand.Float64() < 0.6 {
			symbol := symbols[rand.Intn(len(symbols))]
			price := basePrice + (rand.Float64()-0.5)*priceSpread
			price = float64(int(price*100)) / 100
			if price <= 0 {
				price = basePrice
			}

			side := "sell"
			if rand.Float64() < 0.5 {
				side = "buy"
			}

			appendEvent(v1.RawExchangeEvent{
				EventType: "market_data",
				Symbol:    symbol,
				Price:     price,
				Volume:    int64(rand.Intn(1000) + 1),
				Side:      side,
			})
			continue
		}

		orderID := int64(rand.Intn(orderCount) + 1)

		if !acked[orderID] {
			acked[orderID] = true
			appendEvent(v1.RawExchangeEvent{
				EventType: "order_ack",
				OrderID:   orderID,
			})
			continue
		}

		open := remaining[orderID]
		if open <= 0 {
			// Order is done; the engine will flag this as not applicable,
			// which is useful for exercising the warning path too
			appendEvent(v1.RawExchangeEvent{
				EventType: "order_cancel",
				OrderID:   orderID,
				Reason:    "client requested",
			})
			continue
		}

		// Occasionally cancel the remainder instead of filling
		if rand.Float64() < 0.05 {
			remaining[orderID] = 0
			appendEvent(v1.RawExchangeEvent{
				EventType: "order_cancel",
				OrderID:   orderID,
				Reason:    "client requested",
			})
			continue
		}

		fill := int64(rand.Intn(int(open))) + 1
		remaining[orderID] = open - fill
		appendEvent(v1.RawExchangeEvent{
			EventType: "order_fill",
			OrderID:   orderID,
			Quantity:  fill,
		})
	}

	appendEvent(v1.RawExchangeEvent{EventType: "exchange_disconnected"})

	return events
}

func messageKey(event v1.RawExchangeEvent) []byte {
	if event.OrderID != 0 {
		return []byte(strconv.FormatInt(event.OrderID, 10))
	}
	if event.Symbol != "" {
		return []byte(event.Symbol)
	}
	return []byte(event.Exchange)
}

func main() {
	var (
		brokers      = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic        = flag.String("topic", "exchange-events", "Kafka topic name")
		file         = flag.String("file", "", "JSON file with events (optional, generates events if not provided)")
		delay        = flag.Duration("delay", 100*time.Millisecond, "Delay between sending events")
		count        = flag.Int("count", 1000, "Number of events to generate")
		exchange     = flag.String("exchange", "NASDAQ", "Exchange name for generated events")
		symbols      = flag.String("symbols", "AAPL,GOOGL,MSFT", "Symbols for market data events (comma-separated)")
		orderCount   = flag.Int("order-count", 50, "Number of distinct orders to spread lifecycle events across")
		startEventID = flag.Int64("start-event-id", 1, "First event ID to assign")
		basePrice    = flag.Float64("base-price", 185.5, "Base price for market data events")
		priceSpread  = flag.Float64("price-spread", 20.0, "Price spread range")
	)
	flag.Parse()

	// Initialize random seed
	rand.Seed(time.Now().UnixNano())

	// Create Kafka writer
	writer := &kafka.Writer{
		Addr:         kafka.TCP(*brokers),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	// Load events
	var events []v1.RawExchangeEvent
	if *file != "" {
		// Load from file
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read file %s: %v", *file, err)
		}
		if err := json.Unmarshal(data, &events); err != nil {
			log.Fatalf("Failed to parse JSON from file: %v", err)
		}
		log.Printf("Loaded %d events from file: %s", len(events), *file)
	} else {
		// Generate events
		symbolList := strings.Split(*symbols, ",")
		log.Printf("Generating %d events...", *count)
		events = generateEvents(*count, *exchange, symbolList, *orderCount, *startEventID, *basePrice, *priceSpread)
		log.Printf("Generated %d events", len(events))
	}

	log.Printf("Sending events to Kafka broker: %s, topic: %s", *brokers, *topic)
	log.Printf("Delay between events: %v", *delay)

	// Send events
	for i, event := range events {
		// Convert event to JSON
		eventJSON, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal event %d: %v", i+1, err)
			continue
		}

		// Create Kafka message, keyed so order events land on one partition
		msg := kafka.Message{
			Key:   messageKey(event),
			Value: eventJSON,
			Time:  time.Now(),
		}

		// Send message
		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send event %d (id %d): %v", i+1, event.EventID, err)
			continue
		}

		// Log progress every 100 events or for the last event
		if (i+1)%100 == 0 || i == len(events)-1 {
			switch event.EventType {
			case "market_data":
				log.Printf("Sent event %d/%d: id %d | %s | %s %s %d @ $%.2f",
					i+1, len(events), event.EventID, event.EventType,
					event.Symbol, event.Side, event.Volume, event.Price)
			case "order_fill":
				log.Printf("Sent event %d/%d: id %d | %s | order %d | qty %d",
					i+1, len(events), event.EventID, event.EventType,
					event.OrderID, event.Quantity)
			default:
				log.Printf("Sent event %d/%d: id %d | %s | order %d",
					i+1, len(events), event.EventID, event.EventType, event.OrderID)
			}
		}

		// Wait before sending next event (except for the last one)
		if i < len(events)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Successfully sent all %d events!", len(events))

	// Print summary
	byType := make(map[string]int)
	for _, event := range events {
		byType[event.EventType]++
	}

	log.Printf("--- Summary ---")
	log.Printf("Total Events: %d", len(events))
	log.Printf("Market Data: %d", byType["market_data"])
	log.Printf("Order Acks: %d", byType["order_ack"])
	log.Printf("Order Fills: %d", byType["order_fill"])
	log.Printf("Order Cancels: %d", byType["order_cancel"])
}
