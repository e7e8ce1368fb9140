package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/mooreli104/farmtwin/internal/config"
	"github.com/mooreli104/farmtwin/internal/database"
	"github.com/mooreli104/farmtwin/internal/domain"
	"github.com/mooreli104/farmtwin/internal/repository"
	"github.com/mooreli104/farmtwin/internal/service"
)

const (
	flushInterval = 30 * time.Second
	flushBatch    = 50
)

// batcher buffers readings and writes them to sensor_history in batches.
type batcher struct {
	mu      sync.Mutex
	pending []domain.Reading
	repos   *repository.Repos
}

func (b *batcher) add(r domain.Reading) {
	b.mu.Lock()
	b.pending = append(b.pending, r)
	full := len(b.pending) >= flushBatch
	b.mu.Unlock()
	if full {
		b.flush()
	}
}

func (b *batcher) flush() {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	for _, r := range batch {
		if err := b.repos.InsertReading(r); err != nil {
			log.Error().Err(err).Msg("history insert failed")
		}
	}
	if len(batch) > 0 {
		log.Debug().Int("count", len(batch)).Msg("history batch flushed")
	}
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	b := &batcher{repos: repository.New(db)}

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		reading, err := service.DecodeStreamPayload(msg.Payload())
		if err != nil {
			log.Error().Err(err).Msg("dropped malformed payload")
			return
		}
		if reading.Timestamp.IsZero() {
			reading.Timestamp = time.Now().UTC()
		}
		if reading.GreenhouseID == "" {
			reading.GreenhouseID = config.GreenhouseID()
		}
		b.add(reading)
	}

	if token := client.Subscribe(config.MQTTTopic(), 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Msg("ingestor running; Ctrl+C to stop")
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.flush()
		case <-sig:
			b.flush()
			return
		}
	}
}
