package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mooreli104/farmtwin/internal/cloud"
	"github.com/mooreli104/farmtwin/internal/config"
	"github.com/mooreli104/farmtwin/internal/database"
	"github.com/mooreli104/farmtwin/internal/domain"
	httpHandlers "github.com/mooreli104/farmtwin/internal/http"
	"github.com/mooreli104/farmtwin/internal/service"
	"github.com/mooreli104/farmtwin/internal/ws"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	hub := ws.NewHub()
	go hub.Run()

	var notifier service.Notifier
	var reports *cloud.S3Client
	if config.UseCloudServices() {
		sns, err := cloud.NewSNSClient(config.AWSRegion(), config.SNSTopicArn())
		if err != nil {
			log.Fatal().Err(err).Msg("sns client init failed")
		}
		notifier = cloud.NewAlertNotifier(sns)
		reports, err = cloud.NewS3Client(config.AWSRegion(), config.S3Bucket())
		if err != nil {
			log.Fatal().Err(err).Msg("s3 client init failed")
		}
	}

	svcs, err := service.New(db, service.Options{
		GreenhouseID:        config.GreenhouseID(),
		Thresholds:          domain.TomatoThresholds(),
		IrrigationThreshold: config.IrrigationThreshold(),
		IrrigationCooldown:  time.Duration(config.IrrigationCooldownMs()) * time.Millisecond,
		Hub:                 hub,
		Notifier:            notifier,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid threshold configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svcs.Session.Start(ctx)
	defer svcs.Session.Close()

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := svcs.Session.FromMQTT(msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Msg("dropped malformed live-feed payload")
		}
	}
	if token := client.Subscribe(config.MQTTTopic(), 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	app := fiber.New()
	httpHandlers.Register(app, svcs, hub, reports)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = app.Shutdown()
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
