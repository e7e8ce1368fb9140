package main

import (
	"encoding/json"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/mooreli104/farmtwin/internal/config"
	"github.com/mooreli104/farmtwin/internal/domain"
)

// Tomato greenhouse baselines for the random walk.
const (
	baseTemp     = 75.0
	baseHumidity = 70.0
	baseSoil     = 50.0
	baseLight    = 600.0
	baseCO2      = 700.0

	updateInterval = 2 * time.Second
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	r := domain.Reading{
		GreenhouseID: config.GreenhouseID(),
		Temperature:  baseTemp,
		Humidity:     baseHumidity,
		SoilMoisture: baseSoil,
		LightLevel:   baseLight,
		CO2:          baseCO2,
	}

	log.Info().Str("topic", config.MQTTTopic()).Msg("simulator publishing")
	for {
		r.Timestamp = time.Now().UTC()
		r.Temperature += (rand.Float64() - 0.5) * 2
		r.Humidity += (rand.Float64() - 0.5) * 3
		r.LightLevel += (rand.Float64() - 0.5) * 50
		r.CO2 += (rand.Float64() - 0.5) * 20

		// soil dries out steadily; "irrigation" refills it below the trigger
		r.SoilMoisture -= 0.2
		if r.SoilMoisture < config.IrrigationThreshold() {
			r.SoilMoisture = 55 + rand.Float64()*5
		}

		payload, _ := json.Marshal(r)
		token := client.Publish(config.MQTTTopic(), 0, false, payload)
		token.Wait()

		time.Sleep(updateInterval)
	}
}
