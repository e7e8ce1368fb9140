package service

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/mooreli104/farmtwin/internal/domain"
)

func TestDecodeStreamPayloadStructured(t *testing.T) {
	payload := []byte(`{"temperature":75.2,"humidity":68.5,"soil_moisture":42,"light_level":650,"co2":580}`)
	r, err := DecodeStreamPayload(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Temperature != 75.2 || r.SoilMoisture != 42 || r.CO2 != 580 {
		t.Fatalf("unexpected reading %+v", r)
	}
}

// Some publishers double-encode: the MQTT payload is a JSON string that
// itself contains the reading object.
func TestDecodeStreamPayloadStringWrapped(t *testing.T) {
	inner := `{"temperature":70,"humidity":60,"soil_moisture":45,"light_level":500,"co2":600}`
	payload, _ := json.Marshal(inner)
	r, err := DecodeStreamPayload(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Temperature != 70 || r.Humidity != 60 {
		t.Fatalf("unexpected reading %+v", r)
	}
}

func TestDecodeStreamPayloadMalformed(t *testing.T) {
	if _, err := DecodeStreamPayload([]byte(`not json at all`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeStreamPayloadMissingFieldsBecomeNaN(t *testing.T) {
	r, err := DecodeStreamPayload([]byte(`{"temperature":75}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !math.IsNaN(r.SoilMoisture) || !math.IsNaN(r.CO2) {
		t.Fatalf("absent fields should be NaN: %+v", r)
	}
	if _, ok := r.Value(domain.SensorSoilMoisture); ok {
		t.Fatalf("absent soil moisture should report not-ok")
	}
}

func TestDecodeStreamPayloadHardwareCO2Alias(t *testing.T) {
	r, err := DecodeStreamPayload([]byte(`{"temperature":75,"humidity":70,"soil_moisture":50,"co2_ppm":820}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.CO2 != 820 {
		t.Fatalf("co2_ppm alias not honored: %+v", r)
	}
}

// A payload omitting optional sensors must still encode for broadcast and
// display; the absent fields are simply dropped.
func TestPartialStreamReadingMarshals(t *testing.T) {
	r, err := DecodeStreamPayload([]byte(`{"temperature":75,"humidity":70,"soil_moisture":50}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("partial reading must marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if _, ok := m["light_level"]; ok {
		t.Fatalf("absent light_level should be omitted: %s", b)
	}
}

func TestFromHardwareValidation(t *testing.T) {
	s := newStubSession(&stubStore{})

	cases := []string{
		`{"humidity":70,"soil_moisture":50}`,     // no temperature
		`{"temperature":75,"soil_moisture":50}`,  // no humidity
		`{"temperature":75,"humidity":70}`,       // no soil_moisture
		`{broken`,                                // not JSON
	}
	for _, body := range cases {
		if _, err := s.FromHardware([]byte(body)); err == nil {
			t.Fatalf("body %s: expected validation error", body)
		}
	}
}

func TestFromHardwareDefaults(t *testing.T) {
	s := newStubSession(&stubStore{})

	r, err := s.FromHardware([]byte(`{"temperature":75,"humidity":70,"soil_moisture":50}`))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if r.LightLevel != DefaultLightLevel {
		t.Fatalf("light default: got %v want %v", r.LightLevel, DefaultLightLevel)
	}
	if r.CO2 != DefaultCO2PPM {
		t.Fatalf("co2 default: got %v want %v", r.CO2, DefaultCO2PPM)
	}

	current, ok := s.CurrentReading()
	if !ok {
		t.Fatalf("reading should be cached")
	}
	if current.GreenhouseID != "greenhouse-test" {
		t.Fatalf("greenhouse id not defaulted: %+v", current)
	}
	if current.Timestamp.IsZero() {
		t.Fatalf("timestamp not stamped")
	}
}

func TestFromHardwareKeepsProvidedOptionals(t *testing.T) {
	s := newStubSession(&stubStore{})
	r, err := s.FromHardware([]byte(`{"temperature":75,"humidity":70,"soil_moisture":50,"light_level":420,"co2_ppm":900}`))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if r.LightLevel != 420 || r.CO2 != 900 {
		t.Fatalf("optionals overridden: %+v", r)
	}
}
