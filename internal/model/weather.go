package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "CELSIUS"
	Fahrenheit TemperatureUnit = "FAHRENHEIT"
	Kelvin     TemperatureUnit = "KELVIN"
)

type HumidityUnit string

const HumidityPercent HumidityUnit = "PERCENT"

type PressureUnit string

const PressureHPa PressureUnit = "HPA"

type WindUnit string

const (
	MeterPerSec  WindUnit = "METER_PER_SEC"
	MilesPerHour WindUnit = "MILES_PER_HOUR"
)

type WindDirectionUnit string

const DegreesMeteorological WindDirectionUnit = "DEGREES_METEOROLOGICAL"

type CloudsUnit string

const CloudsPercent CloudsUnit = "PERCENT"

// PrecipitationUnit is shared by rain and snow volumes.
type PrecipitationUnit string

const Millimeters PrecipitationUnit = "MILLIMETERS"

var (
	// ErrMissingUnit is returned by Validate for a measurement without a unit.
	ErrMissingUnit = errors.New("measurement has no unit")
	// ErrNotFinite is returned by Validate for a NaN or infinite value, which
	// cannot be persisted as JSON.
	ErrNotFinite = errors.New("measurement value is not finite")
)

// Measurement is a value together with its unit. A nil *Measurement means the
// provider did not report the field, so value and unit are always present or
// absent together.
type Measurement[U ~string] struct {
	Value float64 `json:"value"`
	Unit  U       `json:"unit"`
}

// NewMeasurement returns a present measurement.
func NewMeasurement[U ~string](value float64, unit U) *Measurement[U] {
	return &Measurement[U]{Value: value, Unit: unit}
}

// WeatherRecord is a snapshot of one city's weather.
type WeatherRecord struct {
	// Timestamp is the moment the record was fetched. It is stamped by the
	// coordinator, never by a provider.
	Timestamp   time.Time `json:"timestamp"`
	City        string    `json:"city"`
	Description string    `json:"description,omitempty"`

	Temperature   *Measurement[TemperatureUnit]   `json:"temperature,omitempty"`
	Humidity      *Measurement[HumidityUnit]      `json:"humidity,omitempty"`
	Pressure      *Measurement[PressureUnit]      `json:"pressure,omitempty"`
	Wind          *Measurement[WindUnit]          `json:"wind,omitempty"`
	WindDirection *Measurement[WindDirectionUnit] `json:"windDirection,omitempty"`
	Clouds        *Measurement[CloudsUnit]        `json:"clouds,omitempty"`
	Rain          *Measurement[PrecipitationUnit] `json:"rain,omitempty"`
	Snow          *Measurement[PrecipitationUnit] `json:"snow,omitempty"`

	Sunrise *time.Time `json:"sunrise,omitempty"`
	Sunset  *time.Time `json:"sunset,omitempty"`
}

// UnixMilli converts epoch milliseconds into an optional UTC instant.
func UnixMilli(ms int64) *time.Time {
	t := time.UnixMilli(ms).UTC()
	return &t
}

// Age reports how old the record is at now.
func (r *WeatherRecord) Age(now time.Time) time.Duration {
	return now.Sub(r.Timestamp)
}

// Validate checks that every present measurement carries a unit and a finite
// value.
func (r *WeatherRecord) Validate() error {
	checks := []struct {
		field string
		m     measured
	}{
		{"temperature", measuredOf(r.Temperature)},
		{"humidity", measuredOf(r.Humidity)},
		{"pressure", measuredOf(r.Pressure)},
		{"wind", measuredOf(r.Wind)},
		{"windDirection", measuredOf(r.WindDirection)},
		{"clouds", measuredOf(r.Clouds)},
		{"rain", measuredOf(r.Rain)},
		{"snow", measuredOf(r.Snow)},
	}
	for _, c := range checks {
		if !c.m.present {
			continue
		}
		if c.m.unit == "" {
			return fmt.Errorf("%s: %w", c.field, ErrMissingUnit)
		}
		if math.IsNaN(c.m.value) || math.IsInf(c.m.value, 0) {
			return fmt.Errorf("%s: %w", c.field, ErrNotFinite)
		}
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r *WeatherRecord) Clone() *WeatherRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Temperature = clonePtr(r.Temperature)
	c.Humidity = clonePtr(r.Humidity)
	c.Pressure = clonePtr(r.Pressure)
	c.Wind = clonePtr(r.Wind)
	c.WindDirection = clonePtr(r.WindDirection)
	c.Clouds = clonePtr(r.Clouds)
	c.Rain = clonePtr(r.Rain)
	c.Snow = clonePtr(r.Snow)
	c.Sunrise = clonePtr(r.Sunrise)
	c.Sunset = clonePtr(r.Sunset)
	return &c
}

type measured struct {
	present bool
	value   float64
	unit    string
}

func measuredOf[U ~string](m *Measurement[U]) measured {
	if m == nil {
		return measured{}
	}
	return measured{present: true, value: m.Value, unit: string(m.Unit)}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
