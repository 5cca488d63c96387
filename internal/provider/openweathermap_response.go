package provider

import (
	"github.com/fakhrymubarak/weather-cache/internal/model"
)

// openWeatherMapResponse mirrors the parts of the current weather payload we
// read. Pointers distinguish a missing field from a zero value.
type openWeatherMapResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     *float64 `json:"temp"`
		Pressure *float64 `json:"pressure"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All *float64 `json:"all"`
	} `json:"clouds"`
	Rain *volume `json:"rain"`
	Snow *volume `json:"snow"`
	Sys  struct {
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
}

type volume struct {
	OneHour   *float64 `json:"1h"`
	ThreeHour *float64 `json:"3h"`
}

func (v *volume) latest() *float64 {
	if v == nil {
		return nil
	}
	if v.OneHour != nil {
		return v.OneHour
	}
	return v.ThreeHour
}

func unitsFor(system string) (model.TemperatureUnit, model.WindUnit) {
	switch system {
	case "imperial":
		return model.Fahrenheit, model.MilesPerHour
	case "standard":
		return model.Kelvin, model.MeterPerSec
	default:
		return model.Celsius, model.MeterPerSec
	}
}

func measure[U ~string](v *float64, unit U) *model.Measurement[U] {
	if v == nil {
		return nil
	}
	return model.NewMeasurement(*v, unit)
}

func (r *openWeatherMapResponse) toRecord(city, units string) *model.WeatherRecord {
	tempUnit, windUnit := unitsFor(units)
	record := &model.WeatherRecord{
		City:          city,
		Temperature:   measure(r.Main.Temp, tempUnit),
		Humidity:      measure(r.Main.Humidity, model.HumidityPercent),
		Pressure:      measure(r.Main.Pressure, model.PressureHPa),
		Wind:          measure(r.Wind.Speed, windUnit),
		WindDirection: measure(r.Wind.Deg, model.DegreesMeteorological),
		Clouds:        measure(r.Clouds.All, model.CloudsPercent),
		Rain:          measure(r.Rain.latest(), model.Millimeters),
		Snow:          measure(r.Snow.latest(), model.Millimeters),
	}
	if len(r.Weather) > 0 {
		record.Description = r.Weather[0].Description
	}
	if r.Sys.Sunrise != nil {
		record.Sunrise = model.UnixMilli(*r.Sys.Sunrise * 1000)
	}
	if r.Sys.Sunset != nil {
		record.Sunset = model.UnixMilli(*r.Sys.Sunset * 1000)
	}
	return record
}
