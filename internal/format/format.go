// Package format renders weather records as localized display text.
package format

import (
	"strconv"
	"time"

	"github.com/fakhrymubarak/weather-cache/internal/model"
	"golang.org/x/text/language"
)

// Formatter turns records into text using one language's string table.
// Absent fields render as the table's missing value, never as a made-up value.
type Formatter struct {
	lang  string
	texts map[string]string
	loc   *time.Location
}

type Option func(*Formatter)

// WithLocation sets the time zone used for sunrise and sunset. Defaults to
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		f.loc = loc
	}
}

// New returns a formatter for the best match of lang among the supported
// languages, falling back to English.
func New(lang string, opts ...Option) *Formatter {
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	texts, ok := tables[base.String()]
	if !ok {
		texts = tables["en"]
	}
	f := &Formatter{lang: base.String(), texts: texts, loc: time.Local}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Formatter) Language() string {
	return f.lang
}

func (f *Formatter) text(key string) string {
	if v, ok := f.texts[key]; ok {
		return v
	}
	if v, ok := tables["en"][key]; ok {
		return v
	}
	return key
}

func (f *Formatter) withText(field, value string) string {
	return f.text(field+".text") + f.text("valueSeparator") + value
}

func measurement[U ~string](f *Formatter, field string, m *model.Measurement[U]) string {
	if m == nil {
		return f.text("missingValue")
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64) + f.text("unitSeparator") + f.text(field+".unit."+string(m.Unit))
}

func (f *Formatter) instant(field string, t *time.Time) string {
	if t == nil {
		return f.text("missingValue")
	}
	return t.In(f.loc).Format(f.text(field + ".pattern"))
}

func (f *Formatter) Description(r *model.WeatherRecord) string {
	if r.Description == "" {
		return f.text("missingValue")
	}
	return r.Description
}

func (f *Formatter) Temperature(r *model.WeatherRecord) string {
	return measurement(f, "temperature", r.Temperature)
}

func (f *Formatter) TemperatureWithText(r *model.WeatherRecord) string {
	return f.withText("temperature", f.Temperature(r))
}

func (f *Formatter) Humidity(r *model.WeatherRecord) string {
	return measurement(f, "humidity", r.Humidity)
}

func (f *Formatter) HumidityWithText(r *model.WeatherRecord) string {
	return f.withText("humidity", f.Humidity(r))
}

func (f *Formatter) Pressure(r *model.WeatherRecord) string {
	return measurement(f, "pressure", r.Pressure)
}

func (f *Formatter) PressureWithText(r *model.WeatherRecord) string {
	return f.withText("pressure", f.Pressure(r))
}

func (f *Formatter) Wind(r *model.WeatherRecord) string {
	return measurement(f, "wind", r.Wind)
}

func (f *Formatter) WindWithText(r *model.WeatherRecord) string {
	return f.withText("wind", f.Wind(r))
}

func (f *Formatter) WindDirection(r *model.WeatherRecord) string {
	return measurement(f, "windDirection", r.WindDirection)
}

func (f *Formatter) WindDirectionWithText(r *model.WeatherRecord) string {
	return f.withText("windDirection", f.WindDirection(r))
}

func (f *Formatter) Clouds(r *model.WeatherRecord) string {
	return measurement(f, "clouds", r.Clouds)
}

func (f *Formatter) CloudsWithText(r *model.WeatherRecord) string {
	return f.withText("clouds", f.Clouds(r))
}

func (f *Formatter) Rain(r *model.WeatherRecord) string {
	return measurement(f, "rain", r.Rain)
}

func (f *Formatter) RainWithText(r *model.WeatherRecord) string {
	return f.withText("rain", f.Rain(r))
}

func (f *Formatter) Snow(r *model.WeatherRecord) string {
	return measurement(f, "snow", r.Snow)
}

func (f *Formatter) SnowWithText(r *model.WeatherRecord) string {
	return f.withText("snow", f.Snow(r))
}

func (f *Formatter) Sunrise(r *model.WeatherRecord) string {
	return f.instant("sunrise", r.Sunrise)
}

func (f *Formatter) SunriseWithText(r *model.WeatherRecord) string {
	return f.withText("sunrise", f.Sunrise(r))
}

func (f *Formatter) Sunset(r *model.WeatherRecord) string {
	return f.instant("sunset", r.Sunset)
}

func (f *Formatter) SunsetWithText(r *model.WeatherRecord) string {
	return f.withText("sunset", f.Sunset(r))
}

// Lines returns the description followed by every field with its label.
func (f *Formatter) Lines(r *model.WeatherRecord) []string {
	return []string{
		f.Description(r),
		f.TemperatureWithText(r),
		f.HumidityWithText(r),
		f.PressureWithText(r),
		f.WindWithText(r),
		f.WindDirectionWithText(r),
		f.CloudsWithText(r),
		f.RainWithText(r),
		f.SnowWithText(r),
		f.SunriseWithText(r),
		f.SunsetWithText(r),
	}
}
