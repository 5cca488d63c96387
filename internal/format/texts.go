package format

import "golang.org/x/text/language"

var supported = []language.Tag{language.English, language.Romanian}

var matcher = language.NewMatcher(supported)

var tables = map[string]map[string]string{
	"en": {
		"missingValue":   "-",
		"unitSeparator":  " ",
		"valueSeparator": ": ",

		"temperature.text":            "Temperature",
		"temperature.unit.CELSIUS":    "°C",
		"temperature.unit.FAHRENHEIT": "°F",
		"temperature.unit.KELVIN":     "K",

		"humidity.text":         "Humidity",
		"humidity.unit.PERCENT": "%",

		"pressure.text":     "Pressure",
		"pressure.unit.HPA": "hPa",

		"wind.text":                "Wind",
		"wind.unit.METER_PER_SEC":  "meters/sec",
		"wind.unit.MILES_PER_HOUR": "miles/hour",

		"windDirection.text":                        "Wind Direction",
		"windDirection.unit.DEGREES_METEOROLOGICAL": "degrees (meteorological)",

		"clouds.text":         "Clouds",
		"clouds.unit.PERCENT": "%",

		"rain.text":             "Rain",
		"rain.unit.MILLIMETERS": "mm",

		"snow.text":             "Snow",
		"snow.unit.MILLIMETERS": "mm",

		"sunrise.text":    "Sunrise",
		"sunrise.pattern": "15:04",
		"sunset.text":     "Sunset",
		"sunset.pattern":  "15:04",
	},
	"ro": {
		"missingValue":   "-",
		"unitSeparator":  " ",
		"valueSeparator": ": ",

		"temperature.text":            "Temperatura",
		"temperature.unit.CELSIUS":    "°C",
		"temperature.unit.FAHRENHEIT": "°F",
		"temperature.unit.KELVIN":     "K",

		"humidity.text":         "Umiditate",
		"humidity.unit.PERCENT": "%",

		"pressure.text":     "Presiune atmosferica",
		"pressure.unit.HPA": "hPa",

		"wind.text":                "Vant",
		"wind.unit.METER_PER_SEC":  "metri/sec",
		"wind.unit.MILES_PER_HOUR": "mile/ora",

		"windDirection.text":                        "Directia vantului",
		"windDirection.unit.DEGREES_METEOROLOGICAL": "grade (meteorologice)",

		"clouds.text":         "Nori",
		"clouds.unit.PERCENT": "%",

		"rain.text":             "Ploaie",
		"rain.unit.MILLIMETERS": "mm",

		"snow.text":             "Zapada",
		"snow.unit.MILLIMETERS": "mm",

		"sunrise.text":    "Rasarit",
		"sunrise.pattern": "15:04",
		"sunset.text":     "Apus",
		"sunset.pattern":  "15:04",
	},
}
