package weather

// Alert is an active weather alert for an area
type Alert struct {
	Event       string `json:"event"`
	AreaDesc    string `json:"area_desc"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Instruction string `json:"instruction,omitempty"`
}

// ForecastPeriod is one named period of a point forecast (e.g. "Tonight")
type ForecastPeriod struct {
	Name            string `json:"name"`
	Temperature     int    `json:"temperature"`
	TemperatureUnit string `json:"temperature_unit"`
	WindSpeed       string `json:"wind_speed"`
	WindDirection   string `json:"wind_direction"`
	Detailed        string `json:"detailed"`
}

// NWS GeoJSON envelopes. Only the fields the tools consume are decoded.

type alertsResponse struct {
	Features []struct {
		Properties struct {
			Event       string `json:"event"`
			AreaDesc    string `json:"areaDesc"`
			Severity    string `json:"severity"`
			Description string `json:"description"`
			Instruction string `json:"instruction"`
		} `json:"properties"`
	} `json:"features"`
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []struct {
			Name            string `json:"name"`
			Temperature     int    `json:"temperature"`
			TemperatureUnit string `json:"temperatureUnit"`
			WindSpeed       string `json:"windSpeed"`
			WindDirection   string `json:"windDirection"`
			DetailedForecast string `json:"detailedForecast"`
		} `json:"periods"`
	} `json:"properties"`
}
