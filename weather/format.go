package weather

import (
	"fmt"
	"strings"
)

// FormatAlerts renders alerts as readable text for tool output
func FormatAlerts(alerts []Alert) string {
	if len(alerts) == 0 {
		return "No active alerts for this area."
	}

	parts := make([]string, 0, len(alerts))
	for _, a := range alerts {
		var b strings.Builder
		fmt.Fprintf(&b, "Event: %s\n", a.Event)
		fmt.Fprintf(&b, "Area: %s\n", a.AreaDesc)
		fmt.Fprintf(&b, "Severity: %s\n", a.Severity)
		fmt.Fprintf(&b, "Description: %s", a.Description)
		if a.Instruction != "" {
			fmt.Fprintf(&b, "\nInstructions: %s", a.Instruction)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n---\n")
}

// FormatForecast renders forecast periods as readable text for tool output.
// maxPeriods bounds the output; <= 0 means all periods.
func FormatForecast(periods []ForecastPeriod, maxPeriods int) string {
	if len(periods) == 0 {
		return "No forecast periods available."
	}
	if maxPeriods > 0 && len(periods) > maxPeriods {
		periods = periods[:maxPeriods]
	}

	parts := make([]string, 0, len(periods))
	for _, p := range periods {
		var b strings.Builder
		fmt.Fprintf(&b, "%s:\n", p.Name)
		fmt.Fprintf(&b, "Temperature: %d°%s\n", p.Temperature, p.TemperatureUnit)
		fmt.Fprintf(&b, "Wind: %s %s\n", p.WindSpeed, p.WindDirection)
		fmt.Fprintf(&b, "Forecast: %s", p.Detailed)
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n---\n")
}
