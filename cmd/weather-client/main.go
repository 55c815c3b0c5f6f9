package main

import (
	"os"

	"github.com/KamdynS/weather-agent/cmd/weather-client/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
