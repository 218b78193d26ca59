package main

import (
	"os"

	"bot-analytics-service/cmd/worker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
