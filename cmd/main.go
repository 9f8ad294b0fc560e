package main

import (
	"os"

	"github.com/soundprediction/trovato/cmd/trovato"
)

func main() {
	if err := trovato.Execute(); err != nil {
		os.Exit(1)
	}
}
