package main

import (
	"os"

	"planner-backend/internal/cli"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("planner exited")
		os.Exit(1)
	}
}
