// Relic - cloud resource inventory and cost estimation
// Scan. Price. Report.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("relic failed")
		os.Exit(1)
	}
}
