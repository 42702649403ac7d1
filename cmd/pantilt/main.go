// Command pantilt drives a pan/tilt camera mount: two H-bridge motors, an
// orientation servo and a pair of IR sensors for beacon tracking.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
