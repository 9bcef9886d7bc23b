// Command proxygen generates static delegate adapters for Go interfaces.
//
//	proxygen [--dir d] [--type T ...] [--package p] [--output f] [pattern]
package main

import (
	"os"

	"github.com/anoideaopen/delegate/core/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Logger().WithError(err).Error("proxygen failed")
		os.Exit(1)
	}
}
