package main

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/announcer/cmd"
)

// init configures the initial logging level for the announcer.
//
// It sets logrus to InfoLevel by default, ensuring basic operational logs
// are visible unless overridden by flags like --debug or --log-level in cmd.
func init() {
	logrus.SetLevel(logrus.InfoLevel)
}

// main serves as the entry point for the announcer.
//
// It delegates execution to the cmd package, which handles CLI setup,
// flag parsing, and the announcement itself.
func main() {
	cmd.Execute()
}
