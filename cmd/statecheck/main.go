// Package main is the entry point for the statecheck application.
package main

import (
	"github.com/convergehq/statecheck/cmd"
)

func main() {
	cmd.Execute()
}
