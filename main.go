// Package main is the entry point for the sapdrive CLI application.
// It drives SAP GUI sessions through a local scripting bridge agent.
package main

import (
	"sapdrive/cli/cmd"
)

func main() {
	cmd.Execute()
}
