// Package main is the entry point for the gisthub CLI application.
// It exposes GitHub gists as a browsable, editable drive.
package main

import (
	"gisthub/cli/cmd"
)

func main() {
	cmd.Execute()
}
