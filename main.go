// Package main is the entry point for the moviecat CLI.
package main

import (
	"moviecat/cli/cmd"
)

func main() {
	cmd.Execute()
}
