// Package main provides the entry point for the mcptools MCP servers.
package main

import (
	"os"

	"github.com/mcptools/mcptools-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
