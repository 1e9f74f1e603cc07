/*
Package main is the entry point for the memory-mcp CLI.

memory-mcp is a personal command memory for AI CLI agents. It records
the commands you run, infers your preferences from them, and serves
compact summaries back to agents over MCP (stdio) or REST.

Usage:
  memory-mcp [command]

Available Commands:
  serve       Run the MCP server (stdio transport)
  http        Run the REST API server
  record      Record a command into memory
  list        List recorded commands
  stats       Show usage statistics
  preferences Show inferred preferences
  search      Search command history
  export      Export history to a file
  setup       Register memory-mcp with AI CLI tools
  remove      Unregister memory-mcp from AI CLI tools
  verify      Verify configuration and storage
  benchmark   Compare context token costs
  version     Show version information
  help        Help about any command

Examples:
  # Register with Claude Code and OpenCode
  memory-mcp setup

  # Run as MCP server
  memory-mcp serve

  # Record a command with tags
  memory-mcp record "pytest -x tests/" --tag testing
*/
package main

import (
	"fmt"
	"os"

	"github.com/smallyunet/memory-mcp-server/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
