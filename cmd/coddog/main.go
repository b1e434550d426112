// cmd/coddog/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"coddog/cmd/coddog/commands"
)

const VERSION = "0.3.0"

// Command aliases mapping
var commandAliases = map[string]string{
	"m":  "match",
	"s":  "submatch",
	"c":  "cluster",
	"c2": "compare2",
	"cn": "compare-n",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	// Resolve command aliases
	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
		args[0] = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}

	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		fmt.Printf("coddog %s\n", VERSION)
		return
	}

	var err error
	switch cmd {
	case "match":
		err = commands.MatchCommand(args[1:])
	case "submatch":
		err = commands.SubmatchCommand(args[1:])
	case "cluster":
		err = commands.ClusterCommand(args[1:])
	case "compare2":
		err = commands.Compare2Command(args[1:])
	case "compare-n":
		err = commands.CompareNCommand(args[1:])
	case "db":
		err = commands.DbCommand(args[1:])
	case "serve":
		err = commands.ServeCommand(args[1:])
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		showUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func showUsage() {
	fmt.Println(`coddog - find similar code across decompilation projects

Usage:
  coddog <command> [arguments]

Commands:
  match <query>                      Find functions similar to the query function
  submatch <query> <window-size>     Find chunks of code similar to those in the query function
  cluster                            Cluster functions by similarity, showing possible duplicates
  compare2 <yaml1> <v1> <yaml2> <v2> Compare two binaries, showing functions in common
  compare-n <yaml> <version> <yamls> Compare one binary against others
  db init                            Initialize the database
  db add-project <yaml>              Ingest a project into the database
  db match <query>                   Find database symbols matching the query function
  db submatch <query>                Find sub-function matches across the corpus
  db clean-bins                      Remove orphaned object blobs
  serve                              Run the HTTP API server

Options:
  -h, --help      Show help
  -v, --version   Show version`)
}
