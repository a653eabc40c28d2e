// cmd/keysign/main.go
//
// Entry point for the keysign CLI. Each subcommand resolves the project
// root (-project or cwd), loads .keysign/config.yaml and works against the
// key.properties file it points to.
//
//	keysign check  resolve and print the release signing config
//	keysign apply  resolve and attach it to the release build type
//	keysign init   write a new key.properties interactively
//	keysign log    show the tail of the build log

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const usage = `Usage: keysign <command> [flags]

Commands:
  check   resolve the release signing config and report problems
  apply   resolve and attach the config to the release build type
  init    create key.properties interactively
  log     show recent build log entries

Run "keysign <command> -h" for command flags.
`

// errReported marks failures that have already been printed.
var errReported = errors.New("reported")

type command func(args []string, stdout, stderr io.Writer) error

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	commands := map[string]command{
		"check": runCheck,
		"apply": runApply,
		"init":  runInit,
		"log":   runLog,
	}
	name := args[0]
	if name == "-h" || name == "--help" || name == "help" {
		fmt.Fprint(stdout, usage)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command %q\n\n%s", name, usage)
		return 2
	}
	if err := cmd(args[1:], stdout, stderr); err != nil {
		if errors.Is(err, errHelp) {
			return 0
		}
		if errors.Is(err, errUsage) {
			return 2
		}
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
