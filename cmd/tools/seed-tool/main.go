// cmd/tools/seed-tool/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"activity-signup/pkg/registry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	validateCmd.SetOutput(stderr)
	path := validateCmd.String("path", "configs/activities.json", "Path to seed file")

	if len(args) < 1 {
		help(stdout)
		return 1
	}

	switch args[0] {
	case "validate":
		if err := validateCmd.Parse(args[1:]); err != nil {
			return 2
		}
		if err := validateSeed(*path, stdout); err != nil {
			fmt.Fprintf(stderr, "Seed validation failed: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "Seed validation passed.")

	case "default":
		if err := printDefault(stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}

	case "help":
		help(stdout)

	default:
		help(stdout)
		return 1
	}
	return 0
}

func validateSeed(path string, out io.Writer) error {
	seed, err := registry.LoadSeed(path)
	if err != nil {
		return err
	}
	reg, err := registry.New(seed)
	if err != nil {
		return err
	}

	for _, name := range reg.Names() {
		a, _ := reg.Get(name)
		fmt.Fprintf(out, "  %-24s %d/%d  %s\n", name, len(a.Participants), a.MaxParticipants, a.Schedule)
	}
	return nil
}

func printDefault(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(registry.DefaultSeed())
}

func help(out io.Writer) {
	fmt.Fprintln(out, "Usage: seed-tool <command> [options]")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  validate   Validate a seed file (-path)")
	fmt.Fprintln(out, "  default    Print the built-in seed as JSON")
	fmt.Fprintln(out, "  help       Show this help")
}
