package main

import (
	"fmt"
	"os"

	"action_recorder/presentation/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run keeps deferred browser shutdown ahead of os.Exit
func run() error {
	term, err := terminal.NewTerminalInterface()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if err := term.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()

	return term.Run()
}
