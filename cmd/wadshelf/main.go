package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"wadshelf/internal/catalog"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, describeError(err))
		}
		os.Exit(1)
	}
}

// describeError prefixes classified failures with a hint for the user.
func describeError(err error) string {
	switch catalog.Classify(err) {
	case "validation":
		return "invalid query: " + err.Error()
	case "transient":
		return "catalog unavailable (retry later): " + err.Error()
	case "configuration":
		return "catalog needs attention: " + err.Error()
	}
	return err.Error()
}
