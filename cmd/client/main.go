package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		// A failed action already printed its notification.
		if !errors.Is(err, errActionFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
