// skillshub - one home for AI assistant skills
//
// Installs skills from local directories or git repositories into a central
// store and links or copies them into each tool's skills directory.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/starjokerZYJ/skills-hub/internal/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
