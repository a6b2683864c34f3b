// Command ringlet validates, renders and simulates declarative machine
// definitions.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/amp-labs/ringlet/shutdown"
)

func main() {
	handler, ctx := shutdown.SetupHandler(context.Background())

	err := newRootCmd().ExecuteContext(ctx)

	handler.Stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
