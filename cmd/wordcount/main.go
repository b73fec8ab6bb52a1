// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Command wordcount counts the tokens in every matching file below a
// directory. It also carries two small demos of the blocking primitives the
// module provides.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
