package main

import (
	"fmt"
	"os"

	"github.com/clubtrack-dev/clubtrack/apps/cli-admin/root"
)

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
