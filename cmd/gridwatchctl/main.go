// Command gridwatchctl runs one-off gridwatch operations against the configured upstreams
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
