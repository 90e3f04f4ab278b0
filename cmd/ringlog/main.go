// Command ringlog holds the maintenance tasks that sit next to the API
// server: seeding development data and hashing the dev login password.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
