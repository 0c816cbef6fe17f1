// Command shop-admin serves the admin dashboard for orders and users and
// exports list pages as CSV from the command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
