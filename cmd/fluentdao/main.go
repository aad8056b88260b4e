// Command fluentdao reflects a MySQL schema and queries its tables with filter mappings.
package main

import (
	"os"

	"github.com/biyonik/go-fluent-dao/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
