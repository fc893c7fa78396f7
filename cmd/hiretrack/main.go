// Command hiretrack records equipment hire orders from the terminal and runs
// the service, worker and maintenance commands.
package main

import (
	"os"

	"github.com/Additional-Code/hiretrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
