// Command api runs the hiretrack HTTP and gRPC service without the CLI.
package main

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/hiretrack/internal/app"
)

func main() {
	fx.New(app.HTTP).Run()
}
