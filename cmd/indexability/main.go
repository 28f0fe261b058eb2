// indexability evaluates search indexability policies from the command line.
//
// Usage:
//
//	indexability validate -c policies.yaml
//	indexability check -c policies.yaml --index blog --type post '{"published": true}'
//	indexability serve -c policies.yaml --index blog --type post --addr :9090
package main

import (
	"fmt"
	"os"

	"github.com/Dome-Systems/indexability-go/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
