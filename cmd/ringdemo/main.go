// Command ringdemo is a thin runnable fixture, not a CLI surface: it
// wires every package in this module together to build a ring topology,
// balance it across ranks, distribute it, and report the result, all
// over an in-process mpi.LocalCluster.
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/fpmgraph/cmd/ringdemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
