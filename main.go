package main

import (
	"fmt"
	"os"

	"spector/load"
)

var version = "0.3.0"

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case loadMode:
		runLoad(&cli.Load)
	case traceMode:
		runTrace(&cli.Trace)
	case accelsMode:
		for _, name := range load.Names() {
			fmt.Println(name)
		}
	case versionMode:
		fmt.Println("spector " + version)
	}
}
