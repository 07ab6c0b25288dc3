package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dimgraph/dimgraph"
	"github.com/dimgraph/dimgraph/scene"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	sceneFlag   = flag.String("scene", "", "Load a YAML scene file and print its entities as JSON lines")
)

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		info := dimgraph.GetVersionInfo()
		fmt.Printf("dimgraph version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if *sceneFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	reg := dimgraph.New()
	dims, err := scene.LoadFile(*sceneFlag, reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dimgraph: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, dim := range dims {
		for _, e := range dim.Entities() {
			out := e.ToMap()
			out["dimension"] = dim.Name()
			if err := enc.Encode(out); err != nil {
				fmt.Fprintf(os.Stderr, "dimgraph: %v\n", err)
				os.Exit(1)
			}
		}
	}
}
