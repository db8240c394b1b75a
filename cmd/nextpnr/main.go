// Command nextpnr is the thin CLI driver: load a chip database and a
// netlist, run the pack/place/route pipeline, and print the timing
// summary, wired the way samples/simple_hidden/main.go wires a
// driver+device pair and tears down with atexit.Exit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/config"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/engine"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/report"
	"github.com/nextpnr-go/corepnr/uarch"
	"github.com/nextpnr-go/corepnr/uarch/testuarch"
)

func main() {
	dbPath := flag.String("db", "", "path to the chip database YAML fixture")
	netlistPath := flag.String("netlist", "", "path to the netlist YAML fixture")
	placer := flag.String("placer", string(config.PlacerSA), "placement algorithm: sa or heap")
	router := flag.String("router", string(config.Router1), "routing algorithm: router1")
	timingDriven := flag.Bool("timing-driven", false, "enable timing-driven placement and routing")
	seed := flag.Uint64("seed", 1, "PRNG seed for the placer/router")
	flag.Parse()

	if *dbPath == "" || *netlistPath == "" {
		fmt.Fprintln(os.Stderr, "usage: nextpnr -db chip.yaml -netlist design.yaml")
		os.Exit(2)
	}

	in := idstring.NewInterner()

	db, err := chipdb.LoadDatabaseYAML(*dbPath, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nextpnr: %v\n", err)
		os.Exit(1)
	}

	arch := testuarch.New(in)
	chipdb.RequireUarch(db, arch.Name())

	ctx := design.NewContext(db, in, uarch.AsContextUarch(arch))
	if err := arch.InitDatabase(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "nextpnr: init database: %v\n", err)
		os.Exit(1)
	}

	if err := design.LoadNetlistYAML(*netlistPath, ctx); err != nil {
		fmt.Fprintf(os.Stderr, "nextpnr: %v\n", err)
		os.Exit(1)
	}

	cfg := config.NewBuilder().
		WithPlacer(config.PlacerKind(*placer)).
		WithRouter(config.RouterKind(*router)).
		WithTimingDriven(*timingDriven).
		WithSeed(*seed).
		Build()

	eng := engine.New(ctx, arch, db, cfg)
	result := eng.Run()

	summary := report.Summarize(result, in, nil, 10000)
	report.Print(summary)

	if len(result.RouteResult.Failed) > 0 {
		os.Exit(1)
	}
	atexit.Exit(0)
}
