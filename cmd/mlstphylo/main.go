// Command mlstphylo converts per-sample sequence typing reports into
// a filtered allele matrix and a pairwise distance matrix.
//
// Usage:
//
//	mlstphylo [command] [options]
//
// Commands:
//
//	run         Run the full pipeline over typing reports
//	dist        Compute distances from an existing allele matrix
//	version     Show version information
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/phylokit/mlstphylo/pkg/mlstphylo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		runCmd(os.Args[2:])
	case "dist":
		distCmd(os.Args[2:])
	case "version":
		fmt.Println(mlstphylo.Info())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mlstphylo - MLST Phylogeny Matrix Tool

Usage:
  mlstphylo <command> [options]

Commands:
  run       Run the full pipeline over typing reports
  dist      Compute distances from an existing allele matrix
  version   Show version information
  help      Show this help message

Use "mlstphylo <command> -h" for more information about a command.`)
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string {
	return fmt.Sprint(*l)
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var inputs stringList
	fs.Var(&inputs, "input", "Typing report TSV (repeat per sample; .gz accepted)")
	outputMatrix := fs.String("output-matrix", "", "Filtered allele matrix TSV")
	outputDists := fs.String("output-dists", "", "Pairwise distance matrix TSV")
	distsNpy := fs.String("dists-npy", "", "Optional numpy copy of the distance matrix")
	minPercLoci := fs.Float64("min-perc-loci", 0, "Minimum percentage of loci present per sample (90 recommended)")
	minPercSamples := fs.Float64("min-perc-samples", 0, "Minimum percentage of samples a locus is present in (90 recommended)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(args)

	if len(inputs) == 0 || *outputMatrix == "" || *outputDists == "" {
		fmt.Fprintln(os.Stderr, "Error: -input, -output-matrix and -output-dists are required")
		fs.Usage()
		os.Exit(1)
	}

	configureLogging(*verbose)

	err := mlstphylo.Run(mlstphylo.Config{
		Inputs:         inputs,
		OutputMatrix:   *outputMatrix,
		OutputDists:    *outputDists,
		OutputDistsNpy: *distsNpy,
		MinPercLoci:    *minPercLoci,
		MinPercSamples: *minPercSamples,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func distCmd(args []string) {
	fs := flag.NewFlagSet("dist", flag.ExitOnError)
	matrixPath := fs.String("matrix", "", "Allele matrix TSV to read")
	output := fs.String("output", "", "Pairwise distance matrix TSV")
	distsNpy := fs.String("dists-npy", "", "Optional numpy copy of the distance matrix")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(args)

	if *matrixPath == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Error: -matrix and -output are required")
		fs.Usage()
		os.Exit(1)
	}

	configureLogging(*verbose)

	m, err := mlstphylo.ReadAlleleMatrix(*matrixPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading matrix: %v\n", err)
		os.Exit(1)
	}

	d := mlstphylo.ComputeDistances(m)
	if d.AllZero() {
		log.Warn("all pairwise distances are zero; check comparable loci before calling samples identical")
	}

	if err := mlstphylo.WriteDistanceMatrix(*output, d); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing distances: %v\n", err)
		os.Exit(1)
	}
	log.Infof("distance matrix exported to: %s", *output)

	if *distsNpy != "" {
		if err := mlstphylo.WriteDistanceNpy(*distsNpy, d); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing numpy distances: %v\n", err)
			os.Exit(1)
		}
	}
}

func configureLogging(verbose bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}
