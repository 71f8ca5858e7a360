// Command nutcracker loads a matrix product operator from a YAML file,
// optimizes a matrix product state against it with package chain, and
// reports the converged ground-state energy.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fumin/nutcracker/chain"
	"github.com/fumin/nutcracker/persist"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nutcracker: %+v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var inputFile string
	var bandwidth int
	var outputFile string

	cmd := &cobra.Command{
		Use:   "nutcracker",
		Short: "Find the ground state of a matrix product operator",
		Long: `nutcracker loads a Hamiltonian expressed as a matrix product operator
from a YAML file and variationally optimizes a matrix product state
against it until the energy converges, growing the state's bandwidth
dimension up to the requested maximum along the way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(inputFile, bandwidth, outputFile)
		},
	}

	cmd.Flags().StringVar(&inputFile, "input-file", "", "YAML file holding the matrix product operator (required)")
	cmd.Flags().IntVar(&bandwidth, "bandwidth", 8, "maximum bandwidth dimension to grow the state to")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "sqlite file to append per-sweep energies to (optional)")
	cmd.MarkFlagRequired("input-file")

	return cmd
}

func run(inputFile string, bandwidth int, outputFile string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	mpo, err := persist.LoadOperatorSites(inputFile)
	if err != nil {
		return err
	}

	obs := chain.NewDefaultObserver(logger, 5*time.Second)
	if outputFile != "" {
		runLog, err := persist.OpenRunLog(outputFile)
		if err != nil {
			return err
		}
		defer runLog.Close()

		sweep := 0
		obs.OnSweepPerformed = func(startSiteNumber int, energy float32) {
			logger.Info().Int("start_site", startSiteNumber).Float32("energy", energy).Msg("sweep performed")
			if err := runLog.Append(sweep, startSiteNumber, energy); err != nil {
				logger.Error().Err(err).Msg("append run log row")
			}
			sweep++
		}
	}

	c, err := chain.NewChain(mpo, 1, chain.NewOptions(), obs)
	if err != nil {
		return err
	}
	if err := c.OptimizeChain(bandwidth); err != nil {
		return err
	}

	fmt.Printf("energy: %v\n", c.Energy)
	fmt.Printf("bandwidth dimension: %v\n", c.BandwidthDimension())
	return nil
}
