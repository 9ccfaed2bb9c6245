package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/twocats-go/twocats"
)

func newProbeCmd() *cobra.Command {
	var (
		targetMillis int
		maxMemKiB    uint32
		algorithm    string
		parallelism  uint8
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Time trial hashes to choose cost parameters for this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			hashType, ok := twocats.ParseHashType(algorithm)
			if !ok {
				return fmt.Errorf("unknown algorithm %q", algorithm)
			}
			res, err := twocats.FindCostParameters(time.Duration(targetMillis)*time.Millisecond, maxMemKiB, hashType, parallelism)
			if err != nil {
				return err
			}
			fmt.Printf("memCost=%d timeCost=%d multiplies=%d lanes=%d\n", res.MemCost, res.TimeCost, res.Multiplies, res.Lanes)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&targetMillis, "target-ms", 500, "target runtime in milliseconds")
	flags.Uint32Var(&maxMemKiB, "max-mem-kib", 1<<20, "memory budget in KiB")
	flags.StringVarP(&algorithm, "algorithm", "a", "blake2s", "hash provider: blake2s, blake2b, sha256, sha512")
	flags.Uint8VarP(&parallelism, "parallelism", "P", 1, "independent hashing threads")
	return cmd
}
