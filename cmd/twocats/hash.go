package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twocats-go/twocats"
)

func newHashCmd() *cobra.Command {
	var (
		hashSize      uint32
		password      string
		hexSalt       string
		memCost       uint8
		timeCost      uint8
		multiplies    uint8
		parallelism   uint8
		blockSize     uint32
		subBlockSize  uint32
		overwriteCost uint8
		lanes         uint8
		algorithm     string
		sideChannel   bool
	)

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Hash a password and print the result as hex",
		RunE: func(cmd *cobra.Command, args []string) error {
			salt, err := hex.DecodeString(hexSalt)
			if err != nil {
				return fmt.Errorf("invalid hex salt: %w", err)
			}
			hashType, ok := twocats.ParseHashType(algorithm)
			if !ok {
				return fmt.Errorf("unknown algorithm %q", algorithm)
			}

			p := twocats.DefaultParams()
			p.HashType = hashType
			p.HashSize = hashSize
			p.StartMemCost = memCost
			p.StopMemCost = memCost
			p.TimeCost = timeCost
			p.Multiplies = multiplies
			p.Parallelism = parallelism
			p.BlockLen = blockSize
			p.SubBlockLen = subBlockSize
			p.OverwriteCost = overwriteCost
			p.Lanes = lanes
			p.SideChannelResistant = sideChannel
			p.ClearPassword = false

			out, err := twocats.HashPasswordExtended(p, []byte(password), salt, nil)
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(out))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Uint32VarP(&hashSize, "hashsize", "h", 32, "output length in bytes")
	flags.StringVarP(&password, "password", "p", "", "password to hash")
	flags.StringVarP(&hexSalt, "salt", "s", "", "salt, as hex")
	flags.Uint8VarP(&memCost, "memcost", "m", 10, "log2 KiB of memory")
	flags.Uint8VarP(&timeCost, "timecost", "t", 0, "extra passes")
	flags.Uint8VarP(&multiplies, "multiplies", "M", 2, "sequential multiplies per chunk")
	flags.Uint8VarP(&parallelism, "parallelism", "P", 1, "independent hashing threads")
	flags.Uint32VarP(&blockSize, "blocksize", "b", 16384, "outer chunk size in bytes")
	flags.Uint32VarP(&subBlockSize, "subblocksize", "B", 64, "inner chunk size in bytes")
	flags.Uint8VarP(&overwriteCost, "overwritecost", "o", 0, "discard levels below startMemCost-overwriteCost")
	flags.Uint8VarP(&lanes, "lanes", "l", 4, "SIMD lane count for the multiply chain")
	flags.StringVarP(&algorithm, "algorithm", "a", "blake2s", "hash provider: blake2s, blake2b, sha256, sha512")
	flags.BoolVarP(&sideChannel, "resistant", "r", false, "side-channel resistant mode")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("salt")

	return cmd
}
