package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/twocats-go/twocats"
)

func newDumpCmd() *cobra.Command {
	var (
		password string
		hexSalt  string
		memCost  uint8
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write a raw memory-engine dump for statistical testing (e.g. dieharder)",
		RunE: func(cmd *cobra.Command, args []string) error {
			salt, err := hex.DecodeString(hexSalt)
			if err != nil {
				return fmt.Errorf("invalid hex salt: %w", err)
			}
			p := twocats.DefaultParams()
			p.StartMemCost = memCost
			p.StopMemCost = memCost

			raw, err := twocats.DumpMemoryLevel(p, []byte(password), salt, memCost)
			if err != nil {
				return err
			}

			name := fmt.Sprintf("twocats-dump-%s.bin", uuid.NewString())
			path := outDir + string(os.PathSeparator) + name
			if err := os.WriteFile(path, raw, 0o600); err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&password, "password", "p", "", "password to seed the dump")
	flags.StringVarP(&hexSalt, "salt", "s", "", "salt, as hex")
	flags.Uint8VarP(&memCost, "memcost", "m", 10, "log2 KiB of memory")
	flags.StringVar(&outDir, "out-dir", ".", "directory to write the dump file into")
	return cmd
}
