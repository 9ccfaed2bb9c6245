/*
twocats - command-line front-end for the memory-hard password hasher.

Hashes a password against a salt using the configured cost parameters and
prints the result as hex. Flags mirror the parameters in the core Params
struct; see `twocats hash --help` for the full list.

This front-end, the hex I/O, and the dieharder-style memory dump are
explicitly out of scope for the hashing core itself - they exist only to
exercise it from a shell.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "twocats",
		Short: "Memory-hard password hashing / key derivation",
		Long: `twocats derives a pseudorandom key from a password and salt using a
memory-hard, CPU-latency-bound construction. It is a reference front-end
for the core hashing library, not a production authentication service.`,
	}
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			log.SetLevel(log.DebugLevel)
		}
	}

	root.AddCommand(newHashCmd())
	root.AddCommand(newProbeCmd())
	root.AddCommand(newDumpCmd())
	return root
}
