// Command mvrpc-sim is a host-side driver for exercising a mvrpc
// master/slave pair by hand: dial any of the library's transports,
// issue or serve calls, or drop into an interactive shell. It has no
// bearing on the wire protocol itself (spec.md §6: "CLI/persistence:
// none" for the embedded library) - this is ambient tooling built the
// way the retrieval pack's own CLIs are built.
package main

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	log        = logrus.New()
	deviceTag  string
	rootConfig *Config
)

// rootCmd is the cobra root, grounded on zrepl-zrepl/cmd's RootCmd +
// PersistentFlags() pattern.
var rootCmd = &cobra.Command{
	Use:   "mvrpc-sim",
	Short: "Drive an mvrpc master/slave pair for manual testing",
	Long: `mvrpc-sim dials one of mvrpc's transports and either issues
calls as a master, serves them as a slave, or opens an interactive
shell for hand-testing - none of it is part of the wire protocol.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		rootConfig = cfg

		if id, err := machineid.ID(); err == nil {
			deviceTag = id
		} else {
			deviceTag = "unknown"
		}
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ./mvrpc-sim.yaml)")
	rootCmd.AddCommand(masterCmd, slaveCmd, replCmd, simCmd)
}

// Execute runs the root command; main's sole job is to call this and
// translate a returned error into a process exit code.
func Execute() error {
	return rootCmd.Execute()
}

func fieldLogger(role string) *logrus.Entry {
	return log.WithFields(logrus.Fields{"role": role, "device": deviceTag})
}
