package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ejosue98/mvrpc/driver/mem"
	"github.com/ejosue98/mvrpc/transport"
	"github.com/spf13/cobra"
)

var simArgs struct {
	name    string
	payload string
}

// simCmd runs a master and a slave in the same process over a
// driver/mem paired transport - the only place "mem" makes sense as a
// driver, since it has no independent endpoint to dial into from a
// second process.
var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a master and slave in-process over driver/mem and issue one call",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := rootConfig
		masterEnd, slaveEnd := mem.NewFullDuplexPair()

		s := transport.NewSlave(slaveEnd, cfg.BuffLen, cfg.RegistryCapacity, transport.WithSlaveLogger(fieldLogger("slave")))
		registerDemoHandlers(s)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go s.Loop(ctx, time.Duration(cfg.SendTimeoutMS)*time.Millisecond, time.Duration(cfg.RecvTimeoutMS)*time.Millisecond)

		m := transport.NewMaster(masterEnd, cfg.BuffLen, transport.WithMasterLogger(fieldLogger("master")))
		resp, err := m.Call(ctx, simArgs.name, []byte(simArgs.payload),
			time.Duration(cfg.SendTimeoutMS)*time.Millisecond,
			time.Duration(cfg.RecvTimeoutMS)*time.Millisecond)
		if err != nil {
			return fmt.Errorf("call %q: %w", simArgs.name, err)
		}
		fmt.Printf("%s\n", resp)
		return nil
	},
}

func init() {
	simCmd.Flags().StringVar(&simArgs.name, "name", "echo", "procedure name to call")
	simCmd.Flags().StringVar(&simArgs.payload, "payload", "hello", "request payload")
}
