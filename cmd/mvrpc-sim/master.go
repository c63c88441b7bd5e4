package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ejosue98/mvrpc/transport"
	"github.com/spf13/cobra"
)

var masterArgs struct {
	name    string
	payload string
}

var masterCmd = &cobra.Command{
	Use:   "master",
	Short: "Dial a transport and issue a single call",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := rootConfig
		t, closeFn, err := dialTransport(cfg)
		if err != nil {
			return err
		}
		if closeFn != nil {
			defer closeFn()
		}

		m := transport.NewMaster(t, cfg.BuffLen, transport.WithMasterLogger(fieldLogger("master")))
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.SendTimeoutMS+cfg.RecvTimeoutMS)*time.Millisecond)
		defer cancel()

		resp, err := m.Call(ctx, masterArgs.name, []byte(masterArgs.payload),
			time.Duration(cfg.SendTimeoutMS)*time.Millisecond,
			time.Duration(cfg.RecvTimeoutMS)*time.Millisecond)
		if err != nil {
			return fmt.Errorf("call %q: %w", masterArgs.name, err)
		}
		fmt.Printf("%s\n", resp)
		return nil
	},
}

func init() {
	masterCmd.Flags().StringVar(&masterArgs.name, "name", "echo", "procedure name to call")
	masterCmd.Flags().StringVar(&masterArgs.payload, "payload", "", "request payload")
}
