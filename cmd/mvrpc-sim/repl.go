package main

import (
	"context"
	"fmt"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/ejosue98/mvrpc/transport"
	"github.com/spf13/cobra"
)

// replCmd backs an interactive shell for issuing calls against a
// running slave by hand, grounded on robotalks-robo.go/pkg/cli/sh:
// a single ishell.Shell with a small command table and a context with
// a timeout bounding each invocation.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive shell for issuing calls against a running slave",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := rootConfig
		t, closeFn, err := dialTransport(cfg)
		if err != nil {
			return err
		}
		if closeFn != nil {
			defer closeFn()
		}

		m := transport.NewMaster(t, cfg.BuffLen, transport.WithMasterLogger(fieldLogger("repl")))
		shell := ishell.New()
		shell.SetPrompt("mvrpc> ")

		shell.AddCmd(&ishell.Cmd{
			Name: "call",
			Help: "call <name> [payload]",
			Func: func(c *ishell.Context) {
				if len(c.Args) < 1 {
					c.Err(fmt.Errorf("usage: call <name> [payload]"))
					return
				}
				name := c.Args[0]
				var payload []byte
				if len(c.Args) > 1 {
					payload = []byte(c.Args[1])
				}

				ctx, cancel := context.WithTimeout(context.Background(),
					time.Duration(cfg.SendTimeoutMS+cfg.RecvTimeoutMS)*time.Millisecond)
				defer cancel()

				resp, err := m.Call(ctx, name, payload,
					time.Duration(cfg.SendTimeoutMS)*time.Millisecond,
					time.Duration(cfg.RecvTimeoutMS)*time.Millisecond)
				if err != nil {
					c.Err(err)
					return
				}
				c.Printf("%s\n", resp)
			},
		})

		shell.Run()
		return nil
	},
}
