package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/ejosue98/mvrpc/transport"
	"github.com/spf13/cobra"
)

var slaveCmd = &cobra.Command{
	Use:   "slave",
	Short: "Dial a transport and serve calls until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := rootConfig
		t, closeFn, err := dialTransport(cfg)
		if err != nil {
			return err
		}
		if closeFn != nil {
			defer closeFn()
		}

		s := transport.NewSlave(t, cfg.BuffLen, cfg.RegistryCapacity, transport.WithSlaveLogger(fieldLogger("slave")))
		registerDemoHandlers(s)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)
		go func() {
			<-sigCh
			cancel()
		}()

		s.Loop(ctx, time.Duration(cfg.SendTimeoutMS)*time.Millisecond, time.Duration(cfg.RecvTimeoutMS)*time.Millisecond)
		return nil
	},
}

// registerDemoHandlers installs the handful of procedures the repl
// and scenario tests expect a freshly started slave to answer, per
// spec.md §8's end-to-end scenarios S1-S4.
func registerDemoHandlers(s *transport.Slave) {
	_ = s.RegisterCallback("echo", func(req []byte) ([]byte, error) {
		return append([]byte(nil), req...), nil
	})
	_ = s.RegisterCallback("ping", func([]byte) ([]byte, error) {
		return []byte{0x01}, nil
	})
	_ = s.RegisterCallback("empty", func([]byte) ([]byte, error) {
		return nil, nil
	})
}
