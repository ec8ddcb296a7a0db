// Command domebridged wires DomeBridge (and, in simulation mode, an
// in-process MockPlant) together and runs until SIGINT/SIGTERM, standing in
// for the excluded service shell's entry point.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"domebridge/internal/bridge"
	"domebridge/internal/config"
	"domebridge/internal/plant"
	"domebridge/internal/protocol"
)

func main() {
	log := logrus.New()

	app := &cli.App{
		Name:  "domebridged",
		Usage: "run the dome bridge against a real controller or an in-process simulator",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
			&cli.StringFlag{Name: "host", Value: "127.0.0.1", Usage: "dome controller host"},
			&cli.IntFlag{Name: "port", Value: 10000, Usage: "dome controller port"},
			&cli.BoolFlag{Name: "simulate", Value: true, Usage: "start an in-process MockPlant instead of dialing a real controller"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("debug") {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(c, log)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("domebridged exited with error")
	}
}

func run(c *cli.Context, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := c.String("host")
	port := c.Int("port")

	if c.Bool("simulate") {
		mockLog := log.WithField("component", "mock-plant")
		mockPlant := plant.NewMockPlant(plant.SystemClock{}, mockLog)
		ln, err := mockPlant.Serve(ctx, "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("start mock plant: %w", err)
		}
		addr := ln.Addr().(*net.TCPAddr)
		host = addr.IP.String()
		port = addr.Port
		log.WithField("addr", ln.Addr().String()).Info("mock plant listening")
	}

	cfg := config.Config{Host: host, Port: port, SimulationMode: simulationMode(c.Bool("simulate"))}
	domeBridge := bridge.NewDomeBridge(cfg, log.WithField("component", "dome-bridge"))

	for _, sub := range protocol.AllSubsystems {
		sub := sub
		domeBridge.RegisterTelemetryCallback(sub, func(snapshot map[string]any) {
			log.WithFields(logrus.Fields{"subsystem": sub, "snapshot": snapshot}).Debug("telemetry")
		})
	}

	if err := domeBridge.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer domeBridge.Disconnect()

	domeBridge.StartTelemetryPump(ctx)

	log.Info("domebridged running, press ctrl-c to stop")
	<-ctx.Done()
	log.Info("domebridged shutting down")
	return nil
}

func simulationMode(simulate bool) config.SimulationMode {
	if simulate {
		return config.SimulatedWithPlant
	}
	return config.Normal
}
