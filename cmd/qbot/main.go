package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/jirwin/qbot/pkg/bot"
	"github.com/jirwin/qbot/pkg/builtin_plugins"
	"github.com/jirwin/qbot/pkg/builtin_plugins/core"
	"github.com/jirwin/qbot/pkg/config"
	"github.com/jirwin/qbot/pkg/mcclient"
	"github.com/jirwin/qbot/pkg/plugin_manager"
	"github.com/jirwin/qbot/pkg/reconnect"
	"github.com/jirwin/qbot/pkg/status"
	"github.com/jirwin/qbot/pkg/uzap"
)

const Version = "0.0.1"

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if c.IsSet("host") {
		cfg.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("username") {
		cfg.Server.Username = c.String("username")
	}

	return cfg, cfg.Validate()
}

func run(c *cli.Context) error {
	color.Blue("Loading config...")
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("error loading config: %s", err.Error()), 1)
	}

	lc, err := uzap.NewConfig()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("error configuring logger: %s", err.Error()), 1)
	}
	if c.Bool("dev") {
		lc.Dev = true
	}
	l, err := uzap.New(lc)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("error creating logger: %s", err.Error()), 1)
	}
	defer l.Sync() //nolint:errcheck
	zap.ReplaceGlobals(l)

	mcc, err := mcclient.NewConfig(cfg.Server)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	coreConfig := core.NewConfig(cfg)
	plugins := func(starter reconnect.Starter, opts ...reconnect.Option) []plugin_manager.Plugin {
		return builtin_plugins.Default(coreConfig, starter, opts...)
	}

	bc, err := bot.NewConfig()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	tracker := reconnect.NewTracker()
	qbot, err := bot.New(bc, l, mcclient.Connector(mcc, l), plugins, tracker)
	if err != nil {
		l.Error("error creating bot", zap.Error(err))
		return cli.NewExitError(err.Error(), 1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := status.NewConfig(cfg.Status.ListenAddress)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if sc.ListenAddress != "" {
		statusServer, err := status.New(sc, l, tracker)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		go statusServer.Run(ctx)
	}

	color.Green("Connecting to %s as %s", cfg.Server.Address(), cfg.Server.Username)
	err = qbot.Start(ctx)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("error starting bot: %s", err.Error()), 1)
	}

	<-ctx.Done()
	qbot.Stop()

	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "qbot"
	app.Version = Version
	app.Usage = "a minecraft bot"
	app.Action = run
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "Path to the bot config (JSON with comments, or YAML)",
			Value:  config.DefaultPath,
			EnvVar: "QBOT_CONFIG",
		},
		cli.StringFlag{
			Name:  "host",
			Usage: "Override server.host",
		},
		cli.IntFlag{
			Name:  "port",
			Usage: "Override server.port",
		},
		cli.StringFlag{
			Name:  "username",
			Usage: "Override server.username",
		},
		cli.BoolFlag{
			Name:   "dev",
			Usage:  "Development logging",
			EnvVar: "DEV_MODE",
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
