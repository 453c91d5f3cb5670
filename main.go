package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/aerth/demosite/config"
	"github.com/aerth/demosite/site"
)

// set with -ldflags "-X main.Version=..."
var Version = "v0.1.0-dev"

var info = "demosite: home, about and a contact form"

func main() {

	// defaults
	var (
		devmode     = false
		addr        = config.DefaultListenAddr
		configpath  = ""
		sslCert     = ""
		sslKey      = ""
		sslAddr     = config.DefaultListenAddrTLS
		showVersion = false
		writeConfig = ""
	)

	// flags
	flag.StringVar(&addr, "addr", addr, "address to serve")
	flag.BoolVar(&devmode, "dev", devmode, "development mode (insecure)")
	flag.StringVar(&configpath, "conf", configpath, "path to config.yaml (use - for stdin, empty for defaults)")
	flag.StringVar(&sslCert, "sslcert", sslCert, "path to ssl cert")
	flag.StringVar(&sslKey, "sslkey", sslKey, "path to ssl key")
	flag.StringVar(&sslAddr, "ssladdr", sslAddr, "listen TLS if cert and key exist")
	flag.BoolVar(&showVersion, "version", false, "show version and exit")
	flag.StringVar(&writeConfig, "writeconfig", writeConfig, "write effective config to this path and exit")
	doConfigDump := flag.Bool("dumpconfig", false, "dump config and exit")
	flag.Parse()

	color.New(color.FgGreen, color.Bold).Fprintln(os.Stderr, info)
	fmt.Fprintln(os.Stderr, "demosite", Version)
	if showVersion {
		os.Exit(0)
	}

	// read config file or stdin
	var cfg = config.Default()
	if configpath != "" {
		var err error
		cfg, err = config.LoadFile(configpath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "boot error:", err)
			os.Exit(1)
		}
	}
	cfg.Meta.Version = "demosite " + Version

	// override config with flags
	if devmode {
		cfg.Meta.DevelopmentMode = devmode
	}
	if addr != config.DefaultListenAddr || cfg.Meta.ListenAddr == "" {
		cfg.Meta.ListenAddr = addr
	}
	if sslAddr != config.DefaultListenAddrTLS || cfg.Meta.ListenAddrTLS == "" {
		cfg.Meta.ListenAddrTLS = sslAddr
	}
	if sslCert != "" {
		cfg.Meta.SSLCert = sslCert
	}
	if sslKey != "" {
		cfg.Meta.SSLKey = sslKey
	}

	logger, err := newLogger(cfg.Meta)
	if err != nil {
		fmt.Fprintln(os.Stderr, "boot error:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	if cfg.ConfigFilePath != "" {
		logger.Info("read config", zap.String("path", cfg.ConfigFilePath))
	}

	if err := config.Check(&cfg, logger); err != nil {
		logger.Fatal("boot error", zap.Error(err))
	}

	if *doConfigDump {
		if err := cfg.Encode(os.Stdout); err != nil {
			logger.Fatal("error dumping config", zap.Error(err))
		}
		return
	}
	if writeConfig != "" {
		if err := config.WriteFile(writeConfig, cfg); err != nil {
			logger.Fatal("error writing config", zap.Error(err))
		}
		logger.Info("wrote config", zap.String("path", writeConfig))
		return
	}

	s, err := site.New(cfg, logger)
	if err != nil {
		logger.Fatal("boot error", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Serve or die!
	if err := s.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return
	}
}
