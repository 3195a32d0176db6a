package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/darkrelay/darkrelay/pkg/logging"
	"github.com/darkrelay/darkrelay/pkg/server"
	"github.com/darkrelay/darkrelay/pkg/version"
)

func main() {
	cfg := server.DefaultConfig()

	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "TLS bind address")
	flag.StringVar(&cfg.CertFile, "cert", "", "TLS certificate file (auto-generated if empty)")
	flag.StringVar(&cfg.KeyFile, "key", "", "TLS private key file (auto-generated if empty)")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory for generated TLS credentials")
	flag.StringVar(&cfg.SpecialKey, "special-key", cfg.SpecialKey, "gate key clients must present before authenticating")
	flag.StringVar(&cfg.ChannelsFile, "channels-file", "", "YAML file defining channels to create on startup")
	flag.StringVar(&cfg.MetricsAddr, "metrics", "", "HTTP bind address for Prometheus /metrics and /healthz (empty to disable)")

	logLevel := flag.String("log-level", "info", "Log level: "+logging.LevelNames())
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Full())
		return
	}

	if err := logging.Setup(logging.Options{
		Level:  *logLevel,
		Format: *logFormat,
		Output: os.Stdout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "darkrelayd: %v\n", err)
		os.Exit(1)
	}
}
