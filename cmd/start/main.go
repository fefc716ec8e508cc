package start

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gritdb/gritdb/coordinator"
	"github.com/gritdb/gritdb/scheduler"
	"github.com/gritdb/gritdb/storage/sqlite"
	"github.com/gritdb/gritdb/utils"
	"github.com/gritdb/gritdb/utils/log"
)

const (
	usage                 = "start"
	short                 = "Start a gritdb coordination server"
	long                  = "This command starts a gritdb transaction coordination server"
	example               = "gritdb start --config <path>"
	defaultConfigFilePath = "./gritdb.yml"
	configDesc            = "set the path for the gritdb YAML configuration file"
)

var (
	// Cmd is the start command.
	Cmd = &cobra.Command{
		Use:        usage,
		Short:      short,
		Long:       long,
		Aliases:    []string{"s"},
		SuggestFor: []string{"boot", "up"},
		Example:    example,
		RunE:       executeStart,
	}
	// configFilePath set flag for a path to the config file.
	configFilePath string
)

// nolint:gochecknoinits // cobra's standard way to initialize flags
func init() {
	Cmd.Flags().StringVarP(&configFilePath, "config", "c", defaultConfigFilePath, configDesc)
}

// executeStart implements the start command.
func executeStart(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		return fmt.Errorf("failed to read configuration file error: %w", err)
	}

	// Don't output command usage if args are correct
	cmd.SilenceUsage = true

	log.Info("using %v for configuration", configFilePath)

	config, err := utils.ParseConfig(data)
	if err != nil {
		return fmt.Errorf("failed to parse configuration file error: %w", err)
	}
	log.SetLevel(config.LogLevel)

	coord, queue, err := coordinator.New(config.Workers, sqlite.Builder(config.Database))
	if err != nil {
		return fmt.Errorf("failed to build coordination pool error: %w", err)
	}

	sched := scheduler.New(queue)
	go sched.Run()

	if config.MetricsListen != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			log.Info("launching metrics listener on %v...", config.MetricsListen)
			if err := http.ListenAndServe(config.MetricsListen, nil); err != nil {
				log.Error("metrics listener stopped: %v", err)
			}
		}()
	}

	log.Info("gritdb coordination pool running (database %v)", config.Database)

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	<-sigChannel

	log.Info("initiating graceful shutdown: draining job queue")
	sched.Stop()
	queue.Close()
	coord.Join()
	sched.Close()
	log.Info("all workers exited")

	return nil
}
