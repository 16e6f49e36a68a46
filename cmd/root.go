/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/drifters/common"
	"github.com/rotblauer/drifters/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   params.AppName,
	Short: "Drifter buoy track maps and hindcast diagnostics",
	Long: `Tools for GPS-tracked ocean drifters.

  tracks   fetch drifter tracks from ERDDAP and map where drifters went after
           (source) or came from before (sink) entering a region of interest.
  qc       mask a drifter/hindcast archive and plot velocity and separation diagnostics.
  regions  list the built-in regions of interest.

Flags may also be set in a YAML config file (default $HOME/.drifters.yaml),
keyed by command, eg.

  tracks:
    region: stellwagen
    mode: sink
    months: [6, 9]

or by environment, eg. DRIFTERS_TRACKS_MODE=sink.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.drifters.yaml)")
	pFlags.Int("verbosity", int(slog.LevelInfo), "Log level (-4 debug, 0 info, 4 warn, 8 error)")
	pFlags.String("log-format", "text", "Log format (text, json)")
	_ = viper.BindPFlag("verbosity", pFlags.Lookup("verbosity"))
	_ = viper.BindPFlag("log-format", pFlags.Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(params.ConfigName)
	}

	viper.SetEnvPrefix(params.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("Using config file", "file", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		cobra.CheckErr(err)
	}
}

// setDefaultSlog installs the process logger from the verbosity and log-format settings.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	opts := &slog.HandlerOptions{Level: slog.Level(viper.GetInt("verbosity"))}
	var h slog.Handler
	if viper.GetString("log-format") == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h).With("cmd", cmd.Name()))
	slog.Debug("Args", "args", args)
}

// interruptContext is canceled on SIGINT/SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	interrupt := common.Interrupted()
	go func() {
		select {
		case s := <-interrupt:
			slog.Warn("Received signal, stopping", "signal", s)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
