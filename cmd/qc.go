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
	"fmt"
	"log"

	"github.com/rotblauer/drifters/api"
	"github.com/rotblauer/drifters/params"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// qcCmd represents the qc command
var qcCmd = &cobra.Command{
	Use:   "qc [ID_<id>.npz]",
	Short: "Quality-mask a drifter/hindcast archive and plot diagnostics",
	Long: `Load a per-drifter archive of hourly drifter and hindcast model velocities
and write four figures:

  <id>_track.png       positions: all (red), in model domain without gaps (magenta),
                       also under the speed limit (blue)
  <id>_u.png           eastward velocity, drifter and model, raw and tide-removed
  <id>_v.png           northward velocity, likewise
  <id>_separation.png  drifter minus model velocity in km/day, and its daily means

plus <id>_separation.html, an interactive version of the last (--html).

A sample is excluded after a data gap longer than --max-gap, when its speed
is greater than --max-speed m/s, or outside the model domain. The domain is where the
model velocity is defined, or the archive's flag array with --use-stored-flag.

Examples:

  drifters qc driftfvcom_data3/ID_100390731.npz --out-dir figs
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		cfg, err := qcConfig(viper.GetViper(), args)
		if err != nil {
			log.Fatalln(err)
		}
		ctx, cancel := interruptContext()
		defer cancel()

		rep, err := api.Diagnostics(ctx, cfg)
		if err != nil {
			log.Fatalln(err)
		}
		for _, f := range rep.Files {
			fmt.Println(f)
		}
	},
}

func init() {
	rootCmd.AddCommand(qcCmd)

	defaults := params.DefaultQCConfig()

	pFlags := qcCmd.PersistentFlags()
	pFlags.String("dataset", "", "Archive path (or give it as the argument)")
	pFlags.String("out-dir", defaults.OutDir, "Directory for figures")
	pFlags.Duration("max-gap", defaults.MaxGap, "Exclude samples after gaps longer than this")
	pFlags.Float64("max-speed", defaults.MaxSpeed, "Exclude samples faster than this, m/s")
	pFlags.Int("bin-size", defaults.BinSize, "Samples per daily bin")
	pFlags.Bool("use-stored-flag", defaults.UseStoredFlag, "Take the model domain from the archive's flag array")
	pFlags.Bool("html", defaults.HTML, "Also write an interactive separation chart")

	pFlags.VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag("qc."+f.Name, f)
	})
}

func qcConfig(v *viper.Viper, args []string) (*params.QCConfig, error) {
	cfg := params.DefaultQCConfig()
	k := func(name string) string { return "qc." + name }

	cfg.Dataset = v.GetString(k("dataset"))
	if len(args) > 0 {
		cfg.Dataset = args[0]
	}
	if v.IsSet(k("out-dir")) {
		cfg.OutDir = v.GetString(k("out-dir"))
	}
	if v.IsSet(k("max-gap")) {
		cfg.MaxGap = v.GetDuration(k("max-gap"))
	}
	if v.IsSet(k("max-speed")) {
		cfg.MaxSpeed = v.GetFloat64(k("max-speed"))
	}
	if v.IsSet(k("bin-size")) {
		cfg.BinSize = v.GetInt(k("bin-size"))
	}
	if v.IsSet(k("use-stored-flag")) {
		cfg.UseStoredFlag = v.GetBool(k("use-stored-flag"))
	}
	if v.IsSet(k("html")) {
		cfg.HTML = v.GetBool(k("html"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
