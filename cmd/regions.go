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
	"io"

	"github.com/rotblauer/drifters/params"
	"github.com/spf13/cobra"
)

// regionsCmd represents the regions command
var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List built-in regions of interest",
	Run: func(cmd *cobra.Command, args []string) {
		printRegions(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func printRegions(w io.Writer) {
	for _, name := range params.RegionNames() {
		g := params.RegionPresets[name]
		def := ""
		if name == params.DefaultRegion {
			def = " (default)"
		}
		fmt.Fprintf(w, "%s%s\n  maxlon=%v minlon=%v maxlat=%v minlat=%v\n", name, def, g.MaxLon, g.MinLon, g.MaxLat, g.MinLat)
	}
}
