/*
Copyright 2026 The Tunebench Authors.

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

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tunebench-io/tunebench/internal/version"
)

func newVersionCommand(streams *IOStreams) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the tunebench version",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetInfo()
			switch format {
			case "json":
				enc := json.NewEncoder(streams.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "yaml":
				return yaml.NewEncoder(streams.Out).Encode(info)
			default:
				_, err := fmt.Fprintf(streams.Out, "%s version: %s\n", cmd.Root().Name(), info.String())
				return err
			}
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "", "output format: json, yaml, or empty for a summary line")
	return cmd
}
