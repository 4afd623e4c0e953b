package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"atnrt/internal/atn"
	"atnrt/internal/bundle"
	"atnrt/internal/version"
)

type versionPayload struct {
	Tool         string `json:"tool"`
	Version      string `json:"version"`
	ATNVersion   int    `json:"atn_version"`
	BundleSchema uint16 `json:"bundle_schema"`
	GitCommit    string `json:"git_commit,omitempty"`
	BuildDate    string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show atnrt build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return flagError("format", err)
		}
		full, err := cmd.Flags().GetBool("full")
		if err != nil {
			return flagError("full", err)
		}
		p := versionPayload{
			Tool:         "atnrt",
			Version:      strings.TrimSpace(version.Version),
			ATNVersion:   atn.SerializedVersion,
			BundleSchema: bundle.Schema,
		}
		if full {
			p.GitCommit = valueOrUnknown(version.GitCommit)
			p.BuildDate = valueOrUnknown(version.BuildDate)
		}
		switch strings.ToLower(format) {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		case "pretty":
			color.NoColor = !sessionFrom(cmd.Context()).stdout
			renderVersionPretty(cmd.OutOrStdout(), p)
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("full", false, "include commit and build date")
}

func renderVersionPretty(out io.Writer, p versionPayload) {
	fmt.Fprintf(out, "atnrt %s\n", version.Colored())
	fmt.Fprintf(out, "atn serialization v%d, bundle schema %d\n", p.ATNVersion, p.BundleSchema)
	if p.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
	}
	if p.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
	}
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
