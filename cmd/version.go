package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build metadata, overridden at link time via -ldflags.
var (
	version   = "0.1.0"
	gitCommit = ""
	buildDate = ""
)

type versionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

// buildVersionInfo fills in what ldflags did not provide from the
// module build info stamped by the Go linker.
func buildVersionInfo() versionInfo {
	info := versionInfo{
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = setting.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = setting.Value
				}
			}
		}
	}
	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the trainctl version",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildVersionInfo()

		if jsonOutput {
			return outputJSON(info)
		}

		fmt.Printf("trainctl version %s", info.Version)
		if info.GitCommit != "" {
			commit := info.GitCommit
			if len(commit) > 12 {
				commit = commit[:12]
			}
			fmt.Printf(" (%s)", commit)
		}
		fmt.Println()
		if info.BuildDate != "" {
			fmt.Printf("Built:      %s\n", info.BuildDate)
		}
		if info.GoVersion != "" {
			fmt.Printf("Go version: %s\n", info.GoVersion)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
