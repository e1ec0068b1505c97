package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trainhub/trainctl/pkg/allowlist"
)

var allowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Inspect command restrictions",
	Long: `Inspect the command restrictions applied to this CLI.

Restrictions are configured through environment variables and are meant
for agent or sandboxed use, where the operator wants the CLI limited to
read operations or to an explicit set of commands:

  TRAINHUB_READONLY=1              block every command that writes
  TRAINHUB_COMMAND_ALLOWLIST=...   allow only the listed commands

Examples:
  trainctl allowlist status
  trainctl allowlist commands
  TRAINHUB_READONLY=1 trainctl allowlist check "sessions create"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var allowlistStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether restrictions are active",
	RunE:  runAllowlistStatus,
}

var allowlistCommandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List commands with their read/write classification",
	RunE:  runAllowlistCommands,
}

var allowlistCheckCmd = &cobra.Command{
	Use:   "check <command>",
	Short: "Test one command against the active restrictions",
	Long: `Tests whether a command would run under the current restrictions.
Exits 0 when allowed and 1 when blocked, so scripts can branch on it.

Examples:
  trainctl allowlist check whoami
  trainctl allowlist check "sessions create"`,
	Args: cobra.ExactArgs(1),
	RunE: runAllowlistCheck,
}

func init() {
	allowlistCmd.AddCommand(allowlistStatusCmd)
	allowlistCmd.AddCommand(allowlistCommandsCmd)
	allowlistCmd.AddCommand(allowlistCheckCmd)
	rootCmd.AddCommand(allowlistCmd)
}

func runAllowlistStatus(cmd *cobra.Command, args []string) error {
	checker := allowlist.NewChecker()

	if jsonOutput {
		return outputJSON(map[string]interface{}{
			"enabled":         checker.IsEnabled(),
			"readOnly":        checker.IsReadOnly(),
			"allowedCommands": checker.GetAllowedCommands(),
			"envVars": map[string]string{
				allowlist.EnvReadOnly:         os.Getenv(allowlist.EnvReadOnly),
				allowlist.EnvCommandAllowlist: os.Getenv(allowlist.EnvCommandAllowlist),
			},
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	switch {
	case !checker.IsEnabled():
		fmt.Fprintln(w, "Restrictions:\tnone (all commands allowed)")
		fmt.Fprintf(w, "Enable with:\t%s=1 or %s=...\n", allowlist.EnvReadOnly, allowlist.EnvCommandAllowlist)
	case checker.IsReadOnly():
		fmt.Fprintln(w, "Restrictions:\tread-only")
		fmt.Fprintf(w, "Source:\t%s=%s\n", allowlist.EnvReadOnly, os.Getenv(allowlist.EnvReadOnly))
	default:
		fmt.Fprintln(w, "Restrictions:\texplicit allowlist")
		fmt.Fprintf(w, "Source:\t%s=%s\n", allowlist.EnvCommandAllowlist, os.Getenv(allowlist.EnvCommandAllowlist))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if allowed := checker.GetAllowedCommands(); len(allowed) > 0 {
		sort.Strings(allowed)
		fmt.Println("\nAllowed commands:")
		for _, name := range allowed {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("\nhelp and version are always allowed.")
	}
	return nil
}

func runAllowlistCommands(cmd *cobra.Command, args []string) error {
	if jsonOutput {
		return outputJSON(map[string]interface{}{
			"readCommands":  allowlist.ReadOnlyCommands,
			"writeCommands": allowlist.WriteCommands,
		})
	}

	type entry struct{ name, access string }
	entries := make([]entry, 0, len(allowlist.ReadOnlyCommands)+len(allowlist.WriteCommands))
	for _, name := range allowlist.ReadOnlyCommands {
		entries = append(entries, entry{name, "read"})
	}
	for _, name := range allowlist.WriteCommands {
		entries = append(entries, entry{name, "write"})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMMAND\tACCESS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.name, e.access)
	}
	return w.Flush()
}

func runAllowlistCheck(cmd *cobra.Command, args []string) error {
	command := args[0]
	checker := allowlist.NewChecker()
	checkErr := checker.Check(command)

	if jsonOutput {
		result := map[string]interface{}{
			"command": command,
			"allowed": checkErr == nil,
		}
		if checkErr != nil {
			result["error"] = checkErr.Error()
		}
		if err := outputJSON(result); err != nil {
			return err
		}
	} else if checkErr == nil {
		fmt.Printf("%s: allowed\n", command)
	} else {
		fmt.Printf("%s: blocked (%s)\n", command, checkErr)
	}

	if checkErr != nil {
		os.Exit(1)
	}
	return nil
}
