package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/trainhub/trainctl/pkg/models"
)

var (
	enrollNoProgress bool
	enrollDryRun     bool
	enrollStatus     string
	enrollCode       string
)

// EnrollItem represents a single enrollment in the batch input
type EnrollItem struct {
	ClientID  int    `json:"client_id"`
	SessionID int    `json:"session_id"`
	Status    string `json:"status,omitempty"`
}

// EnrollResult represents the outcome of a batch enrollment run
type EnrollResult struct {
	Success  int           `json:"success"`
	Failed   int           `json:"failed"`
	Enrolled []Enrolled    `json:"enrolled"`
	Errors   []EnrollError `json:"errors"`
}

// Enrolled represents a successfully created enrollment
type Enrolled struct {
	EnrollmentID int `json:"enrollment_id"`
	ClientID     int `json:"client_id"`
	SessionID    int `json:"session_id"`
}

// EnrollError represents an error during batch enrollment
type EnrollError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// enrollCmd enrolls one or many clients into sessions
var enrollCmd = &cobra.Command{
	Use:   "enroll [<client-id> <session-id>]",
	Short: "Enroll clients into sessions",
	Long: `Enrolls clients into sessions. With two arguments, enrolls a single
client. With --file, enrolls a whole batch described by a JSON file:

[
  {"client_id": 7, "session_id": 4},
  {"client_id": 8, "session_id": 4, "status": "enrolled"}
]

Failed enrollments don't stop the batch; a summary is printed at the
end and the command exits non-zero if anything failed.

Clients enroll themselves: with a single session ID for public
sessions, or with --code and a join code for private ones.

Examples:
  # Single enrollment
  trainctl enroll 7 4

  # Batch from a file
  trainctl enroll --file enrollments.json

  # Validate a batch without enrolling
  trainctl enroll --file enrollments.json --dry-run

  # Self-enroll in a public session
  trainctl enroll 4

  # Self-enroll with a join code
  trainctl enroll --code X7K9QT`,
	Args: cobra.MaximumNArgs(2),
	RunE: runEnroll,
}

var enrollFile string

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().StringVarP(&enrollFile, "file", "f", "", "JSON file with a batch of enrollments")
	enrollCmd.Flags().StringVar(&enrollCode, "code", "", "join code for self-enrollment")
	enrollCmd.Flags().StringVar(&enrollStatus, "status", "", "enrollment status (e.g. enrolled, waitlisted)")
	enrollCmd.Flags().BoolVar(&enrollDryRun, "dry-run", false, "validate without enrolling")
	enrollCmd.Flags().BoolVar(&enrollNoProgress, "no-progress", false, "disable progress bar")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	if enrollCode != "" {
		if enrollFile != "" || len(args) > 0 {
			return fmt.Errorf("--code cannot be combined with --file or positional arguments")
		}
		return runEnrollByCode(cmd)
	}
	if len(args) == 1 {
		if enrollFile != "" {
			return fmt.Errorf("--file and positional arguments are mutually exclusive")
		}
		return runEnrollSelf(cmd, args[0])
	}

	var items []EnrollItem

	switch {
	case enrollFile != "" && len(args) > 0:
		return fmt.Errorf("--file and positional arguments are mutually exclusive")

	case enrollFile != "":
		loaded, err := loadEnrollItems(enrollFile)
		if err != nil {
			return err
		}
		items = loaded

	case len(args) == 2:
		clientID, err := parseID(args[0], "client")
		if err != nil {
			return err
		}
		sessionID, err := parseID(args[1], "session")
		if err != nil {
			return err
		}
		items = []EnrollItem{{ClientID: clientID, SessionID: sessionID, Status: enrollStatus}}

	default:
		return fmt.Errorf("provide <client-id> <session-id> or --file")
	}

	if enrollDryRun {
		fmt.Printf("✓ %d enrollment(s) valid (dry run, nothing enrolled)\n", len(items))
		return nil
	}

	var bar *progressbar.ProgressBar
	if !enrollNoProgress && !jsonOutput && len(items) > 1 {
		bar = progressbar.Default(int64(len(items)), "enrolling")
	}

	result := EnrollResult{Enrolled: []Enrolled{}, Errors: []EnrollError{}}
	for i, item := range items {
		enrollment, err := api.Sessions.Enroll(cmd.Context(), item.SessionID, models.EnrollmentCreate{
			ClientID:  item.ClientID,
			SessionID: item.SessionID,
			Status:    item.Status,
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, EnrollError{Index: i, Error: err.Error()})
		} else {
			result.Success++
			result.Enrolled = append(result.Enrolled, Enrolled{
				EnrollmentID: enrollment.ID,
				ClientID:     item.ClientID,
				SessionID:    item.SessionID,
			})
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	if jsonOutput {
		if err := outputJSON(result); err != nil {
			return err
		}
	} else {
		fmt.Printf("✓ Enrolled: %d", result.Success)
		if result.Failed > 0 {
			fmt.Printf(", failed: %d", result.Failed)
		}
		fmt.Println()
		for _, e := range result.Errors {
			fmt.Printf("  [%d] %s\n", e.Index, e.Error)
		}
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d enrollments failed", result.Failed, len(items))
	}
	return nil
}

// runEnrollByCode enrolls the calling client using a session join code.
func runEnrollByCode(cmd *cobra.Command) error {
	enrollment, err := api.Sessions.EnrollByCode(cmd.Context(), enrollCode)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(enrollment)
	}

	fmt.Printf("✓ Enrolled in session %d (enrollment %d)\n", enrollment.SessionID, enrollment.ID)
	return nil
}

// runEnrollSelf enrolls the calling client in a public session.
func runEnrollSelf(cmd *cobra.Command, arg string) error {
	sessionID, err := parseID(arg, "session")
	if err != nil {
		return err
	}

	enrollment, err := api.Sessions.EnrollSelf(cmd.Context(), sessionID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(enrollment)
	}

	fmt.Printf("✓ Enrolled in session %d (enrollment %d)\n", enrollment.SessionID, enrollment.ID)
	return nil
}

// loadEnrollItems reads and validates the batch input file
func loadEnrollItems(path string) ([]EnrollItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var items []EnrollItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("invalid batch file: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("batch file contains no enrollments")
	}

	for i, item := range items {
		if item.ClientID <= 0 || item.SessionID <= 0 {
			return nil, fmt.Errorf("entry %d: client_id and session_id are required", i)
		}
	}

	return items, nil
}
