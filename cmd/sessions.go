package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trainhub/trainctl/pkg/models"
)

var (
	sessionTitle       string
	sessionDescription string
	sessionStartDate   string
	sessionEndDate     string
	sessionTrainerID   int
	sessionPublic      bool

	attachTitle  string
	attachActive bool

	enrollmentsClientID int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage training sessions",
	Long:  `Create, list, and manage training sessions and their attached questionnaires.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions visible to you",
	Long: `Lists sessions. Trainers see their own sessions, clients see public
ones plus those they are enrolled in.

Examples:
  trainctl sessions list
  trainctl sessions list --json`,
	RunE: runSessionsList,
}

var sessionsGetCmd = &cobra.Command{
	Use:   "get <session-id>",
	Short: "Get a single session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsGet,
}

var sessionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a session",
	Long: `Creates a training session.

Examples:
  trainctl sessions create --title "Spring Onboarding" \
    --start-date 2026-09-01 --end-date 2026-09-05 --trainer 12 --public`,
	RunE: runSessionsCreate,
}

var sessionsUpdateCmd = &cobra.Command{
	Use:   "update <session-id>",
	Short: "Update a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsUpdate,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsInstancesCmd = &cobra.Command{
	Use:   "instances <session-id>",
	Short: "List questionnaire instances attached to a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsInstances,
}

var sessionsAttachCmd = &cobra.Command{
	Use:   "attach <session-id> <questionnaire-id>",
	Short: "Attach a questionnaire to a session",
	Long: `Attaches a questionnaire to a session as a new instance.

Examples:
  trainctl sessions attach 4 17 --title "Day 1 pre-test" --active`,
	Args: cobra.ExactArgs(2),
	RunE: runSessionsAttach,
}

var sessionsDetachCmd = &cobra.Command{
	Use:   "detach <instance-id>",
	Short: "Detach a questionnaire instance from its session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDetach,
}

var sessionsActivateCmd = &cobra.Command{
	Use:   "activate <instance-id>",
	Short: "Activate a questionnaire instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsActivate,
}

var sessionsEnrollmentsCmd = &cobra.Command{
	Use:   "enrollments [<session-id>]",
	Short: "List enrollments of a session or a client",
	Long: `Lists who is enrolled where. With a session ID it lists that session's
enrollments (trainer or admin only); with --client it lists one client's
enrollments across sessions.

Examples:
  trainctl sessions enrollments 4
  trainctl sessions enrollments --client 7`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsEnrollments,
}

var sessionsGenerateCodeCmd = &cobra.Command{
	Use:   "generate-code <session-id>",
	Short: "Rotate the join code of a session",
	Long: `Generates a fresh join code for a session, invalidating the old one.
Clients use the code with 'trainctl enroll --code'.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsGenerateCode,
}

var sessionsDeactivateCmd = &cobra.Command{
	Use:   "deactivate <instance-id>",
	Short: "Deactivate a questionnaire instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDeactivate,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsGetCmd)
	sessionsCmd.AddCommand(sessionsCreateCmd)
	sessionsCmd.AddCommand(sessionsUpdateCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsInstancesCmd)
	sessionsCmd.AddCommand(sessionsAttachCmd)
	sessionsCmd.AddCommand(sessionsDetachCmd)
	sessionsCmd.AddCommand(sessionsActivateCmd)
	sessionsCmd.AddCommand(sessionsDeactivateCmd)
	sessionsCmd.AddCommand(sessionsEnrollmentsCmd)
	sessionsCmd.AddCommand(sessionsGenerateCodeCmd)

	sessionsCreateCmd.Flags().StringVar(&sessionTitle, "title", "", "session title (required)")
	sessionsCreateCmd.Flags().StringVar(&sessionDescription, "description", "", "session description")
	sessionsCreateCmd.Flags().StringVar(&sessionStartDate, "start-date", "", "start date, YYYY-MM-DD (required)")
	sessionsCreateCmd.Flags().StringVar(&sessionEndDate, "end-date", "", "end date, YYYY-MM-DD (required)")
	sessionsCreateCmd.Flags().IntVar(&sessionTrainerID, "trainer", 0, "trainer user ID (required)")
	sessionsCreateCmd.Flags().BoolVar(&sessionPublic, "public", false, "make the session publicly visible")

	sessionsUpdateCmd.Flags().StringVar(&sessionTitle, "title", "", "new title")
	sessionsUpdateCmd.Flags().StringVar(&sessionDescription, "description", "", "new description")
	sessionsUpdateCmd.Flags().StringVar(&sessionStartDate, "start-date", "", "new start date")
	sessionsUpdateCmd.Flags().StringVar(&sessionEndDate, "end-date", "", "new end date")
	sessionsUpdateCmd.Flags().BoolVar(&sessionPublic, "public", false, "public visibility")

	sessionsAttachCmd.Flags().StringVar(&attachTitle, "title", "", "instance title (defaults to the questionnaire title)")
	sessionsAttachCmd.Flags().BoolVar(&attachActive, "active", false, "activate the instance immediately")

	sessionsEnrollmentsCmd.Flags().IntVar(&enrollmentsClientID, "client", 0, "list enrollments of this client instead of a session")
}

func printSessions(sessions []models.Session) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTART\tEND\tPUBLIC")
	for _, s := range sessions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", s.ID, s.Title, s.StartDate, s.EndDate, s.IsPublic)
	}
	w.Flush()
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	sessions, err := api.Sessions.List(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(sessions)
	}

	printSessions(sessions)
	return nil
}

func runSessionsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "session")
	if err != nil {
		return err
	}

	session, err := api.Sessions.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(session)
	}

	fmt.Printf("%s (id %d)\n", session.Title, session.ID)
	if session.Description != "" {
		fmt.Println(session.Description)
	}
	fmt.Printf("Dates:  %s to %s\n", session.StartDate, session.EndDate)
	fmt.Printf("Public: %t\n", session.IsPublic)
	return nil
}

func runSessionsCreate(cmd *cobra.Command, args []string) error {
	if sessionTitle == "" || sessionStartDate == "" || sessionEndDate == "" || sessionTrainerID == 0 {
		return fmt.Errorf("--title, --start-date, --end-date, and --trainer are required")
	}

	session, err := api.Sessions.Create(cmd.Context(), models.SessionCreate{
		Title:       sessionTitle,
		Description: sessionDescription,
		StartDate:   sessionStartDate,
		EndDate:     sessionEndDate,
		TrainerID:   sessionTrainerID,
		IsPublic:    sessionPublic,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(session)
	}

	fmt.Printf("✓ Created session %d: %s\n", session.ID, session.Title)
	return nil
}

func runSessionsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "session")
	if err != nil {
		return err
	}

	var update models.SessionUpdate
	if cmd.Flags().Changed("title") {
		update.Title = &sessionTitle
	}
	if cmd.Flags().Changed("description") {
		update.Description = &sessionDescription
	}
	if cmd.Flags().Changed("start-date") {
		update.StartDate = &sessionStartDate
	}
	if cmd.Flags().Changed("end-date") {
		update.EndDate = &sessionEndDate
	}
	if cmd.Flags().Changed("public") {
		update.IsPublic = &sessionPublic
	}

	session, err := api.Sessions.Update(cmd.Context(), id, update)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(session)
	}

	fmt.Printf("✓ Updated session %d\n", session.ID)
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "session")
	if err != nil {
		return err
	}

	if err := api.Sessions.Delete(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted session %d\n", id)
	return nil
}

func runSessionsInstances(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "session")
	if err != nil {
		return err
	}

	instances, err := api.Sessions.Instances(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(instances)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tQUESTIONNAIRE\tACTIVE")
	for _, in := range instances {
		fmt.Fprintf(w, "%d\t%s\t%d\t%t\n", in.ID, in.Title, in.QuestionnaireID, in.IsActive)
	}
	w.Flush()
	return nil
}

func runSessionsEnrollments(cmd *cobra.Command, args []string) error {
	var (
		enrollments []models.Enrollment
		err         error
	)
	switch {
	case enrollmentsClientID > 0 && len(args) > 0:
		return fmt.Errorf("give a session ID or --client, not both")
	case enrollmentsClientID > 0:
		enrollments, err = api.Sessions.ListClientEnrollments(cmd.Context(), enrollmentsClientID)
	case len(args) == 1:
		var id int
		if id, err = parseID(args[0], "session"); err != nil {
			return err
		}
		enrollments, err = api.Sessions.ListEnrollments(cmd.Context(), id)
	default:
		return fmt.Errorf("a session ID or --client is required")
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(enrollments)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLIENT\tSESSION\tSTATUS\tENROLLED")
	for _, e := range enrollments {
		client := e.ClientName
		if client == "" {
			client = fmt.Sprintf("%d", e.ClientID)
		}
		session := e.SessionTitle
		if session == "" {
			session = fmt.Sprintf("%d", e.SessionID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, client, session, e.Status, e.EnrolledAt)
	}
	w.Flush()
	return nil
}

func runSessionsGenerateCode(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "session")
	if err != nil {
		return err
	}

	session, err := api.Sessions.GenerateCode(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(session)
	}

	fmt.Printf("✓ New join code for session %d: %s\n", session.ID, session.SessionCode)
	return nil
}

func runSessionsAttach(cmd *cobra.Command, args []string) error {
	sessionID, err := parseID(args[0], "session")
	if err != nil {
		return err
	}
	questionnaireID, err := parseID(args[1], "questionnaire")
	if err != nil {
		return err
	}

	title := attachTitle
	if title == "" {
		questionnaire, err := api.Questionnaires.Get(cmd.Context(), questionnaireID)
		if err != nil {
			return err
		}
		title = questionnaire.Title
	}

	instance, err := api.Sessions.AttachQuestionnaire(cmd.Context(), models.QuestionnaireInstanceCreate{
		Title:           title,
		QuestionnaireID: questionnaireID,
		SessionID:       sessionID,
		IsActive:        attachActive,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(instance)
	}

	fmt.Printf("✓ Attached questionnaire %d to session %d (instance %d)\n", questionnaireID, sessionID, instance.ID)
	return nil
}

func runSessionsDetach(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "instance")
	if err != nil {
		return err
	}

	if err := api.Sessions.DetachInstance(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("✓ Detached instance %d\n", id)
	return nil
}

func runSessionsActivate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "instance")
	if err != nil {
		return err
	}

	instance, err := api.Sessions.ActivateInstance(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Instance %d is now active\n", instance.ID)
	return nil
}

func runSessionsDeactivate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "instance")
	if err != nil {
		return err
	}

	instance, err := api.Sessions.DeactivateInstance(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Instance %d is now inactive\n", instance.ID)
	return nil
}
