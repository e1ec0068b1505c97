package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trainhub/trainctl/pkg/models"
	"github.com/trainhub/trainctl/pkg/template"
)

var (
	qTemplateName string
	qDataFile     string
	qSetValues    []string
	qFile         string
	qTitle        string
	qDescription  string
	qAsClient     bool

	answerFile string
)

var questionnairesCmd = &cobra.Command{
	Use:     "questionnaires",
	Aliases: []string{"q"},
	Short:   "Manage questionnaires",
	Long:    `Author questionnaires, fill them in as a client, and manage their questions.`,
}

var questionnairesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questionnaires",
	Long: `Lists questionnaires. Trainers see the ones they authored; pass
--as-client to see the client-facing view with completion state.

Examples:
  trainctl questionnaires list
  trainctl questionnaires list --as-client`,
	RunE: runQuestionnairesList,
}

var questionnairesGetCmd = &cobra.Command{
	Use:   "get <questionnaire-id>",
	Short: "Get a questionnaire with its questions",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestionnairesGet,
}

var questionnairesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a questionnaire",
	Long: `Creates a questionnaire from a template or a JSON file.

Templates are YAML files with {{ }} placeholders, resolved from
./.trainctl/templates, ~/.trainctl/templates, and the built-in set
(feedback, pre-test). Placeholder data comes from --set key=value
pairs or a JSON file via --data.

Examples:
  # From a template
  trainctl questionnaires create --template feedback --set session="Spring Onboarding" --set trainer=Ada

  # From a template with a data file
  trainctl questionnaires create --template pre-test --data data.json

  # From a raw JSON payload
  trainctl questionnaires create --file questionnaire.json`,
	RunE: runQuestionnairesCreate,
}

var questionnairesUpdateCmd = &cobra.Command{
	Use:   "update <questionnaire-id>",
	Short: "Update a questionnaire's metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestionnairesUpdate,
}

var questionnairesStartCmd = &cobra.Command{
	Use:   "start <questionnaire-id>",
	Short: "Start filling in a questionnaire",
	Long:  `Starts (or resumes) a response to an active questionnaire and prints the response ID to use with 'answer' and 'complete'.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestionnairesStart,
}

var questionnairesAnswerCmd = &cobra.Command{
	Use:   "answer <questionnaire-id> <response-id> <question-id>",
	Short: "Submit an answer to a question",
	Long: `Submits one answer within a started response. The answer payload is
read from the JSON file given by --answers, or from stdin.

Examples:
  echo '{"value": "Good"}' | trainctl questionnaires answer 17 44 3`,
	Args: cobra.ExactArgs(3),
	RunE: runQuestionnairesAnswer,
}

var questionnairesCompleteCmd = &cobra.Command{
	Use:   "complete <questionnaire-id> <response-id>",
	Short: "Mark a response as complete",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuestionnairesComplete,
}

func init() {
	rootCmd.AddCommand(questionnairesCmd)
	questionnairesCmd.AddCommand(questionnairesListCmd)
	questionnairesCmd.AddCommand(questionnairesGetCmd)
	questionnairesCmd.AddCommand(questionnairesCreateCmd)
	questionnairesCmd.AddCommand(questionnairesUpdateCmd)
	questionnairesCmd.AddCommand(questionnairesStartCmd)
	questionnairesCmd.AddCommand(questionnairesAnswerCmd)
	questionnairesCmd.AddCommand(questionnairesCompleteCmd)

	questionnairesListCmd.Flags().BoolVar(&qAsClient, "as-client", false, "show the client-facing view with completion state")

	questionnairesCreateCmd.Flags().StringVarP(&qTemplateName, "template", "t", "", "template name (e.g. feedback, pre-test)")
	questionnairesCreateCmd.Flags().StringVar(&qDataFile, "data", "", "JSON file with template placeholder data")
	questionnairesCreateCmd.Flags().StringArrayVar(&qSetValues, "set", nil, "template placeholder as key=value (repeatable)")
	questionnairesCreateCmd.Flags().StringVarP(&qFile, "file", "f", "", "JSON file with the full questionnaire payload")

	questionnairesUpdateCmd.Flags().StringVar(&qTitle, "title", "", "new title")
	questionnairesUpdateCmd.Flags().StringVar(&qDescription, "description", "", "new description")

	questionnairesAnswerCmd.Flags().StringVar(&answerFile, "answers", "", "JSON file with the answer payload (defaults to stdin)")
}

// newTemplateService builds the template service with the configured
// custom directory, when one is set.
func newTemplateService() *template.Service {
	configDir := ""
	if cfg != nil {
		configDir = cfg.TemplatesDir
	}
	return template.NewService(template.NewResolver(configDir, ""))
}

func runQuestionnairesList(cmd *cobra.Command, args []string) error {
	if qAsClient {
		items, err := api.Questionnaires.ListForClient(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(items)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTYPE\tCOMPLETED")
		for _, q := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", q.ID, q.Title, q.Type, q.IsCompleted)
		}
		w.Flush()
		return nil
	}

	items, err := api.Questionnaires.List(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(items)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tQUESTIONS")
	for _, q := range items {
		count := len(q.Questions)
		if q.QuestionCount != nil {
			count = *q.QuestionCount
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", q.ID, q.Title, q.Type, count)
	}
	w.Flush()
	return nil
}

func runQuestionnairesGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "questionnaire")
	if err != nil {
		return err
	}

	q, err := api.Questionnaires.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(q)
	}

	fmt.Printf("%s (id %d, %s)\n", q.Title, q.ID, q.Type)
	if q.Description != "" {
		fmt.Println(q.Description)
	}
	fmt.Println()
	for _, question := range q.Questions {
		required := ""
		if question.IsRequired {
			required = " (required)"
		}
		fmt.Printf("%d. %s [%s]%s\n", question.Order, question.Text, question.Type, required)
	}
	return nil
}

// loadQuestionnairePayload assembles the create payload from the
// template or file flags.
func loadQuestionnairePayload() (*models.QuestionnaireCreate, error) {
	switch {
	case qTemplateName != "" && qFile != "":
		return nil, fmt.Errorf("--template and --file are mutually exclusive")

	case qTemplateName != "":
		svc := newTemplateService()
		tmpl, err := svc.LoadTemplate(qTemplateName)
		if err != nil {
			return nil, err
		}

		data := make(map[string]interface{})
		if qDataFile != "" {
			raw, err := os.ReadFile(qDataFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read data file: %w", err)
			}
			if err := json.Unmarshal(raw, &data); err != nil {
				return nil, fmt.Errorf("invalid data file: %w", err)
			}
		}
		for _, kv := range qSetValues {
			key, value, ok := splitKeyValue(kv)
			if !ok {
				return nil, fmt.Errorf("invalid --set value %q, expected key=value", kv)
			}
			data[key] = value
		}

		return svc.RenderQuestionnaire(tmpl, data)

	case qFile != "":
		raw, err := os.ReadFile(qFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read questionnaire file: %w", err)
		}
		var payload models.QuestionnaireCreate
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("invalid questionnaire file: %w", err)
		}
		return &payload, nil

	default:
		return nil, fmt.Errorf("either --template or --file is required")
	}
}

// splitKeyValue splits "key=value" at the first '='
func splitKeyValue(kv string) (string, string, bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], i > 0
		}
	}
	return "", "", false
}

func runQuestionnairesCreate(cmd *cobra.Command, args []string) error {
	payload, err := loadQuestionnairePayload()
	if err != nil {
		return err
	}

	created, err := api.Questionnaires.Create(cmd.Context(), *payload)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(created)
	}

	fmt.Printf("✓ Created questionnaire %d: %s\n", created.ID, payload.Title)
	return nil
}

func runQuestionnairesUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "questionnaire")
	if err != nil {
		return err
	}

	var update models.QuestionnaireUpdate
	if cmd.Flags().Changed("title") {
		update.Title = &qTitle
	}
	if cmd.Flags().Changed("description") {
		update.Description = &qDescription
	}

	if err := api.Questionnaires.Update(cmd.Context(), id, update); err != nil {
		return err
	}

	fmt.Printf("✓ Updated questionnaire %d\n", id)
	return nil
}

func runQuestionnairesStart(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "questionnaire")
	if err != nil {
		return err
	}

	started, err := api.Questionnaires.Start(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(started)
	}

	fmt.Printf("✓ Response %d started\n", started.ResponseID)
	return nil
}

func runQuestionnairesAnswer(cmd *cobra.Command, args []string) error {
	questionnaireID, err := parseID(args[0], "questionnaire")
	if err != nil {
		return err
	}
	responseID, err := parseID(args[1], "response")
	if err != nil {
		return err
	}
	questionID, err := parseID(args[2], "question")
	if err != nil {
		return err
	}

	var raw []byte
	if answerFile != "" {
		raw, err = os.ReadFile(answerFile)
		if err != nil {
			return fmt.Errorf("failed to read answer file: %w", err)
		}
	} else {
		raw, err = readStdin()
		if err != nil {
			return err
		}
	}

	var answer map[string]interface{}
	if err := json.Unmarshal(raw, &answer); err != nil {
		return fmt.Errorf("invalid answer payload: %w", err)
	}

	result, err := api.Questionnaires.SubmitAnswer(cmd.Context(), questionnaireID, responseID, questionID, models.AnswerSubmit{Answer: answer})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}

	fmt.Printf("✓ %s\n", result.Message)
	return nil
}

// readStdin reads the whole of standard input
func readStdin() ([]byte, error) {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return raw, nil
}

func runQuestionnairesComplete(cmd *cobra.Command, args []string) error {
	questionnaireID, err := parseID(args[0], "questionnaire")
	if err != nil {
		return err
	}
	responseID, err := parseID(args[1], "response")
	if err != nil {
		return err
	}

	if err := api.Questionnaires.Complete(cmd.Context(), questionnaireID, responseID); err != nil {
		return err
	}

	fmt.Printf("✓ Response %d completed\n", responseID)
	return nil
}
