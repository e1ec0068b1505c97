package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trainhub/trainctl/pkg/models"
)

var (
	procName        string
	procDescription string
	procPromptFile  string
	procCodeFile    string
	procInterpreter string
	procStatus      string

	requeueProcessorID int
)

var processorsCmd = &cobra.Command{
	Use:   "processors",
	Short: "Manage response processors",
	Long: `Manage LLM post-processing configurations that run over completed
questionnaire responses, and inspect their results.`,
}

var processorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processors",
	RunE:  runProcessorsList,
}

var processorsGetCmd = &cobra.Command{
	Use:   "get <processor-id>",
	Short: "Get a processor",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcessorsGet,
}

var processorsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a processor",
	Long: `Creates a processor. The prompt template is read from the file given
by --prompt; optional post-processing code from --code.

Examples:
  trainctl processors create --name "Sentiment" --prompt prompt.txt \
    --code postprocess.py --interpreter python`,
	RunE: runProcessorsCreate,
}

var processorsUpdateCmd = &cobra.Command{
	Use:   "update <processor-id>",
	Short: "Update a processor",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcessorsUpdate,
}

var processorsDeleteCmd = &cobra.Command{
	Use:   "delete <processor-id>",
	Short: "Delete a processor",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcessorsDelete,
}

var processorsAssignCmd = &cobra.Command{
	Use:   "assign <processor-id> <questionnaire-id>",
	Short: "Assign a processor to a questionnaire",
	Args:  cobra.ExactArgs(2),
	RunE:  runProcessorsAssign,
}

var processorsUnassignCmd = &cobra.Command{
	Use:   "unassign <processor-id> <question-id>",
	Short: "Remove a processor from a question",
	Args:  cobra.ExactArgs(2),
	RunE:  runProcessorsUnassign,
}

var processorsResultsCmd = &cobra.Command{
	Use:   "results <response-id>",
	Short: "List processing results for a response",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcessorsResults,
}

var processorsResultCmd = &cobra.Command{
	Use:   "result <result-id>",
	Short: "Show one processing result with its outputs",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcessorsResult,
}

var processorsRequeueCmd = &cobra.Command{
	Use:   "requeue <response-id>",
	Short: "Requeue a response for processing",
	Long: `Requeues a completed response for processing. By default every
assigned processor runs again; pass --processor to rerun just one.

Examples:
  trainctl processors requeue 44
  trainctl processors requeue 44 --processor 3`,
	Args: cobra.ExactArgs(1),
	RunE: runProcessorsRequeue,
}

func init() {
	rootCmd.AddCommand(processorsCmd)
	processorsCmd.AddCommand(processorsListCmd)
	processorsCmd.AddCommand(processorsGetCmd)
	processorsCmd.AddCommand(processorsCreateCmd)
	processorsCmd.AddCommand(processorsUpdateCmd)
	processorsCmd.AddCommand(processorsDeleteCmd)
	processorsCmd.AddCommand(processorsAssignCmd)
	processorsCmd.AddCommand(processorsUnassignCmd)
	processorsCmd.AddCommand(processorsResultsCmd)
	processorsCmd.AddCommand(processorsResultCmd)
	processorsCmd.AddCommand(processorsRequeueCmd)

	processorsCreateCmd.Flags().StringVar(&procName, "name", "", "processor name (required)")
	processorsCreateCmd.Flags().StringVar(&procDescription, "description", "", "what the processor does")
	processorsCreateCmd.Flags().StringVar(&procPromptFile, "prompt", "", "file with the LLM prompt template (required)")
	processorsCreateCmd.Flags().StringVar(&procCodeFile, "code", "", "file with post-processing code")
	processorsCreateCmd.Flags().StringVar(&procInterpreter, "interpreter", "", "post-processing interpreter: python, javascript, or none")
	processorsCreateCmd.Flags().StringVar(&procStatus, "status", "", "initial status: active, inactive, or testing")

	processorsUpdateCmd.Flags().StringVar(&procName, "name", "", "new name")
	processorsUpdateCmd.Flags().StringVar(&procDescription, "description", "", "new description")
	processorsUpdateCmd.Flags().StringVar(&procPromptFile, "prompt", "", "file with the new prompt template")
	processorsUpdateCmd.Flags().StringVar(&procCodeFile, "code", "", "file with the new post-processing code")
	processorsUpdateCmd.Flags().StringVar(&procStatus, "status", "", "new status")

	processorsRequeueCmd.Flags().IntVar(&requeueProcessorID, "processor", 0, "requeue for a single processor")
}

func runProcessorsList(cmd *cobra.Command, args []string) error {
	processors, err := api.Processors.List(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(processors)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tINTERPRETER\tSTATUS")
	for _, p := range processors {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Interpreter, p.Status)
	}
	w.Flush()
	return nil
}

func runProcessorsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "processor")
	if err != nil {
		return err
	}

	p, err := api.Processors.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(p)
	}

	fmt.Printf("%s (id %d)\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	fmt.Printf("Interpreter: %s\n", p.Interpreter)
	fmt.Printf("Status:      %s\n", p.Status)
	fmt.Println()
	fmt.Println("Prompt template:")
	fmt.Println(p.PromptTemplate)
	return nil
}

func runProcessorsCreate(cmd *cobra.Command, args []string) error {
	if procName == "" || procPromptFile == "" {
		return fmt.Errorf("--name and --prompt are required")
	}

	prompt, err := os.ReadFile(procPromptFile)
	if err != nil {
		return fmt.Errorf("failed to read prompt file: %w", err)
	}

	create := models.ProcessorCreate{
		Name:           procName,
		Description:    procDescription,
		PromptTemplate: string(prompt),
		Interpreter:    procInterpreter,
		Status:         procStatus,
	}

	if procCodeFile != "" {
		code, err := os.ReadFile(procCodeFile)
		if err != nil {
			return fmt.Errorf("failed to read code file: %w", err)
		}
		create.PostProcessingCode = string(code)
	}

	p, err := api.Processors.Create(cmd.Context(), create)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(p)
	}

	fmt.Printf("✓ Created processor %d: %s\n", p.ID, p.Name)
	return nil
}

func runProcessorsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "processor")
	if err != nil {
		return err
	}

	var update models.ProcessorUpdate
	if cmd.Flags().Changed("name") {
		update.Name = &procName
	}
	if cmd.Flags().Changed("description") {
		update.Description = &procDescription
	}
	if cmd.Flags().Changed("status") {
		update.Status = &procStatus
	}
	if cmd.Flags().Changed("prompt") {
		prompt, err := os.ReadFile(procPromptFile)
		if err != nil {
			return fmt.Errorf("failed to read prompt file: %w", err)
		}
		text := string(prompt)
		update.PromptTemplate = &text
	}
	if cmd.Flags().Changed("code") {
		code, err := os.ReadFile(procCodeFile)
		if err != nil {
			return fmt.Errorf("failed to read code file: %w", err)
		}
		text := string(code)
		update.PostProcessingCode = &text
	}

	p, err := api.Processors.Update(cmd.Context(), id, update)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(p)
	}

	fmt.Printf("✓ Updated processor %d\n", p.ID)
	return nil
}

func runProcessorsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "processor")
	if err != nil {
		return err
	}

	if err := api.Processors.Delete(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted processor %d\n", id)
	return nil
}

func runProcessorsAssign(cmd *cobra.Command, args []string) error {
	processorID, err := parseID(args[0], "processor")
	if err != nil {
		return err
	}
	questionnaireID, err := parseID(args[1], "questionnaire")
	if err != nil {
		return err
	}

	mappings, err := api.Processors.Assign(cmd.Context(), processorID, questionnaireID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(mappings)
	}

	fmt.Printf("✓ Assigned processor %d to questionnaire %d\n", processorID, questionnaireID)
	return nil
}

func runProcessorsUnassign(cmd *cobra.Command, args []string) error {
	processorID, err := parseID(args[0], "processor")
	if err != nil {
		return err
	}
	questionID, err := parseID(args[1], "question")
	if err != nil {
		return err
	}

	if err := api.Processors.Unassign(cmd.Context(), processorID, questionID); err != nil {
		return err
	}

	fmt.Printf("✓ Removed processor %d from question %d\n", processorID, questionID)
	return nil
}

func runProcessorsResults(cmd *cobra.Command, args []string) error {
	responseID, err := parseID(args[0], "response")
	if err != nil {
		return err
	}

	results, err := api.Processors.ResultsForResponse(cmd.Context(), responseID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(results)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROCESSOR\tSTATUS\tUPDATED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", r.ID, r.ProcessorID, r.Status, r.UpdatedAt)
	}
	w.Flush()
	return nil
}

func runProcessorsResult(cmd *cobra.Command, args []string) error {
	resultID, err := parseID(args[0], "result")
	if err != nil {
		return err
	}

	result, err := api.Processors.Result(cmd.Context(), resultID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}

	fmt.Printf("Result %d (processor %d, %s)\n", result.ID, result.ProcessorID, result.Status)
	if result.ErrorMessage != "" {
		fmt.Printf("Error: %s\n", result.ErrorMessage)
	}
	fmt.Println()
	fmt.Println("Raw output:")
	fmt.Println(result.RawOutput)
	if result.ProcessedOutput != nil {
		fmt.Println()
		fmt.Println("Processed output:")
		return outputJSON(result.ProcessedOutput)
	}
	return nil
}

func runProcessorsRequeue(cmd *cobra.Command, args []string) error {
	responseID, err := parseID(args[0], "response")
	if err != nil {
		return err
	}

	var processorID *int
	if requeueProcessorID > 0 {
		processorID = &requeueProcessorID
	}

	if err := api.Processors.Requeue(cmd.Context(), responseID, processorID); err != nil {
		return err
	}

	fmt.Printf("✓ Requeued response %d for processing\n", responseID)
	return nil
}
