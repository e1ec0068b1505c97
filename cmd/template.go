package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage questionnaire templates",
	Long:  `Manage YAML questionnaire templates used by 'trainctl questionnaires create --template'.`,
}

var templateInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize templates by copying defaults to user directory",
	Long: `Copies the built-in questionnaire templates (feedback, pre-test) to
~/.trainctl/templates/ for customization. Existing templates will not
be overwritten.`,
	RunE: runTemplateInit,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Long:  `Lists all available templates across the local, user, and built-in sources.`,
	RunE:  runTemplateList,
}

var templateShowCmd = &cobra.Command{
	Use:   "show <template-name>",
	Short: "Show template contents",
	Long:  `Displays the contents of a specific template.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateShow,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateInitCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
}

func runTemplateInit(cmd *cobra.Command, args []string) error {
	svc := newTemplateService()
	targetDir := svc.GetResolver().UserDir

	if err := svc.InitTemplatesToDir(targetDir); err != nil {
		return fmt.Errorf("failed to initialize templates: %w", err)
	}

	fmt.Printf("✓ Templates initialized in: %s\n", targetDir)
	fmt.Println("\nAvailable templates:")
	for _, name := range svc.GetBuiltinNames() {
		fmt.Printf("  - %s.yaml\n", name)
	}
	fmt.Printf("\nYou can customize these templates by editing the files in %s\n", targetDir)

	return nil
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	svc := newTemplateService()

	templates := svc.ListTemplates()
	if len(templates) == 0 {
		fmt.Println("No templates found. Run 'trainctl template init' to initialize default templates.")
		return nil
	}

	if jsonOutput {
		return outputJSON(templates)
	}

	fmt.Println("Available templates:")
	for _, info := range templates {
		fmt.Printf("  - %s (%s)\n", info.Name, info.Source)
	}

	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	templateName := args[0]
	svc := newTemplateService()

	tmpl, err := svc.LoadTemplate(templateName)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(tmpl)
	}

	fmt.Printf("Template: %s\n", templateName)
	fmt.Printf("Questionnaire type: %s\n", tmpl.Type)
	fmt.Println()

	raw, err := yaml.Marshal(tmpl.Questionnaire)
	if err != nil {
		return err
	}
	os.Stdout.Write(raw)

	return nil
}
