package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trainhub/trainctl/pkg/config"
)

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure trainctl connection settings",
	Long: `Interactive setup wizard to configure the TrainHub API connection.
You will need:
- The API base URL (e.g., https://api.trainhub.example.com)
- Your account email address

Credentials are not stored here: run 'trainctl login' after configuring
to obtain a session token.`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== trainctl Configuration ===")
	fmt.Println()

	// Prompt for API URL
	fmt.Print("API base URL (e.g., https://api.trainhub.example.com): ")
	apiURL, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read API URL: %w", err)
	}
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		return fmt.Errorf("API URL cannot be empty")
	}

	// Prompt for email
	fmt.Print("Email address: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	email = strings.TrimSpace(email)

	// Prompt for request timeout (optional)
	fmt.Print("Request timeout in seconds (optional, press Enter for default): ")
	timeoutAnswer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read timeout: %w", err)
	}
	timeoutAnswer = strings.TrimSpace(timeoutAnswer)
	timeoutSeconds := 0
	if timeoutAnswer != "" {
		timeoutSeconds, err = strconv.Atoi(timeoutAnswer)
		if err != nil || timeoutSeconds < 0 {
			return fmt.Errorf("timeout must be a non-negative number of seconds")
		}
	}

	// Prompt for keyring storage
	fmt.Print("Store session tokens in the system keyring? [Y/n]: ")
	useKeyringAnswer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read keyring preference: %w", err)
	}
	useKeyringAnswer = strings.TrimSpace(strings.ToLower(useKeyringAnswer))
	useKeyring := useKeyringAnswer == "" || useKeyringAnswer == "y" || useKeyringAnswer == "yes"

	// Create config
	newCfg := &config.Config{
		APIURL:         apiURL,
		Email:          email,
		UseKeyring:     useKeyring,
		TimeoutSeconds: timeoutSeconds,
	}

	if err := newCfg.Validate(); err != nil {
		return err
	}

	// Save config
	if err := newCfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, _ := config.GetConfigPath()
	fmt.Printf("✓ Configuration saved to: %s\n", configPath)
	fmt.Println()
	fmt.Println("Next, run 'trainctl login' to start a session.")

	return nil
}
