package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trainhub/trainctl/pkg/models"
	"github.com/trainhub/trainctl/pkg/secrets"
)

var loginEmail string

// loginCmd authenticates against the API and stores the session token
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the TrainHub API",
	Long: `Authenticates with email and password and stores the returned session
token. With use_keyring enabled the token goes to the system keyring,
otherwise it is written to the config file.

Examples:
  trainctl login
  trainctl login --email trainer@example.com`,
	RunE: runLogin,
}

// logoutCmd discards the stored session token
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored session token",
	RunE:  runLogout,
}

// signupCmd creates a new account
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new TrainHub account",
	Long:  `Interactive signup: creates an account, then run 'trainctl login' to start a session.`,
	RunE:  runSignup,
}

// whoamiCmd shows the authenticated user
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	Long: `Shows the account behind the stored session token. Exits with an
error when no session is active or the token has expired.

Examples:
  trainctl whoami
  trainctl whoami --json`,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (defaults to the configured email)")
}

// readPassword prompts for a password without echoing it
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := loginEmail
	if email == "" {
		email = cfg.Email
	}
	if email == "" {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Email address: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	token, err := api.Auth.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	// Persist the token where the config says it belongs
	if cfg.UseKeyring {
		store := secrets.NewStore()
		if err := store.Set(email, token.AccessToken); err != nil {
			fmt.Printf("Warning: failed to store token in keyring: %v\n", err)
			fmt.Println("Falling back to storing the token in the config file.")
			cfg.Token = token.AccessToken
		}
	} else {
		cfg.Token = token.AccessToken
	}

	cfg.Email = email
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Logged in as %s %s (%s)\n", token.User.FirstName, token.User.LastName, token.User.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if cfg.Email != "" {
		store := secrets.NewStore()
		if err := store.Delete(cfg.Email); err != nil {
			fmt.Printf("Warning: failed to remove token from keyring: %v\n", err)
		}
	}

	if cfg.Token != "" {
		cfg.Token = ""
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	fmt.Println("✓ Logged out")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	prompt := func(label string) (string, error) {
		fmt.Print(label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	email, err := prompt("Email address: ")
	if err != nil {
		return err
	}
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	firstName, err := prompt("First name: ")
	if err != nil {
		return err
	}
	lastName, err := prompt("Last name: ")
	if err != nil {
		return err
	}
	dob, err := prompt("Date of birth (YYYY-MM-DD, optional): ")
	if err != nil {
		return err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	created, err := api.Auth.Signup(cmd.Context(), models.SignupRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		DOB:       dob,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Account created (id %d). Run 'trainctl login' to start a session.\n", created.ID)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	user, err := api.Users.Me(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(user)
	}

	fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	fmt.Printf("Role: %s\n", user.Role)
	fmt.Printf("ID:   %d\n", user.ID)
	return nil
}
