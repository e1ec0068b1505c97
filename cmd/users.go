package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trainhub/trainctl/pkg/models"
)

var (
	userEmail     string
	userPassword  string
	userFirstName string
	userLastName  string
	userRole      string
	userDOB       string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage platform accounts",
	Long:  `List, inspect, and manage TrainHub accounts. Most subcommands require a trainer or administrator role.`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Long: `Lists every account on the platform (administrator only).

Examples:
  trainctl users list
  trainctl users list --json`,
	RunE: runUsersList,
}

var usersClientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List client accounts",
	Long:  `Lists client accounts visible to the caller (trainer or administrator).`,
	RunE:  runUsersClients,
}

var usersGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Get a single account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGet,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	Long: `Creates an account with an explicit role (administrator only).

Examples:
  trainctl users create --email t@example.com --password secret \
    --first-name Terry --last-name Trainer --role TRAINER`,
	RunE: runUsersCreate,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersClientsCmd)
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersCreateCmd.Flags().StringVar(&userEmail, "email", "", "account email (required)")
	usersCreateCmd.Flags().StringVar(&userPassword, "password", "", "initial password (required)")
	usersCreateCmd.Flags().StringVar(&userFirstName, "first-name", "", "first name (required)")
	usersCreateCmd.Flags().StringVar(&userLastName, "last-name", "", "last name (required)")
	usersCreateCmd.Flags().StringVar(&userRole, "role", "CLIENT", "role: CLIENT, TRAINER, or ADMINISTRATOR")
	usersCreateCmd.Flags().StringVar(&userDOB, "dob", "", "date of birth (YYYY-MM-DD)")

	usersUpdateCmd.Flags().StringVar(&userFirstName, "first-name", "", "new first name")
	usersUpdateCmd.Flags().StringVar(&userLastName, "last-name", "", "new last name")
	usersUpdateCmd.Flags().StringVar(&userRole, "role", "", "new role")
	usersUpdateCmd.Flags().StringVar(&userDOB, "dob", "", "new date of birth (YYYY-MM-DD)")
}

// parseID parses a positional numeric ID argument
func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, arg)
	}
	return id, nil
}

func printUsers(users []models.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\n", u.ID, u.Email, u.FirstName, u.LastName, u.Role)
	}
	w.Flush()
}

func runUsersList(cmd *cobra.Command, args []string) error {
	users, err := api.Users.List(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(users)
	}

	printUsers(users)
	return nil
}

func runUsersClients(cmd *cobra.Command, args []string) error {
	clients, err := api.Users.Clients(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(clients)
	}

	printUsers(clients)
	return nil
}

func runUsersGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "user")
	if err != nil {
		return err
	}

	user, err := api.Users.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(user)
	}

	fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	fmt.Printf("Role: %s\n", user.Role)
	fmt.Printf("ID:   %d\n", user.ID)
	if user.DOB != "" {
		fmt.Printf("DOB:  %s\n", user.DOB)
	}
	return nil
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	if userEmail == "" || userPassword == "" || userFirstName == "" || userLastName == "" {
		return fmt.Errorf("--email, --password, --first-name, and --last-name are required")
	}

	user, err := api.Users.Create(cmd.Context(), models.UserCreate{
		Email:     userEmail,
		Password:  userPassword,
		FirstName: userFirstName,
		LastName:  userLastName,
		Role:      models.UserRole(userRole),
		DOB:       userDOB,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(user)
	}

	fmt.Printf("✓ Created user %d: %s %s (%s)\n", user.ID, user.FirstName, user.LastName, user.Role)
	return nil
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "user")
	if err != nil {
		return err
	}

	var update models.UserUpdate
	if cmd.Flags().Changed("first-name") {
		update.FirstName = &userFirstName
	}
	if cmd.Flags().Changed("last-name") {
		update.LastName = &userLastName
	}
	if cmd.Flags().Changed("role") {
		role := models.UserRole(userRole)
		update.Role = &role
	}
	if cmd.Flags().Changed("dob") {
		update.DOB = &userDOB
	}

	user, err := api.Users.Update(cmd.Context(), id, update)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(user)
	}

	fmt.Printf("✓ Updated user %d\n", user.ID)
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "user")
	if err != nil {
		return err
	}

	if err := api.Users.Delete(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted user %d\n", id)
	return nil
}
