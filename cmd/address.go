package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trainhub/trainctl/pkg/models"
)

var (
	addrStreet     string
	addrCity       string
	addrState      string
	addrPostalCode string
	addrCountry    string
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Manage your postal address",
	Long:  `View and manage the postal address attached to your account. Each account has at most one address.`,
}

var addressGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show your address",
	RunE:  runAddressGet,
}

var addressSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update your address",
	Long: `Creates your address, or updates the provided fields when one
already exists.

Examples:
  trainctl address set --street "1 Main St" --city Springfield \
    --state IL --postal-code 62701 --country US`,
	RunE: runAddressSet,
}

var addressDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your address",
	RunE:  runAddressDelete,
}

func init() {
	rootCmd.AddCommand(addressCmd)
	addressCmd.AddCommand(addressGetCmd)
	addressCmd.AddCommand(addressSetCmd)
	addressCmd.AddCommand(addressDeleteCmd)

	addressSetCmd.Flags().StringVar(&addrStreet, "street", "", "street address")
	addressSetCmd.Flags().StringVar(&addrCity, "city", "", "city")
	addressSetCmd.Flags().StringVar(&addrState, "state", "", "state or region")
	addressSetCmd.Flags().StringVar(&addrPostalCode, "postal-code", "", "postal code")
	addressSetCmd.Flags().StringVar(&addrCountry, "country", "", "country")
}

func printAddress(addr *models.Address) {
	fmt.Println(addr.StreetAddress)
	fmt.Printf("%s, %s %s\n", addr.City, addr.State, addr.PostalCode)
	fmt.Println(addr.Country)
}

func runAddressGet(cmd *cobra.Command, args []string) error {
	addr, found, err := api.Address.Get(cmd.Context())
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("No address on file. Use 'trainctl address set' to add one.")
		return nil
	}

	if jsonOutput {
		return outputJSON(addr)
	}

	printAddress(addr)
	return nil
}

func runAddressSet(cmd *cobra.Command, args []string) error {
	_, found, err := api.Address.Get(cmd.Context())
	if err != nil {
		return err
	}

	var addr *models.Address
	if !found {
		// No address yet: every field is needed for the create
		if addrStreet == "" || addrCity == "" || addrState == "" || addrPostalCode == "" || addrCountry == "" {
			return fmt.Errorf("--street, --city, --state, --postal-code, and --country are required to create an address")
		}
		addr, err = api.Address.Create(cmd.Context(), models.AddressCreate{
			StreetAddress: addrStreet,
			City:          addrCity,
			State:         addrState,
			PostalCode:    addrPostalCode,
			Country:       addrCountry,
		})
	} else {
		var update models.AddressUpdate
		if cmd.Flags().Changed("street") {
			update.StreetAddress = &addrStreet
		}
		if cmd.Flags().Changed("city") {
			update.City = &addrCity
		}
		if cmd.Flags().Changed("state") {
			update.State = &addrState
		}
		if cmd.Flags().Changed("postal-code") {
			update.PostalCode = &addrPostalCode
		}
		if cmd.Flags().Changed("country") {
			update.Country = &addrCountry
		}
		addr, err = api.Address.Update(cmd.Context(), update)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(addr)
	}

	fmt.Println("✓ Address saved:")
	printAddress(addr)
	return nil
}

func runAddressDelete(cmd *cobra.Command, args []string) error {
	if err := api.Address.Delete(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("✓ Address deleted")
	return nil
}
