package cmd

import (
	"encoding/json"
	"os"
)

// outputJSON writes any value to stdout as indented JSON
func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
