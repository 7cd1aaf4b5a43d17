// Command listable serves paginated, searchable lists of the resources
// described in RESOURCES_DIR.
//
// Usage:
//
//	listable serve
//	listable list inventory_log --limit 5 --search bolt
//	listable validate
//
// Database settings come from the environment or a .env file next to go.mod.
package main

import (
	"fmt"
	"os"

	"ListableAPI/internal/logger"
)

func main() {
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
