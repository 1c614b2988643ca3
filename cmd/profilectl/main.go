// profilectl is the command line client of the profile directory.
package main

import (
	"os"

	"profile-listing-go/internal/profilectl"
)

func main() {
	if err := profilectl.Execute(profilectl.NewDefaultCommand()); err != nil {
		os.Exit(1)
	}
}
