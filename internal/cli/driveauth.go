package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/helios/internal/docs"
)

func init() {
	cmd := &cobra.Command{
		Use:   "drive-auth",
		Short: "Authorize read access to Google Drive and Docs",
		Long:  "Run the OAuth consent flow once and cache the token used to search meeting notes.",
		Args:  cobra.NoArgs,
		Run:   runDriveAuth,
	}

	RootCmd.AddCommand(cmd)
}

func runDriveAuth(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("configure", err)
	}
	if err := docs.Authorize(cmd.Context(), cfg.Drive.CredentialsFile, cfg.Drive.TokenFile, os.Stdin, os.Stdout); err != nil {
		exitErr("authorize", err)
	}
	fmt.Printf("Token saved to %s\n", cfg.Drive.TokenFile)
}
