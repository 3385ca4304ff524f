package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect the stored calendar credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		out := cmd.OutOrStdout()
		cred, err := a.credentials.Load()
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(out, "No credential file at %s\n", a.credentials.TokenFile())
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "File:     %s\n", a.credentials.TokenFile())
		fmt.Fprintf(out, "Complete: %t\n", cred.Complete())
		fmt.Fprintf(out, "Valid:    %t\n", cred.Valid())
		if !cred.Expiry.IsZero() {
			fmt.Fprintf(out, "Expiry:   %s\n", cred.Expiry.Local())
		}
		if !cred.Valid() {
			return nil
		}

		info, err := a.calendar.Describe(ctx, cred)
		if err != nil {
			fmt.Fprintf(out, "Calendar: unreachable (%v)\n", err)
			return nil
		}
		fmt.Fprintf(out, "Calendar: %s (%s)\n", info.Summary, info.TimeZone)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
