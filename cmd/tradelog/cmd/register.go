package cmd

import (
	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "username")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email address")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "password (prompted when omitted)")
}

func runRegister(cmd *cobra.Command, args []string) error {
	var err error
	if registerUsername == "" {
		if registerUsername, err = promptLine("Username"); err != nil {
			return err
		}
	}
	if registerEmail == "" {
		if registerEmail, err = promptLine("Email"); err != nil {
			return err
		}
	}
	if registerPassword == "" {
		if registerPassword, err = promptLine("Password"); err != nil {
			return err
		}
	}

	if err := client.Register(cmd.Context(), registerUsername, registerEmail, registerPassword); err != nil {
		return err
	}

	out.Successf("Account created. Run 'tradelog login' to sign in.")
	return nil
}
