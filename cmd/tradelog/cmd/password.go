package cmd

import (
	"github.com/spf13/cobra"
)

var (
	resetEmail    string
	resetOTP      string
	resetPassword string
)

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Email a password-reset code",
	Args:  cobra.ExactArgs(1),
	RunE:  runForgotPassword,
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password using the emailed code",
	Args:  cobra.NoArgs,
	RunE:  runResetPassword,
}

func init() {
	rootCmd.AddCommand(forgotPasswordCmd)
	rootCmd.AddCommand(resetPasswordCmd)

	resetPasswordCmd.Flags().StringVarP(&resetEmail, "email", "e", "", "account email")
	resetPasswordCmd.Flags().StringVarP(&resetOTP, "otp", "o", "", "code from the reset email")
	resetPasswordCmd.Flags().StringVarP(&resetPassword, "new-password", "n", "", "new password (prompted when omitted)")
}

func runForgotPassword(cmd *cobra.Command, args []string) error {
	if err := client.ForgotPassword(cmd.Context(), args[0]); err != nil {
		return err
	}
	out.Successf("Reset code sent to %s.", args[0])
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	var err error
	if resetEmail == "" {
		if resetEmail, err = promptLine("Email"); err != nil {
			return err
		}
	}
	if resetOTP == "" {
		if resetOTP, err = promptLine("Code"); err != nil {
			return err
		}
	}
	if resetPassword == "" {
		if resetPassword, err = promptLine("New password"); err != nil {
			return err
		}
	}

	// Verify the code first so a typo fails before the password changes.
	if _, err := client.VerifyOTP(cmd.Context(), resetEmail, resetOTP); err != nil {
		return err
	}
	if err := client.ResetPassword(cmd.Context(), resetEmail, resetOTP, resetPassword); err != nil {
		return err
	}

	out.Successf("Password reset. Run 'tradelog login' to sign in.")
	return nil
}
