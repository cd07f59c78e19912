package cmd

import (
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the journal backend",
	Long:  `Log in with email and password. Tokens are stored locally and reused until they expire or you log out.`,
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the logged-in user",
	Args:    cobra.NoArgs,
	PreRunE: requireAuth,
	RunE:    runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	var err error
	if loginEmail == "" {
		if loginEmail, err = promptLine("Email"); err != nil {
			return err
		}
	}
	if loginPassword == "" {
		if loginPassword, err = promptLine("Password"); err != nil {
			return err
		}
	}

	user, err := client.Login(cmd.Context(), loginEmail, loginPassword)
	if err != nil {
		return err
	}

	out.Successf("Logged in as %s (%s)", user.Username, user.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if !sessions.IsAuthenticated() {
		out.Infof("Already logged out.")
		return nil
	}

	if err := client.Logout(cmd.Context()); err != nil {
		// The local session is already cleared; the backend just could
		// not blacklist the refresh token.
		out.Errorf("backend logout failed: %v", err)
		return nil
	}

	out.Successf("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	user := sessions.User()
	if user == nil {
		out.Infof("Session restored from disk without a user record; run 'tradelog login' to refresh it.")
		return nil
	}

	out.Infof("%s (%s), user id %d", user.Username, user.Email, user.ID)
	return nil
}
