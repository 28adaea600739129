package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"modx/internal/auth"
	"modx/internal/config"
)

var (
	// oauthClient is used for the JWT bearer exchange; nil means the default.
	oauthClient *http.Client
	stdin       = os.Stdin
)

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Authorize and inspect orgs",
}

var orgLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store credentials for an org under an alias",
	Long: `Stores an access token for an org in the OS keyring and records the
instance in ~/.modx.yaml.

With --jwt-key-file, --client-id and --username the token is obtained through
the OAuth JWT bearer flow. Otherwise the token is read from the terminal
without echo, or from stdin when it is piped.`,
	Example: `  modx org login -a dev --instance-url https://dev.my.salesforce.com
  modx org login -a ci --client-id 3MVG9... --username ci@example.com --jwt-key-file server.key`,
	Args: cobra.NoArgs,
	RunE: runOrgLogin,
}

var orgLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget an org's credentials",
	Args:  cobra.NoArgs,
	RunE:  runOrgLogout,
}

var orgDisplayCmd = &cobra.Command{
	Use:   "display",
	Short: "Show the org commands will deploy to",
	Args:  cobra.NoArgs,
	RunE:  runOrgDisplay,
}

func init() {
	f := orgLoginCmd.Flags()
	f.StringP("alias", "a", "", "alias to store the org under")
	f.String("instance-url", "", "instance URL, e.g. https://mydomain.my.salesforce.com")
	f.String("login-url", auth.DefaultLoginURL, "login host for the JWT bearer flow")
	f.String("client-id", "", "connected app consumer key")
	f.String("username", "", "username to authorize as")
	f.String("jwt-key-file", "", "private key registered with the connected app")
	_ = orgLoginCmd.MarkFlagRequired("alias")

	orgLogoutCmd.Flags().StringP("alias", "a", "", "alias to forget (defaults to the target org)")

	orgCmd.AddCommand(orgLoginCmd, orgLogoutCmd, orgDisplayCmd)
	rootCmd.AddCommand(orgCmd)
}

func runOrgLogin(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	alias, _ := f.GetString("alias")
	instanceURL, _ := f.GetString("instance-url")
	loginURL, _ := f.GetString("login-url")
	clientID, _ := f.GetString("client-id")
	username, _ := f.GetString("username")
	keyFile, _ := f.GetString("jwt-key-file")

	org := config.Org{InstanceURL: instanceURL, Username: username}
	var token string
	if keyFile != "" {
		key, err := auth.LoadPrivateKey(keyFile)
		if err != nil {
			return err
		}
		tok, err := auth.Exchange(cmd.Context(), oauthClient, auth.BearerOptions{
			LoginURL: loginURL,
			ClientID: clientID,
			Username: username,
			Key:      key,
		})
		if err != nil {
			return err
		}
		token = tok.AccessToken
		if org.InstanceURL == "" {
			org.InstanceURL = tok.InstanceURL
		}
		org.LoginURL = loginURL
		org.ClientID = clientID
		org.KeyFile = keyFile
	} else {
		if org.InstanceURL == "" {
			return errors.New("--instance-url is required without --jwt-key-file")
		}
		var err error
		if term.IsTerminal(int(stdin.Fd())) {
			token, err = auth.PromptToken(int(stdin.Fd()), cmd.ErrOrStderr())
		} else {
			token, err = auth.ReadToken(stdin)
		}
		if err != nil {
			return err
		}
	}
	org.InstanceURL = strings.TrimRight(org.InstanceURL, "/")

	_, home, err := workDirs()
	if err != nil {
		return err
	}
	if err := tokens.Save(alias, token); err != nil {
		return err
	}
	if err := config.SetOrg(home, alias, org); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Authorized %s at %s\n", green("✔"), bold(alias), org.InstanceURL)
	return nil
}

func runOrgLogout(cmd *cobra.Command, _ []string) error {
	alias, _ := cmd.Flags().GetString("alias")
	if alias == "" {
		alias = targetOrg
	}
	if alias == "" {
		return config.ErrNoOrg
	}
	_, home, err := workDirs()
	if err != nil {
		return err
	}
	if err := tokens.Delete(alias); err != nil {
		return err
	}
	removed, err := config.RemoveOrg(home, alias)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s was not logged in\n", yellow("⚠️"), alias)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Logged out of %s\n", green("✔"), bold(alias))
	return nil
}

type orgOutput struct {
	Alias        string `json:"alias"`
	InstanceURL  string `json:"instanceUrl"`
	Username     string `json:"username,omitempty"`
	APIVersion   string `json:"apiVersion"`
	Connected    bool   `json:"connected"`
	PollInterval string `json:"pollInterval"`
	MaxPolls     int    `json:"maxPolls"`
}

func runOrgDisplay(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := s.RequireOrg(); err != nil {
		return err
	}
	connected := s.AccessToken != ""
	if !connected && s.Org != "" {
		_, err := tokens.Load(s.Org)
		connected = err == nil
	}
	o := orgOutput{
		Alias:        s.Org,
		InstanceURL:  s.InstanceURL,
		Username:     s.OrgConfig.Username,
		APIVersion:   s.APIVersion,
		Connected:    connected,
		PollInterval: s.PollInterval.String(),
		MaxPolls:     s.MaxPolls,
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, o)
	}
	status := red("no stored token")
	if connected {
		status = green("token stored")
	}
	fmt.Fprintf(out, "%s %s\n", bold("Alias:"), o.Alias)
	fmt.Fprintf(out, "%s %s\n", bold("Instance:"), o.InstanceURL)
	if o.Username != "" {
		fmt.Fprintf(out, "%s %s\n", bold("Username:"), o.Username)
	}
	fmt.Fprintf(out, "%s v%s\n", bold("API version:"), o.APIVersion)
	fmt.Fprintf(out, "%s %s\n", bold("Status:"), status)
	return nil
}
