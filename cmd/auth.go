package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/clil-studio/internal/auth"
	"github.com/ziadkadry99/clil-studio/internal/client"
	"github.com/ziadkadry99/clil-studio/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in to a clilstudio server",
	Long: `Sign in to the server named by backend_url and manage the stored token.

Credentials are stored in ~/.clilstudio/credentials.json and sent with
every request to the server.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Opens your browser for Google sign-in and exchanges the Google token
for a clilstudio token at the server.

The OAuth client is read from google.client_id / google.client_secret,
GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET, the stored credentials, or
asked for. Create one at https://console.cloud.google.com/apis/credentials`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authTokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a token signed with the server's secret",
	Long: `Issues a token for a user id with server.jwt_secret, without Google.
Use it for scripts and local testing against your own server.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthToken,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

func init() {
	authTokenCmd.Flags().String("email", "", "email claim of the token")
	authTokenCmd.Flags().Bool("save", false, "store the token as the CLI's credentials")

	authCmd.AddCommand(authLoginCmd, authTokenCmd, authStatusCmd, authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

// googleClient resolves the OAuth client, prompting for missing parts.
func googleClient(cfg *config.Config, creds *auth.Credentials) (id, secret string, err error) {
	id, secret = cfg.Google.ClientID, cfg.Google.ClientSecret
	if id == "" {
		id = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if secret == "" {
		secret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if creds.Google != nil {
		if id == "" {
			id = creds.Google.ClientID
		}
		if secret == "" {
			secret = creds.Google.ClientSecret
		}
	}

	reader := bufio.NewReader(os.Stdin)
	if id == "" {
		fmt.Print("Google OAuth2 Client ID: ")
		input, _ := reader.ReadString('\n')
		if id = strings.TrimSpace(input); id == "" {
			return "", "", fmt.Errorf("client ID is required")
		}
	}
	if secret == "" {
		fmt.Print("Google OAuth2 Client Secret: ")
		input, _ := reader.ReadString('\n')
		if secret = strings.TrimSpace(input); secret == "" {
			return "", "", fmt.Errorf("client secret is required")
		}
	}
	return id, secret, nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.BackendURL == "" {
		return fmt.Errorf("backend_url is not set; sign-in is only needed for a remote server")
	}

	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	clientID, clientSecret, err := googleClient(cfg, creds)
	if err != nil {
		return err
	}

	googleToken, err := auth.RunGoogleOAuth(ctx, clientID, clientSecret)
	if err != nil {
		return fmt.Errorf("OAuth flow failed: %w", err)
	}

	resp, err := client.New(cfg.BackendURL).SignInWithGoogle(ctx, googleToken.AccessToken)
	if err != nil {
		return fmt.Errorf("signing in to %s: %w", cfg.BackendURL, err)
	}

	creds.Server = cfg.BackendURL
	creds.Token = resp.Token
	creds.Expiry = resp.Expiry
	creds.User = resp.User
	creds.Google = &auth.GoogleCredentials{ClientID: clientID, ClientSecret: clientSecret}
	if err := auth.Save(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	fmt.Printf("Signed in as %s\n", displayUser(resp.User))
	return nil
}

func runAuthToken(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	save, _ := cmd.Flags().GetBool("save")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer(cfg.Server.JWTSecret, time.Duration(cfg.Server.TokenTTLHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("server.jwt_secret: %w", err)
	}

	u := auth.User{ID: args[0], Email: email}
	token, exp, err := issuer.Issue(u)
	if err != nil {
		return err
	}

	if save {
		creds, err := auth.Load()
		if err != nil {
			return fmt.Errorf("loading credentials: %w", err)
		}
		creds.Server = cfg.BackendURL
		creds.Token = token
		creds.Expiry = exp
		creds.User = u
		if err := auth.Save(creds); err != nil {
			return fmt.Errorf("saving credentials: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Token stored for %s (expires %s)\n", displayUser(u), exp.Local().Format(time.DateTime))
		return nil
	}
	fmt.Println(token)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	path, _ := auth.CredentialPath()
	fmt.Printf("Credentials file: %s\n\n", path)

	if !creds.Valid() {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("  User:    %s\n", displayUser(creds.User))
	if creds.Server != "" {
		fmt.Printf("  Server:  %s\n", creds.Server)
	}
	if !creds.Expiry.IsZero() {
		fmt.Printf("  Expires: %s\n", creds.Expiry.Local().Format(time.DateTime))
	}

	// Ask the server whether it still accepts the token.
	if creds.Server != "" {
		ts, _ := creds.TokenSource()
		if _, err := client.New(creds.Server, client.WithTokenSource(ts)).Me(cmd.Context()); err != nil {
			fmt.Printf("  Status:  rejected (%v)\n", err)
		} else {
			fmt.Println("  Status:  valid")
		}
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	if err := auth.Clear(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func displayUser(u auth.User) string {
	if u.Email != "" {
		return fmt.Sprintf("%s (%s)", u.Email, u.ID)
	}
	return u.ID
}
