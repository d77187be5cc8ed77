package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jokesdk/pkg/auth"
)

// authCmd groups credential management subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored API credentials",
	Long: `Manage stored API credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

var storeCmd = &cobra.Command{
	Use:   "store <profile>",
	Short: "Store credentials for a profile",
	Long: `Store credentials securely under a profile name.

You will be prompted for an API key, token, or username/password pair.
Secrets are hidden as you type.`,
	Example: `  # Store an API key under the default profile
  jokes auth store default

  # Store staging credentials
  jokes auth store staging`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthStore,
}

var showCmd = &cobra.Command{
	Use:   "show [profile]",
	Short: "Show stored credentials",
	Long:  `Show stored credentials with secrets masked. Lists all profiles when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuthShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <profile>",
	Short: "Remove stored credentials",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthDelete,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(storeCmd)
	authCmd.AddCommand(showCmd)
	authCmd.AddCommand(deleteCmd)
}

func runAuthStore(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	if existing, _ := manager.Retrieve(profileName); existing != nil {
		fmt.Printf("Profile %q already exists. Update credentials? (y/N): ", profileName)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Println("Credential type:")
	fmt.Println("  1. API key")
	fmt.Println("  2. Bearer token")
	fmt.Println("  3. Username and password")
	fmt.Print("Choice (1-3): ")
	choice, _ := reader.ReadString('\n')

	cred := &auth.Credential{Profile: profileName}

	switch strings.TrimSpace(choice) {
	case "1":
		fmt.Print("API key: ")
		key, err := readSecret()
		if err != nil {
			return err
		}
		cred.APIKey = key
	case "2":
		fmt.Print("Token: ")
		token, err := readSecret()
		if err != nil {
			return err
		}
		cred.Token = token
	case "3":
		fmt.Print("Username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		cred.Username = strings.TrimSpace(username)

		fmt.Print("Password: ")
		password, err := readSecret()
		if err != nil {
			return err
		}
		cred.Password = password
	default:
		return fmt.Errorf("invalid choice %q", strings.TrimSpace(choice))
	}

	if err := manager.Store(cred); err != nil {
		return err
	}

	fmt.Printf("Credentials stored for profile %q.\n", profileName)
	fmt.Printf("Use them with: jokes --profile %s <command>\n", profileName)
	return nil
}

func runAuthShow(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var creds []*auth.Credential
	if len(args) == 1 {
		cred, err := manager.Retrieve(args[0])
		if err != nil {
			return err
		}
		creds = append(creds, cred)
	} else {
		creds, err = manager.List()
		if err != nil {
			return err
		}
	}

	if len(creds) == 0 {
		fmt.Println("No stored credentials. Use 'jokes auth store <profile>' to add some.")
		return nil
	}

	for _, cred := range creds {
		sanitized := auth.Sanitize(cred)
		fmt.Printf("Profile: %s\n", sanitized.Profile)
		if sanitized.APIKey != "" {
			fmt.Printf("  API key:  %s\n", sanitized.APIKey)
		}
		if sanitized.Token != "" {
			fmt.Printf("  Token:    %s\n", sanitized.Token)
		}
		if sanitized.Username != "" {
			fmt.Printf("  Username: %s\n", sanitized.Username)
			fmt.Printf("  Password: %s\n", sanitized.Password)
		}
		if !sanitized.LastModified.IsZero() {
			fmt.Printf("  Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}
	return nil
}

func runAuthDelete(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(args[0]); err != nil {
		return err
	}

	fmt.Printf("Credentials removed for profile %q.\n", args[0])
	return nil
}

// readSecret reads a secret from stdin without echoing
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
