package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/gatehouse-sec/gatehouse/pkg/db"
	"github.com/gatehouse-sec/gatehouse/pkg/directory"
	"github.com/gatehouse-sec/gatehouse/pkg/directory/gormdir"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage principals in the directory",
	Long:  `Manage principals in the PostgreSQL-backed principal directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (create, retrieve-key, reset-password, delete)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create <login>",
	Short: "Create a principal",
	Long: `Create a principal and print its generated API key.

Example:
  gatehousectl user create alice --roles admin,operator`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		login := args[0]
		roles, _ := cmd.Flags().GetStringSlice("roles")

		apiKey, err := createUser(login, roles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user %s: %v\n", login, err)
			os.Exit(1)
		}
		fmt.Printf("Created %s\nAPI key: %s\n", login, apiKey)
	},
}

var userRetrieveKeyCmd = &cobra.Command{
	Use:   "retrieve-key <login>",
	Short: "Retrieve a principal's API key",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, login := range args {
			apiKey, err := retrieveKey(login)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to retrieve key for %s: %v\n", login, err)
				os.Exit(1)
			}
			fmt.Println(apiKey)
		}
	},
}

var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <login>",
	Short: "Set a principal's password",
	Long: `Set a principal's password for the HTTP Basic (apikey) strategy.

The password is read from the terminal and stored as a bcrypt hash.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		login := args[0]

		fmt.Print("New password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read password: %v\n", err)
			os.Exit(1)
		}

		if err := resetPassword(login, password); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", login, err)
			os.Exit(1)
		}
		fmt.Printf("Password updated for %s\n", login)
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <login>",
	Short: "Delete a principal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		login := args[0]
		if err := deleteUser(login); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete %s: %v\n", login, err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s\n", login)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userRetrieveKeyCmd)
	userCmd.AddCommand(userResetPasswordCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCreateCmd.Flags().StringSlice("roles", nil, "Roles granted to the principal")
}

func openDirectory() (*gormdir.Directory, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return gormdir.New(database), nil
}

func createUser(login string, roles []string) (string, error) {
	dir, err := openDirectory()
	if err != nil {
		return "", err
	}

	apiKey, err := directory.GenerateAPIKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	err = dir.Create(context.Background(), directory.Principal{
		Login:  login,
		APIKey: apiKey,
		Roles:  roles,
	})
	if err != nil {
		return "", err
	}
	return apiKey, nil
}

func retrieveKey(login string) (string, error) {
	dir, err := openDirectory()
	if err != nil {
		return "", err
	}

	principal, err := dir.Lookup(context.Background(), login)
	if err != nil {
		return "", err
	}
	if principal == nil {
		return "", fmt.Errorf("principal %q not found", login)
	}
	if principal.APIKey == "" {
		return "", fmt.Errorf("principal %q has no API key", login)
	}
	return principal.APIKey, nil
}

func resetPassword(login string, password []byte) error {
	if len(password) == 0 {
		return fmt.Errorf("password must not be empty")
	}

	dir, err := openDirectory()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return dir.SetSecretHash(context.Background(), login, hash)
}

func deleteUser(login string) error {
	dir, err := openDirectory()
	if err != nil {
		return err
	}
	return dir.Delete(context.Background(), login)
}
