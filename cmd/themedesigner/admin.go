package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/artpar/themedesigner/adapters/hasher"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin API access",
	Long: `Manage access to the admin API.

The admin API uses HTTP basic auth. The password is stored in the config
file as a bcrypt hash under admin.password_hash.

Examples:
  themedesigner admin hash-password
  echo -n secret | themedesigner admin hash-password --stdin`,
}

var adminHashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for admin.password_hash",
	Long: `Hash a password for the admin.password_hash config key.

If --stdin is not set, you will be prompted to enter the password twice.`,
	Args: cobra.NoArgs,
	RunE: runAdminHashPassword,
}

var (
	hashCost  int
	hashStdin bool
)

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminHashPasswordCmd)

	adminHashPasswordCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	adminHashPasswordCmd.Flags().BoolVar(&hashStdin, "stdin", false, "read the password from stdin")
}

func runAdminHashPassword(cmd *cobra.Command, args []string) error {
	var password string
	if hashStdin {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	} else {
		var err error
		password, err = promptPassword("Enter password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := hasher.NewBcrypt(hashCost).Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Println(string(hash))
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
