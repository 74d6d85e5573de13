package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/codybmenefee/custodian-integration-tool/adapters/hasher"
	"github.com/codybmenefee/custodian-integration-tool/adapters/idgen"
	"github.com/codybmenefee/custodian-integration-tool/adapters/sqlite"
	"github.com/codybmenefee/custodian-integration-tool/config"
	"github.com/codybmenefee/custodian-integration-tool/ports"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
	Long: `Manage custodian user accounts.

Examples:
  custodian users list
  custodian users create --email=ops@example.com --password=secret
  custodian users delete <user-id>`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE:  runUsersList,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	RunE:  runUsersCreate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

var (
	userEmail    string
	userName     string
	userPassword string
)

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersCreateCmd.Flags().StringVar(&userEmail, "email", "", "user email (required)")
	usersCreateCmd.Flags().StringVar(&userName, "name", "", "user name")
	usersCreateCmd.Flags().StringVar(&userPassword, "password", "", "user password (required)")
	usersCreateCmd.MarkFlagRequired("email")
	usersCreateCmd.MarkFlagRequired("password")
}

// openDatabase opens the database named by the active configuration.
func openDatabase() (*sqlite.DB, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, err
	}
	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runUsersList(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := sqlite.NewUserStore(db).List(context.Background(), 500, 0)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		fmt.Println()
		fmt.Println("Create one with: custodian users create --email=ops@example.com --password=...")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tCREATED")
	fmt.Fprintln(w, "--\t-----\t----\t-------")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.CreatedAt.Format("2006-01-02"))
	}
	w.Flush()
	return nil
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	h := hasher.NewBcrypt(10)
	hash, err := h.Hash(userPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := ports.User{
		ID:           idgen.UUID{}.New(),
		Email:        userEmail,
		Name:         userName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := sqlite.NewUserStore(db).Create(context.Background(), u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Printf("%s Created user: %s\n", checkMark, u.ID)
	fmt.Printf("   Email: %s\n", u.Email)
	if u.Name != "" {
		fmt.Printf("   Name:  %s\n", u.Name)
	}
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.NewUserStore(db).Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	fmt.Printf("%s Deleted user: %s\n", checkMark, args[0])
	return nil
}
