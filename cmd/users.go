package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// usersCmd groups operator-facing user management.
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		u, err := db.CreateUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(u.ID)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		users, err := db.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%s\t%s\t%s\n", u.ID, u.Email, u.CreatedAt)
		}
		return nil
	},
}

var usersRmCmd = &cobra.Command{
	Use:   "rm <user-id>",
	Short: "Delete a user and their tracked profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		return db.DeleteUser(cmd.Context(), args[0])
	},
}

func init() {
	usersCmd.AddCommand(usersAddCmd, usersListCmd, usersRmCmd)
	rootCmd.AddCommand(usersCmd)
}
