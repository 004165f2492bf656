package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// profilesCmd groups operator-facing tracked-profile management.
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage tracked Steam profiles",
}

var profilesAddCmd = &cobra.Command{
	Use:   "add <user-id> <steam-id>",
	Short: "Track a Steam profile for a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		p, err := db.CreateProfile(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(p.ID)
		return nil
	},
}

var profilesListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List a user's tracked profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		profiles, err := db.ListProfilesByUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, p := range profiles {
			pointer := p.ArtifactPointer
			if pointer == "" {
				pointer = "-"
			}
			fmt.Printf("%s\t%s\t%s\t%s\n", p.ID, p.SteamID, pointer, p.LastUpdated)
		}
		return nil
	},
}

var profilesRmCmd = &cobra.Command{
	Use:   "rm <profile-id>",
	Short: "Stop tracking a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		return db.DeleteProfile(cmd.Context(), args[0])
	},
}

func init() {
	profilesCmd.AddCommand(profilesAddCmd, profilesListCmd, profilesRmCmd)
	rootCmd.AddCommand(profilesCmd)
}
