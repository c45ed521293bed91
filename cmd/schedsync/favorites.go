package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/confsched/schedsync/internal/model"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage the personal schedule",
	Long: `List, add or remove sessions on the personal schedule. Favorites
are stored by session id and survive schedule syncs; a favorite whose
session disappears upstream is dropped silently.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		count := 0
		for _, session := range app.store.Sessions() {
			if !session.IsFavorite {
				continue
			}
			count++
			printSession(session)
		}
		if count == 0 {
			fmt.Println("No sessions on the personal schedule.")
		}
		return nil
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <session-id>",
	Short: "Add a session to the personal schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setFavorite(args[0], true)
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <session-id>",
	Short: "Remove a session from the personal schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setFavorite(args[0], false)
	},
}

func setFavorite(arg string, favorite bool) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("session id %q wrong: %w", arg, err)
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	session := app.store.FindSessionByID(id)
	if session == nil {
		return fmt.Errorf("no session with id %d", id)
	}

	session.IsFavorite = favorite
	app.store.DeriveFavorites()
	if err := app.gateway.WriteFavorites(app.store.Favorites()); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}

	if favorite {
		fmt.Printf("Added to personal schedule:\n")
	} else {
		fmt.Printf("Removed from personal schedule:\n")
	}
	printSession(session)
	return nil
}

func printSession(session *model.Session) {
	fmt.Printf("  [%s] %d  %s  %s\n",
		session.TypeLetter(), session.ID, session.StartToEnd(), session.Title)
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	rootCmd.AddCommand(favoritesCmd)
}
