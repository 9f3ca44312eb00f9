package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"aeroclean/internal/client"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	serverURL   string
	sessionPath string
	lang        string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "aeroclean: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aeroclean",
		Short: "Airport cleaning inspection CLI",
		Long: `aeroclean files and reviews cleaning inspection reports: log in once,
browse locations and their checklists, rate each task and submit the
report with photos attached.`,
		SilenceUsage: true,
	}

	defaultServer := os.Getenv("AEROCLEAN_SERVER")
	if defaultServer == "" {
		defaultServer = "https://cleaning.zvartnots.am"
	}
	cmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultServer, "API server base URL")
	cmd.PersistentFlags().StringVar(&sessionPath, "session", defaultSessionPath(), "Session file path")
	cmd.PersistentFlags().StringVar(&lang, "lang", "en", "Checklist title language (en, am, ru)")

	cmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newLocationsCmd(),
		newChecklistCmd(),
		newSubmitCmd(),
		newTodayCmd(),
		newStatsCmd(),
	)
	return cmd
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aeroclean-session.json"
	}
	return filepath.Join(home, ".config", "aeroclean", "session.json")
}

// newClient builds the API client over the shared session file
func newClient() (*client.Client, error) {
	store, err := client.NewFileTokenStore(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return client.New(serverURL, store,
		client.WithOnUnauthenticated(func() {
			fmt.Fprintln(os.Stderr, "session expired, run 'aeroclean login'")
		}),
	)
}

func newLoginCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				fmt.Print("Username: ")
				if _, err := fmt.Scanln(&username); err != nil {
					return err
				}
			}

			fmt.Print("Password: ")
			passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			user, err := c.Login(cmd.Context(), username, string(passwordBytes))
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted if omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget saved tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			user, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> role=%s\n", user.Username, user.Email, user.Role)
			return nil
		},
	}
}

func newLocationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List and manage cleaning locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			locations, err := c.Locations(cmd.Context())
			if err != nil {
				return err
			}
			for _, l := range locations {
				fmt.Printf("%4d  %-30s %-9s %d checklist items\n",
					l.ID, l.Name, l.Status, l.ChecklistItemsCount)
			}
			return nil
		},
	}
	cmd.AddCommand(newLocationAddCmd(), newLocationSetCmd(), newLocationRemoveCmd())
	return cmd
}

func newLocationAddCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a location (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			location, err := c.CreateLocation(cmd.Context(), client.LocationInput{
				Name:   args[0],
				Status: status,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Location #%d created: %s\n", location.ID, location.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "active", "Location status (active, inactive)")
	return cmd
}

func newLocationSetCmd() *cobra.Command {
	var (
		name   string
		status string
	)
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update a location's name or status (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			location, err := c.UpdateLocation(cmd.Context(), id, client.LocationInput{
				Name:   name,
				Status: status,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Location #%d: %s (%s)\n", location.ID, location.Name, location.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&status, "status", "", "New status (active, inactive)")
	return cmd
}

func newLocationRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a location (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.DeleteLocation(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Location #%d deleted\n", id)
			return nil
		},
	}
}

func newChecklistCmd() *cobra.Command {
	var locationID uint
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Show and manage the checklist of a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if locationID == 0 {
				return fmt.Errorf("--location is required")
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			items, err := c.ChecklistItems(cmd.Context(), locationID)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Printf("%4d  %s\n", item.ID, item.Title(lang))
			}
			return nil
		},
	}
	cmd.Flags().UintVarP(&locationID, "location", "l", 0, "Location ID")
	cmd.AddCommand(newChecklistAddCmd(), newChecklistRemoveCmd())
	return cmd
}

func newChecklistAddCmd() *cobra.Command {
	var (
		locationID uint
		titleAM    string
		titleRU    string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a checklist item to a location (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if locationID == 0 {
				return fmt.Errorf("--location is required")
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			item, err := c.CreateChecklistItem(cmd.Context(), client.ChecklistItemInput{
				Location: locationID,
				TitleEN:  args[0],
				TitleAM:  titleAM,
				TitleRU:  titleRU,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Checklist item #%d added: %s\n", item.ID, item.TitleEN)
			return nil
		},
	}
	cmd.Flags().UintVarP(&locationID, "location", "l", 0, "Location ID")
	cmd.Flags().StringVar(&titleAM, "title-am", "", "Armenian title")
	cmd.Flags().StringVar(&titleRU, "title-ru", "", "Russian title")
	return cmd
}

func newChecklistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a checklist item (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.DeleteChecklistItem(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Checklist item #%d deleted\n", id)
			return nil
		},
	}
}

func newSubmitCmd() *cobra.Command {
	var (
		locationID uint
		date       string
		ratings    []string
		notes      []string
		photos     []string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a cleaning report",
		Long: `Submit rates every checklist item of a location for one date.
Unrated items keep the default rating of 5.

  aeroclean submit -l 4 \
      --rate 10=9 --rate 11=3 \
      --note 11="dusty corners" \
      --photo 11=./bin.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if locationID == 0 {
				return fmt.Errorf("--location is required")
			}

			day, err := time.Parse(client.DateLayout, date)
			if err != nil {
				return fmt.Errorf("invalid --date, expected YYYY-MM-DD")
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			items, err := c.ChecklistItems(ctx, locationID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("location %d has no checklist", locationID)
			}

			// Warn early instead of failing after photos are uploaded
			if exists, err := c.SubmittedToday(ctx, locationID); err == nil && exists && date == time.Now().Format(client.DateLayout) {
				return fmt.Errorf("a report for location %d already exists today", locationID)
			}

			draft := client.NewDraft(locationID, day, items)
			if err := applyRatings(draft, ratings); err != nil {
				return err
			}
			if err := applyNotes(draft, notes); err != nil {
				return err
			}
			if err := applyPhotos(draft, photos); err != nil {
				return err
			}

			submitter := client.NewSubmitter(c,
				client.WithSuccessDelay(time.Millisecond),
				client.WithStateHandler(func(st client.SubmitState) {
					switch st {
					case client.StateEncoding:
						fmt.Println("Encoding report...")
					case client.StateSending:
						fmt.Printf("Uploading %d photos...\n", draft.PhotoCount())
					}
				}),
			)
			if err := submitter.SetDraft(draft); err != nil {
				return err
			}

			result, err := submitter.Submit(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Report #%d filed for %s: completion %d%%\n",
				result.ID, result.Date, result.CompletionRate)
			return nil
		},
	}
	cmd.Flags().UintVarP(&locationID, "location", "l", 0, "Location ID")
	cmd.Flags().StringVar(&date, "date", time.Now().Format(client.DateLayout), "Report date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&ratings, "rate", nil, "Rating as item=1..10, repeatable")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "Note as item=text, repeatable")
	cmd.Flags().StringArrayVar(&photos, "photo", nil, "Photo as item=path, repeatable")
	return cmd
}

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List today's reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			submissions, err := c.Today(cmd.Context())
			if err != nil {
				return err
			}
			if len(submissions) == 0 {
				fmt.Println("No reports filed today")
				return nil
			}
			for _, s := range submissions {
				fmt.Printf("%4d  %-30s %-15s %3d%%\n",
					s.ID, s.LocationName, s.StaffUsername, s.CompletionRate)
			}
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show submission stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			stats, err := c.Stats(cmd.Context(), days)
			if err != nil {
				return err
			}

			fmt.Printf("Last %d days\n", days)
			fmt.Printf("  Reports:        %d\n", stats.SubmissionCount)
			fmt.Printf("  Avg completion: %.1f%%\n", stats.AvgCompletionRate)
			fmt.Printf("  Active staff:   %d\n", stats.ActiveUsers)
			if len(stats.SubmissionsByLocation) > 0 {
				fmt.Println("  By location:")
				for _, lc := range stats.SubmissionsByLocation {
					fmt.Printf("    %-30s %d\n", lc.LocationName, lc.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Lookback window in days")
	return cmd
}

// applyRatings parses repeated item=rating flags into the draft
func applyRatings(draft *client.Draft, ratings []string) error {
	for _, spec := range ratings {
		itemID, value, err := splitSpec(spec)
		if err != nil {
			return fmt.Errorf("--rate %q: %w", spec, err)
		}
		rating, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("--rate %q: rating must be a number", spec)
		}
		if err := draft.SetRating(itemID, rating); err != nil {
			return fmt.Errorf("--rate %q: %w", spec, err)
		}
	}
	return nil
}

func applyNotes(draft *client.Draft, notes []string) error {
	for _, spec := range notes {
		itemID, text, err := splitSpec(spec)
		if err != nil {
			return fmt.Errorf("--note %q: %w", spec, err)
		}
		if err := draft.SetNotes(itemID, text); err != nil {
			return fmt.Errorf("--note %q: %w", spec, err)
		}
	}
	return nil
}

// applyPhotos reads each item=path photo file into the draft. Files are
// attached in path order so the upload is deterministic.
func applyPhotos(draft *client.Draft, photos []string) error {
	sort.Strings(photos)
	for _, spec := range photos {
		itemID, path, err := splitSpec(spec)
		if err != nil {
			return fmt.Errorf("--photo %q: %w", spec, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("--photo %q: %w", spec, err)
		}
		photo := client.Photo{Filename: filepath.Base(path), Data: data}
		if err := draft.AddPhotos(itemID, photo); err != nil {
			return fmt.Errorf("--photo %q: %w", spec, err)
		}
	}
	return nil
}

// parseIDArg parses a positional numeric ID argument
func parseIDArg(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return uint(id), nil
}

// splitSpec parses an "item=value" flag argument
func splitSpec(spec string) (uint, string, error) {
	idStr, value, found := strings.Cut(spec, "=")
	if !found || value == "" {
		return 0, "", fmt.Errorf("expected item=value")
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, "", fmt.Errorf("invalid item ID %q", idStr)
	}
	return uint(id), value, nil
}
