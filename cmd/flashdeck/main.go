package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kokistudios/flashdeck/internal/deck"
	"github.com/kokistudios/flashdeck/internal/editor"
	"github.com/kokistudios/flashdeck/internal/store"
	"github.com/kokistudios/flashdeck/internal/ui"
)

// Set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersion() string {
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func main() {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "flashdeck",
		Short: "flashdeck — flashcards in your terminal",
		Long:  "A local flashcard study tool: edit a named set of question/answer cards, study them with keyboard-driven navigation, and import/export the set as a JSON document.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			s := store.Load(store.Home())
			ui.Init(noColor, s.Config.Theme)
		},
	}

	rootCmd.Version = buildVersion()
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "study", Title: "Study Commands:"},
		&cobra.Group{ID: "deck", Title: "Deck Commands:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	studyC := studyCmd()
	studyC.GroupID = "study"
	editC := editCmd()
	editC.GroupID = "study"

	listC := listCmd()
	listC.GroupID = "deck"
	newC := newCmd()
	newC.GroupID = "deck"
	importC := importCmd()
	importC.GroupID = "deck"
	exportC := exportCmd()
	exportC.GroupID = "deck"

	initC := initCmd()
	initC.GroupID = "config"
	configC := configCmd()
	configC.GroupID = "config"
	doctorC := doctorCmd()
	doctorC.GroupID = "config"

	rootCmd.AddCommand(studyC)
	rootCmd.AddCommand(editC)
	rootCmd.AddCommand(listC)
	rootCmd.AddCommand(newC)
	rootCmd.AddCommand(importC)
	rootCmd.AddCommand(exportC)
	rootCmd.AddCommand(initC)
	rootCmd.AddCommand(configC)
	rootCmd.AddCommand(doctorC)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Initialize the flashdeck home directory",
		Long:    "Create the flashdeck home (~/.flashdeck by default, FLASHDECK_HOME to override) with config.yaml and the built-in sample deck.",
		Example: "  flashdeck init\n  flashdeck init --force",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := store.Home()
			if err := store.Init(home, force); err != nil {
				return err
			}
			ui.LogoWithTagline("flashcards in your terminal")
			ui.Success("flashdeck initialized")
			ui.Detail("Home:", home)
			ui.Detail("Next:", "flashdeck study")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Reinitialize even if the home directory already exists")
	return cmd
}

// loadDeck opens the store and the persisted deck, warning when the deck on
// disk was missing or unreadable and the sample deck stands in.
func loadDeck() (*store.Store, *deck.Deck) {
	s := store.Load(store.Home())
	d, fromDisk := s.LoadDeck()
	if !fromDisk {
		ui.Warning("no usable saved deck — using the built-in sample deck (run 'flashdeck init' to persist it)")
	}
	return s, d
}

func studyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "study",
		Short: "Study the current set",
		Long:  "Open the study view. Space flips, arrows move, g archives the current card (or restarts when done), s reshuffles, d toggles direction, ? shows help.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, d := loadDeck()
			if len(deck.ActiveIndices(d)) == 0 {
				ui.EmptyState("Nothing to study — every card is archived or empty. Try 'flashdeck edit'.")
				return nil
			}
			return ui.RunStudy(d, s.SaveDeck)
		},
	}
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the current set",
		Long:  "Open the edit view: add, edit, archive, and delete cards, or rename the set. Changes are saved automatically a moment after you stop typing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, d := loadDeck()
			delay := time.Duration(s.Config.Editor.AutosaveMs) * time.Millisecond
			return ui.RunEdit(editor.New(d, s.SaveDeck, delay))
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the cards in the current set",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, d := loadDeck()
			name := d.Name
			if name == "" {
				name = "(unnamed set)"
			}
			ui.SectionHeader(name)
			if len(d.Cards) == 0 {
				ui.EmptyState("No cards. Use 'flashdeck edit' to add some.")
				return nil
			}
			var rows [][]string
			for i, c := range d.Cards {
				status := ""
				if c.Archived {
					status = "archived"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					firstLine(c.Question, 48),
					firstLine(c.Answer, 48),
					status,
				})
			}
			ui.Table([]string{"#", "QUESTION", "ANSWER", "STATUS"}, rows)
			return nil
		},
	}
}

func firstLine(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > n {
		s = s[:n-2] + ".."
	}
	return s
}

// confirmReplace guards the destructive deck-replacing commands. It returns
// true when it is safe to proceed: either nothing unexported would be lost
// or the user said yes.
func confirmReplace(s *store.Store, d *deck.Deck, what string) (bool, error) {
	if !s.Dirty(d) {
		return true, nil
	}
	ok, err := ui.Confirm(fmt.Sprintf("The current set has changes that were never exported. %s anyway?", what))
	if err != nil {
		return false, err
	}
	if !ok {
		ui.Info("Nothing changed")
	}
	return ok, nil
}

func newCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "new [name]",
		Short:   "Start a fresh, empty set",
		Example: "  flashdeck new\n  flashdeck new \"Irregular verbs\"",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.Load(store.Home())
			current, _ := s.LoadDeck()
			ok, err := confirmReplace(s, current, "Replace it with an empty set")
			if err != nil || !ok {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			fresh := deck.New(name)
			if err := s.SaveDeck(fresh); err != nil {
				return err
			}
			if err := s.SetExportedFingerprint(deck.Fingerprint(fresh)); err != nil {
				return err
			}
			ui.Success("Started a new set")
			ui.Detail("Name:", name)
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "import <file>",
		Short:   "Replace the current set with a deck document",
		Long:    "Validate a deck JSON document and adopt it wholesale. Only schemaVersion 1 documents with a cards list are accepted; a failed import leaves the current set untouched.",
		Example: "  flashdeck import spanish.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				ui.Error("import failed — the current set is untouched")
				return err
			}
			d, err := deck.Decode(data)
			if err != nil {
				ui.Error("import failed — the current set is untouched")
				return err
			}

			s := store.Load(store.Home())
			current, _ := s.LoadDeck()
			ok, err := confirmReplace(s, current, "Replace it with the imported set")
			if err != nil || !ok {
				return err
			}

			if err := s.SaveDeck(d); err != nil {
				return err
			}
			// The document on disk and the adopted deck agree; remember that.
			if err := s.SetExportedFingerprint(deck.Fingerprint(d)); err != nil {
				return err
			}
			ui.Success("Deck imported")
			ui.Detail("Name: ", d.Name)
			ui.Detail("Cards:", fmt.Sprintf("%d (%d active)", len(d.Cards), len(deck.ActiveIndices(d))))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "export [file]",
		Short:   "Write the current set as a deck document",
		Long:    "Serialize the current set as pretty-printed JSON. Without an argument the filename is derived from the set name.",
		Example: "  flashdeck export\n  flashdeck export ~/decks/spanish.json",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, d := loadDeck()
			data, err := deck.Encode(d)
			if err != nil {
				return err
			}

			outPath := deck.ExportFileName(d.Name)
			if len(args) > 0 {
				outPath = args[0]
				if info, err := os.Stat(outPath); err == nil && info.IsDir() {
					outPath = filepath.Join(outPath, deck.ExportFileName(d.Name))
				}
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			if err := s.SetExportedFingerprint(deck.Fingerprint(d)); err != nil {
				return err
			}
			ui.Success("Deck exported")
			ui.Detail("File: ", outPath)
			ui.Detail("Cards:", fmt.Sprintf("%d", len(d.Cards)))
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit flashdeck configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.Load(store.Home())
			data, err := yaml.Marshal(s.Config)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Print(string(data))
			d, _ := s.LoadDeck()
			fmt.Printf("study:\n    direction: %s\n    shuffle: %t\n", d.Defaults.Direction, d.Defaults.Shuffle)
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a flashdeck configuration value. Valid keys: theme, editor.autosave_ms, study.direction, study.shuffle. The study.* keys are stored with the deck and travel with export/import.",
		Example: `  flashdeck config set theme dark
  flashdeck config set study.shuffle true
  flashdeck config set study.direction A2Q`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.Load(store.Home())
			if err := s.SetConfigValue(args[0], args[1]); err != nil {
				return err
			}
			ui.Success(fmt.Sprintf("Set %s = %s", args[0], args[1]))
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check health of the flashdeck home",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := store.Home()

			if fix {
				ui.CommandBanner("DOCTOR", "repair mode")
				fixed := store.FixIssues(home)
				for _, f := range fixed {
					ui.Success(fmt.Sprintf("[FIXED] %s", f))
				}
				if len(fixed) == 0 {
					ui.EmptyState("Nothing to fix.")
				}
			} else {
				ui.CommandBanner("DOCTOR", "health check")
			}

			issues := store.CheckHealth(home)
			if len(issues) == 0 {
				ui.Success("Everything looks good")
				return nil
			}

			hasError := false
			for _, issue := range issues {
				if issue.Severity == "error" {
					ui.Error(fmt.Sprintf("[ERR]  %s", issue.Message))
					hasError = true
				} else {
					ui.Warning(fmt.Sprintf("[WARN] %s", issue.Message))
				}
			}

			if hasError {
				os.Exit(2)
			}
			os.Exit(1)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Repair missing files with defaults (corrupt files are reported, never overwritten)")
	return cmd
}
