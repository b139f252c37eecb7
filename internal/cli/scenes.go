package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlive/pkg/scene"
	"github.com/matzehuels/graphlive/pkg/storage"
)

// scenesCommand creates the scenes command for the configured scene store.
func (c *CLI) scenesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Manage saved scenes",
		Long: `Manage saved scenes.

Scenes are kept in the store selected by [storage] in the config: a
directory of JSON files (default) or a MongoDB collection.`,
	}

	cmd.AddCommand(c.scenesListCommand())
	cmd.AddCommand(c.scenesSaveCommand())
	cmd.AddCommand(c.scenesGetCommand())
	cmd.AddCommand(c.scenesDeleteCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(storage.Store) error) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	st, err := cfg.Storage.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open scene store: %w", err)
	}
	defer closeStore(c, st)
	return fn(st)
}

func (c *CLI) scenesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved scenes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st storage.Store) error {
				list, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo("No saved scenes")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), summaryTable(list, time.Now()))
				return nil
			})
		},
	}
}

func (c *CLI) scenesSaveCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save [scene.json]",
		Short: "Save a scene file to the store",
		Long: `Save a scene file to the store.

A scene without an id gets a new one; a scene with an id replaces the
stored copy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load scene %s: %w", args[0], err)
			}
			if name != "" {
				sc.Name = name
			}
			return c.withStore(cmd.Context(), func(st storage.Store) error {
				id, err := st.Save(cmd.Context(), sc)
				if err != nil {
					return err
				}
				printSuccess("Saved scene")
				printKeyValue("ID", id)
				printHint("Fetch it", appName+" scenes get "+id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "override the scene name")
	return cmd
}

func (c *CLI) scenesGetCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Write a saved scene to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st storage.Store) error {
				sc, err := st.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if output == "" {
					return scene.Write(cmd.OutOrStdout(), sc, scene.FormatJSON)
				}
				if err := scene.WriteFile(output, sc); err != nil {
					return err
				}
				printSuccess("Fetched scene")
				printSceneFile(output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) scenesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st storage.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted scene %s", args[0])
				return nil
			})
		},
	}
}

// summaryTable renders scene summaries as a bordered table.
func summaryTable(list []storage.Summary, now time.Time) string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		name := s.Name
		if name == "" {
			name = "—"
		}
		rows = append(rows, []string{
			s.ID, name,
			strconv.Itoa(s.Nodes), strconv.Itoa(s.Edges),
			formatRelativeTime(s.UpdatedAt, now),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Nodes", "Edges", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col == 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		}).
		Render()
}

// formatRelativeTime prints recent times relative to now.
func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
