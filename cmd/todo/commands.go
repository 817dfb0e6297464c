package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tasklist/internal/stats"
	"tasklist/internal/task"
	"tasklist/internal/tasklist"
)

// todo add
var addCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var addInput inputOptions

// todo list
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, numbered by their position in the view.

The numbers are what toggle, rm and edit take; pass those commands the
same --search, --status and --sort flags to address the same view.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listQuery queryOptions
	listLong  bool
	listJSON  bool
)

// todo toggle
var toggleCmd = &cobra.Command{
	Use:     "toggle <n>",
	Aliases: []string{"done"},
	Short:   "Mark a task completed, or reopen a completed one",
	Args:    cobra.ExactArgs(1),
	RunE:    runToggle,
}

var toggleQuery queryOptions

// todo rm
var rmCmd = &cobra.Command{
	Use:     "rm <n>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

var rmQuery queryOptions

// todo edit
var editCmd = &cobra.Command{
	Use:   "edit <n> [text]...",
	Short: "Change a task's text or details",
	Long: `Change a task's text or details.

Only the fields given are changed. Completion state, creation time and
identity are kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEdit,
}

var (
	editQuery queryOptions
	editInput inputOptions
)

// todo clear
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

// todo stats
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// todo export
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every task to stdout or a file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var (
	exportFormat string
	exportOutput string
)

// todo import
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace every task with the contents of a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var importFormat string

func init() {
	rootCmd.AddCommand(addCmd, listCmd, toggleCmd, rmCmd, editCmd, clearCmd, statsCmd, exportCmd, importCmd)

	addCmd.Flags().AddFlagSet(addInput.flagSet())

	listCmd.Flags().AddFlagSet(listQuery.flagSet())
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "Show details and notes")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	toggleCmd.Flags().AddFlagSet(toggleQuery.flagSet())
	rmCmd.Flags().AddFlagSet(rmQuery.flagSet())

	editCmd.Flags().AddFlagSet(editQuery.flagSet())
	editCmd.Flags().AddFlagSet(editInput.flagSet())

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")

	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: json or yaml (default from the file extension)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	in, err := addInput.apply(cmd.Flags(), task.Input{Text: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	return withSession(cmd, nil, func(s *session) error {
		saved, err := s.list.Save(cmd.Context(), in, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", saved.Text)
		return nil
	})
}

func runList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, &listQuery, func(s *session) error {
		view := s.list.View()
		out := cmd.OutOrStdout()
		if listJSON {
			if view == nil {
				view = []task.Entry{}
			}
			return writeJSON(out, view)
		}
		if len(view) == 0 {
			fmt.Fprintln(out, emptyMessage(s.list.Query()))
		} else {
			printView(out, view, listLong)
		}
		n := s.list.Remaining()
		fmt.Fprintf(out, "%d %s left\n", n, plural(n, "task", "tasks"))
		return nil
	})
}

func runToggle(cmd *cobra.Command, args []string) error {
	idx, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, &toggleQuery, func(s *session) error {
		e, err := entryAt(s, idx, args[0])
		if err != nil {
			return err
		}
		if err := s.list.Toggle(cmd.Context(), idx); err != nil {
			return positionError(args[0], err)
		}
		verb := "Completed"
		if e.Completed() {
			verb = "Reopened"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verb, e.Text())
		return nil
	})
}

func runRm(cmd *cobra.Command, args []string) error {
	idx, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, &rmQuery, func(s *session) error {
		e, err := entryAt(s, idx, args[0])
		if err != nil {
			return err
		}
		if err := s.list.Delete(cmd.Context(), idx); err != nil {
			return positionError(args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", e.Text())
		return nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	idx, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 && !hasChangedFlags(cmd, "priority", "category", "due", "notes") {
		return fmt.Errorf("nothing to change: give new text or a field flag")
	}
	return withSession(cmd, &editQuery, func(s *session) error {
		target, err := s.list.BeginEdit(cmd.Context(), idx)
		if err != nil {
			return positionError(args[0], err)
		}
		in := task.InputFrom(target.Entry)
		if len(args) > 1 {
			in.Text = strings.Join(args[1:], " ")
		}
		if in, err = editInput.apply(cmd.Flags(), in); err != nil {
			return err
		}
		saved, err := s.list.Save(cmd.Context(), in, &target)
		if err != nil {
			return positionError(args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s\n", saved.Text)
		return nil
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	return withSession(cmd, nil, func(s *session) error {
		n, err := s.list.ClearCompleted(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed %s\n", n, plural(n, "task", "tasks"))
		return nil
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	return withSession(cmd, nil, func(s *session) error {
		out := cmd.OutOrStdout()
		printStats(out, stats.Compute(s.list.Tasks(), time.Now()))
		saved, ok, err := s.store.UpdatedAt(cmd.Context(), tasklist.StorageKey)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(out, "Last saved %s\n", saved.Local().Format(time.DateTime))
		} else {
			fmt.Fprintln(out, "Never saved")
		}
		return nil
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown export format %q (want json or yaml)", exportFormat)
	}
	return withSession(cmd, nil, func(s *session) error {
		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if format == "yaml" {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(s.list.Tasks()); err != nil {
				return fmt.Errorf("encode yaml: %w", err)
			}
			return enc.Close()
		}
		return writeJSON(out, s.list.Tasks())
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	entries, err := decodeImport(data, importFormatFor(args[0]))
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}
	return withSession(cmd, nil, func(s *session) error {
		if err := s.list.Replace(cmd.Context(), entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s\n", len(entries), plural(len(entries), "task", "tasks"))
		return nil
	})
}

func importFormatFor(path string) string {
	if importFormat != "" {
		return strings.ToLower(importFormat)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func decodeImport(data []byte, format string) ([]task.Entry, error) {
	var (
		entries []task.Entry
		err     error
	)
	switch format {
	case "json":
		entries, err = task.Decode(string(data))
	case "yaml":
		entries, err = task.DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	if err != nil {
		return nil, err
	}
	if err := task.CheckText(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}
