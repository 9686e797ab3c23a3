package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/clil-studio/internal/editor"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
	"github.com/ziadkadry99/clil-studio/internal/progress"
	"github.com/ziadkadry99/clil-studio/internal/walker"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Manage saved lessons",
	Long: `List, inspect, export and edit lessons in the library. Editing commands
load the lesson, change one section and save it back, so every change
becomes a new variant you can navigate to later.`,
}

var lessonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved lessons, most recently modified first",
	Args:  cobra.NoArgs,
	RunE:  runLessonList,
}

var lessonShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a lesson's sections, variants and cards",
	Args:  cobra.ExactArgs(1),
	RunE:  runLessonShow,
}

var lessonExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a lesson as JSON or as an HTML page",
	Args:  cobra.ExactArgs(1),
	RunE:  runLessonExport,
}

var lessonRegenerateCmd = &cobra.Command{
	Use:   "regenerate <id> <section>",
	Short: "Generate a new variant of one section",
	Long: `Generates a new variant of a section and saves the lesson. Sections are
named content, language, tasks, assessment and materials, or 1 to 5.`,
	Args: cobra.ExactArgs(2),
	RunE: runLessonRegenerate,
}

var lessonCustomizeCmd = &cobra.Command{
	Use:   "customize <id> <section>",
	Short: "Rewrite one section following an instruction",
	Long: `Rewrites a section following a free text instruction (--instruction) or
one of the section's quick customizations (--quick, see --list).`,
	Args: cobra.ExactArgs(2),
	RunE: runLessonCustomize,
}

var lessonNavigateCmd = &cobra.Command{
	Use:   "navigate <id> <section> <prev|next>",
	Short: "Show the previous or next variant of a section",
	Args:  cobra.ExactArgs(3),
	RunE:  runLessonNavigate,
}

var lessonHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show when a lesson was saved and which sections changed",
	Args:  cobra.ExactArgs(1),
	RunE:  runLessonHistory,
}

var lessonImportCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import lesson JSON files into the library",
	Long: `Imports exported lesson documents. Directories are searched recursively
for files matching --include; the config's exclude globs are honoured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLessonImport,
}

func init() {
	lessonShowCmd.Flags().Bool("json", false, "print the lesson document as JSON")

	lessonExportCmd.Flags().String("format", "json", "export format: json or html")
	lessonExportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	lessonRegenerateCmd.Flags().String("prompt", "", "topic prompt for the new variant (required)")
	lessonRegenerateCmd.Flags().StringSlice("modifier", nil, "activity modifier key (repeatable)")
	_ = lessonRegenerateCmd.MarkFlagRequired("prompt")

	lessonCustomizeCmd.Flags().String("instruction", "", "free text customization instruction")
	lessonCustomizeCmd.Flags().Int("quick", -1, "index of a quick customization")
	lessonCustomizeCmd.Flags().Bool("list", false, "list the section's quick customizations and exit")

	lessonHistoryCmd.Flags().Int("limit", 20, "maximum number of entries")

	lessonImportCmd.Flags().StringSlice("include", walker.DefaultInclude, "glob patterns of files to import")
	lessonImportCmd.Flags().Bool("new-ids", false, "assign fresh ids instead of keeping the exported ones")

	lessonCmd.AddCommand(lessonListCmd, lessonShowCmd, lessonExportCmd,
		lessonRegenerateCmd, lessonCustomizeCmd, lessonNavigateCmd, lessonHistoryCmd, lessonImportCmd)
	rootCmd.AddCommand(lessonCmd)
}

// withWorkspace loads the config, opens the workspace and runs fn.
func withWorkspace(ctx context.Context, fn func(ws *workspace) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer ws.close()
	return fn(ws)
}

// editLesson loads a lesson into a session, applies edit and saves it.
func editLesson(ctx context.Context, id string, edit func(sess *editor.Session) error) error {
	return withWorkspace(ctx, func(ws *workspace) error {
		sess := editor.NewSession(ws.backend, appLog)
		if err := sess.Load(ctx, id); err != nil {
			return err
		}
		if err := edit(sess); err != nil {
			return err
		}
		if _, err := sess.Save(ctx); err != nil {
			return err
		}
		printSessionSummary(sess)
		return nil
	})
}

func runLessonList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withWorkspace(ctx, func(ws *workspace) error {
		lessons, err := ws.backend.ListLessons(ctx)
		if err != nil {
			return err
		}
		if len(lessons) == 0 {
			fmt.Println("No saved lessons.")
			return nil
		}
		fmt.Printf("%-36s  %-19s  %s\n", "ID", "MODIFIED", "TITLE")
		for _, l := range lessons {
			fmt.Printf("%-36s  %-19s  %s\n", l.ID, l.LastModified.Local().Format(time.DateTime), l.Title)
		}
		return nil
	})
}

func runLessonHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	return withWorkspace(ctx, func(ws *workspace) error {
		entries, err := ws.history(ctx, args[0], limit)
		if err != nil {
			return err
		}
		fmt.Printf("%-19s  %-8s  %s\n", "WHEN", "ACTION", "SECTIONS")
		for _, e := range entries {
			sections := strings.Join(e.Sections, ", ")
			if sections == "" {
				sections = "-"
			}
			fmt.Printf("%-19s  %-8s  %s", e.Timestamp.Local().Format(time.DateTime), e.Action, sections)
			if e.Summary != "" {
				fmt.Printf("  (%s)", e.Summary)
			}
			fmt.Println()
		}
		return nil
	})
}

func runLessonShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return withWorkspace(ctx, func(ws *workspace) error {
		doc, err := ws.backend.LoadLesson(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeDocumentJSON(os.Stdout, doc)
		}
		sess := editor.NewSession(nil, appLog)
		sess.FromDocument(doc)
		fmt.Printf("  ID: %s\n", args[0])
		printSessionSummary(sess)
		fmt.Printf("  Chat messages: %d\n", len(doc.ChatHistory))
		return nil
	})
}

func runLessonExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")
	if format != "json" && format != "html" {
		return fmt.Errorf("unsupported format %q (valid: json, html)", format)
	}

	return withWorkspace(ctx, func(ws *workspace) error {
		doc, err := ws.backend.LoadLesson(ctx, args[0])
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if format == "html" {
			err = editor.RenderDocument(&buf, doc)
		} else {
			err = writeDocumentJSON(&buf, doc)
		}
		if err != nil {
			return err
		}

		if outPath == "" {
			_, err = os.Stdout.Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "Exported %q to %s\n", doc.Title, outPath)
		return nil
	})
}

func runLessonRegenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sec, err := lesson.ParseSection(args[1])
	if err != nil {
		return err
	}
	prompt, _ := cmd.Flags().GetString("prompt")
	modifiers, _ := cmd.Flags().GetStringSlice("modifier")

	return editLesson(ctx, args[0], func(sess *editor.Session) error {
		return sess.RegenerateSection(ctx, sec, prompt, modifiers)
	})
}

func runLessonCustomize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sec, err := lesson.ParseSection(args[1])
	if err != nil {
		return err
	}

	if list, _ := cmd.Flags().GetBool("list"); list {
		for i, q := range editor.QuickCustomizations(sec) {
			fmt.Printf("%d. %s\n", i, q.Label)
		}
		return nil
	}

	instruction, _ := cmd.Flags().GetString("instruction")
	quick, _ := cmd.Flags().GetInt("quick")
	if (instruction == "") == (quick < 0) {
		return fmt.Errorf("give exactly one of --instruction or --quick")
	}

	return editLesson(ctx, args[0], func(sess *editor.Session) error {
		if quick >= 0 {
			return sess.ApplyQuickCustomization(ctx, sec, quick)
		}
		return sess.CustomizeSection(ctx, sec, instruction)
	})
}

func runLessonNavigate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sec, err := lesson.ParseSection(args[1])
	if err != nil {
		return err
	}
	dir, err := parseDirection(args[2])
	if err != nil {
		return err
	}

	return editLesson(ctx, args[0], func(sess *editor.Session) error {
		return sess.Navigate(sec, dir)
	})
}

func parseDirection(v string) (int, error) {
	switch v {
	case "prev", "previous":
		return -1, nil
	case "next":
		return 1, nil
	}
	if n, err := strconv.Atoi(v); err == nil && (n == -1 || n == 1) {
		return n, nil
	}
	return 0, fmt.Errorf("direction must be prev or next, got %q", v)
}

func runLessonImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	include, _ := cmd.Flags().GetStringSlice("include")
	newIDs, _ := cmd.Flags().GetBool("new-ids")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var files []walker.FileInfo
	for _, root := range args {
		found, err := walker.Walk(walker.Config{
			RootDir: root,
			Include: include,
			Exclude: cfg.Exclude,
		})
		if err != nil {
			return fmt.Errorf("scanning %s: %w", root, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		fmt.Println("No lesson files found.")
		return nil
	}

	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer ws.close()

	reporter := progress.NewReporter()
	reporter.Start(len(files), "Importing lessons")
	var imported, failed int
	seen := make(map[string]bool, len(files))
	for i, f := range files {
		reporter.Update(i+1, f.RelPath)
		if seen[f.ContentHash] {
			continue
		}
		seen[f.ContentHash] = true

		doc, err := readDocument(f.Path)
		if err == nil {
			if newIDs {
				doc.LessonID = ""
			}
			_, err = ws.backend.SaveLesson(ctx, doc)
		}
		if err != nil {
			failed++
			appLog.Warn("import failed", "file", f.Path, "error", err)
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", f.RelPath, err)
			continue
		}
		imported++
	}
	reporter.Finish()

	fmt.Println()
	fmt.Println("Import complete!")
	fmt.Printf("  Files found: %d\n", len(files))
	fmt.Printf("  Imported:    %d\n", imported)
	fmt.Printf("  Duplicates:  %d\n", len(files)-imported-failed)
	fmt.Printf("  Failed:      %d\n", failed)
	return nil
}

// readDocument decodes one exported lesson. Files without a title or any
// pillar are rejected so arbitrary JSON is not imported as an empty lesson.
func readDocument(path string) (*lesson.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc lesson.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding lesson: %w", err)
	}
	if doc.Title == "" && len(doc.Pillars) == 0 {
		return nil, fmt.Errorf("not a lesson document")
	}
	doc.Normalize()
	return &doc, nil
}

func writeDocumentJSON(w io.Writer, doc *lesson.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
