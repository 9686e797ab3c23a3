package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/clil-studio/internal/editor"
	"github.com/ziadkadry99/clil-studio/internal/progress"
	"github.com/ziadkadry99/clil-studio/internal/prompts"
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate a complete CLIL activity",
	Long: `Generates all five lesson sections and a helper card from a topic prompt.
The result is printed as a summary and can be written as an HTML page,
printed as JSON, or saved to the lesson library.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSlice("modifier", nil, "activity modifier key (repeatable); see --list-modifiers")
	generateCmd.Flags().String("theme", "", "custom theme text")
	generateCmd.Flags().String("title", "", "lesson title")
	generateCmd.Flags().String("out", "", "write the lesson as an HTML page to this file")
	generateCmd.Flags().Bool("json", false, "print the lesson document as JSON")
	generateCmd.Flags().Bool("save", false, "save the lesson to the library")
	generateCmd.Flags().Bool("list-modifiers", false, "list the available modifiers and exit")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	if list, _ := cmd.Flags().GetBool("list-modifiers"); list {
		printModifiers()
		return nil
	}

	modifiers, _ := cmd.Flags().GetStringSlice("modifier")
	for _, m := range modifiers {
		if !prompts.KnownModifier(m) {
			return fmt.Errorf("unknown modifier %q; run with --list-modifiers", m)
		}
	}
	theme, _ := cmd.Flags().GetString("theme")
	title, _ := cmd.Flags().GetString("title")
	outPath, _ := cmd.Flags().GetString("out")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer ws.close()

	sess := editor.NewSession(ws.backend, appLog)
	if title != "" {
		sess.SetTitle(title)
	}

	steps := 1
	if outPath != "" {
		steps++
	}
	if save {
		steps++
	}
	reporter := progress.NewReporter()
	if jsonOutput {
		reporter = progress.Nop{}
	}
	reporter.Start(steps, "Generating lesson")

	result, err := sess.GenerateAll(ctx, args[0], modifiers, theme)
	if err != nil {
		reporter.Finish()
		return err
	}
	step := 1
	reporter.Update(step, "activity generated")
	if result.MainErr != nil {
		reporter.Finish()
		return fmt.Errorf("generating activity: %w", result.MainErr)
	}

	if outPath != "" {
		if err := writePage(sess, outPath); err != nil {
			reporter.Finish()
			return err
		}
		step++
		reporter.Update(step, "page written")
	}

	var lessonID string
	if save {
		lessonID, err = sess.Save(ctx)
		if err != nil {
			reporter.Finish()
			return err
		}
		step++
		reporter.Update(step, "lesson saved")
	}
	reporter.Finish()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sess.ToDocument())
	}

	fmt.Println()
	fmt.Println("Lesson generation complete!")
	printSessionSummary(sess)
	if result.HelperErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: helper card failed: %v\n", result.HelperErr)
	}
	if outPath != "" {
		fmt.Printf("  Page:     %s\n", outPath)
	}
	if lessonID != "" {
		fmt.Printf("  Saved as: %s\n", lessonID)
	}
	fmt.Printf("  Duration: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func printModifiers() {
	for _, at := range prompts.ActivityTypes() {
		fmt.Printf("%-24s %s\n", at.Key, at.Name)
	}
}

// printSessionSummary lists each section with its variant counter and the
// side cards.
func printSessionSummary(sess *editor.Session) {
	fmt.Printf("  Title: %s\n", sess.Title())
	for _, v := range sess.Views() {
		state := v.Counter
		if v.Empty {
			state = "empty"
		}
		fmt.Printf("    %-22s %s\n", v.Title, state)
	}
	cards := sess.Cards()
	if len(cards) == 0 {
		return
	}
	fmt.Printf("  Cards:\n")
	for _, c := range cards {
		fmt.Printf("    [%s] %s\n", c.Kind, strings.TrimSpace(c.Title))
	}
}

func writePage(sess *editor.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := sess.RenderPage(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
