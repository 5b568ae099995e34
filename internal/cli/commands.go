package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"textedit/internal/diff"
	"textedit/internal/processor"
	"textedit/internal/textio"
	"textedit/internal/words"
)

func (a *app) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Print total and unique word counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := textio.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			st := words.Count(b)
			fmt.Fprintf(a.stdout, "words: %d\nunique: %d\n", st.Words, st.Unique)
			return nil
		},
	}
}

func (a *app) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search FILE NEEDLE",
		Short: "List every non-overlapping occurrence of NEEDLE",
		Long:  "List every non-overlapping occurrence of NEEDLE as offset, line:column and the highlighted line. Exits 1 when there is none.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, needle := args[0], args[1]
			if needle == "" {
				return errors.Errorf("%w: NEEDLE must not be empty", errUsage)
			}
			b, err := textio.Load(cmd.Context(), path)
			if err != nil {
				return err
			}
			positions := processor.SearchAll(b, needle)
			zerolog.Ctx(cmd.Context()).Debug().Str("file", path).Int("matches", len(positions)).Msg("searched")

			fmt.Fprintf(a.stdout, "matches: %d\n", len(positions))
			if positions == nil {
				a.code = exitChanged
				return nil
			}
			hl := color.New(color.FgYellow, color.Bold)
			if a.cfg.Color {
				hl.EnableColor()
			} else {
				hl.DisableColor()
			}
			n := len([]rune(needle))
			for _, m := range locate(b.String(), positions) {
				line := []rune(m.text)
				start := min(m.col-1, len(line))
				end := min(start+n, len(line))
				fmt.Fprintf(a.stdout, "%d\t%d:%d\t%s%s%s\n", m.offset, m.line, m.col,
					string(line[:start]), hl.Sprint(string(line[start:end])), string(line[end:]))
			}
			return nil
		},
	}
}

type replaceFlags struct {
	DryRun bool
	Backup bool
	Out    string
}

func (a *app) newReplaceCmd() *cobra.Command {
	var f replaceFlags
	cmd := &cobra.Command{
		Use:   "replace FILE OLD NEW",
		Short: "Replace every occurrence of OLD with NEW",
		Long:  "Replace every occurrence of OLD with NEW. Previews a diff by default; pass --dry-run=false to save. Exits 1 when the content changed.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, oldString, newString := args[0], args[1], args[2]
			if oldString == "" || newString == "" {
				return errors.Errorf("%w: OLD and NEW must not be empty", errUsage)
			}
			if !cmd.Flags().Changed("backup") {
				f.Backup = a.cfg.Backup
			}
			return a.replace(cmd, path, oldString, newString, f)
		},
	}
	fs := cmd.Flags()
	fs.BoolVar(&f.DryRun, "dry-run", true, "Preview changes only (default)")
	fs.BoolVar(&f.Backup, "backup", false, "Create a backup before overwriting")
	fs.StringVarP(&f.Out, "out", "o", "", "Write the result to this path instead of FILE")
	return cmd
}

func (a *app) replace(cmd *cobra.Command, path, oldString, newString string, f replaceFlags) error {
	ctx := cmd.Context()
	log := zerolog.Ctx(ctx)

	res, err := processor.SubstituteFile(ctx, path, oldString, newString)
	if err != nil {
		return err
	}
	log.Debug().Str("file", path).Int("matches", res.Matches).Int("replacements", res.Replacements).Bool("changed", res.Changed).Msg("substituted")
	if !res.Changed {
		return nil
	}

	a.code = exitChanged
	fmt.Fprintf(a.stdout, "file: %s  (matches: %d, replacements: %d)\n", path, res.Matches, res.Replacements)
	if f.DryRun {
		preview, _ := diff.Preview(res.Before, res.After, diff.Options{
			Color:     a.cfg.Color,
			Positions: res.Positions,
		})
		fmt.Fprint(a.stdout, preview)
		return nil
	}

	dest := path
	if f.Out != "" {
		dest = f.Out
	}
	status, err := textio.Save(ctx, dest, res.After, textio.SaveOptions{Backup: f.Backup})
	if err != nil {
		return errors.Errorf("save %s: %w", dest, err)
	}
	log.Info().Str("file", dest).Stringer("status", status).Msg("saved")
	fmt.Fprintf(a.stdout, "%s: %s\n", status, dest)
	return nil
}

type match struct {
	offset, line, col int
	text              string
}

// locate resolves rune offsets in text to 1-based line and column numbers
// along with the text of the line holding each offset.
func locate(text string, positions []int) []match {
	lines := strings.SplitAfter(text, "\n")
	out := make([]match, 0, len(positions))
	line, start := 0, 0
	for _, p := range positions {
		for line < len(lines)-1 && p >= start+len([]rune(lines[line])) {
			start += len([]rune(lines[line]))
			line++
		}
		out = append(out, match{
			offset: p,
			line:   line + 1,
			col:    p - start + 1,
			text:   strings.TrimRight(lines[line], "\r\n"),
		})
	}
	return out
}
