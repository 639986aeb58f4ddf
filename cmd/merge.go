package cmd

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brogergvhs/skillquiz/internal/export"
	"github.com/brogergvhs/skillquiz/internal/quiz"
	"github.com/brogergvhs/skillquiz/internal/ui"
	"github.com/brogergvhs/skillquiz/internal/util"
)

var (
	flagMergeOutput string
	flagMergeFormat string
	flagMergeDedupe bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <file>...",
	Short: "Combine exported NDJSON/JSON files into one, repairing malformed JSON where possible",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&flagMergeOutput, "output", "o", "", "output file (default stdout)")
	mergeCmd.Flags().StringVar(&flagMergeFormat, "format", "", "output format: ndjson or json (default from the output extension)")
	mergeCmd.Flags().BoolVar(&flagMergeDedupe, "dedupe", false, "drop questions already seen in an earlier file")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	logSvc := ui.NewLogger(flagDebug)

	f := flagMergeFormat
	if f == "" && strings.EqualFold(filepath.Ext(flagMergeOutput), ".json") {
		f = string(export.JSON)
	}
	format, err := export.ParseFormat(f)
	if err != nil {
		return err
	}

	sets := make([][]quiz.Question, 0, len(args))
	for _, path := range args {
		qs, err := export.ReadFile(path)
		if err != nil {
			return err
		}

		kept := quiz.Filter(qs)
		if dropped := len(qs) - len(kept); dropped > 0 {
			logSvc.Infof("%s: dropped %s without two options and a valid answer", path, util.Plural(int64(dropped), "record"))
		}
		logSvc.Debugf("%s: %s", path, util.Plural(int64(len(kept)), "question"))
		sets = append(sets, kept)
	}

	merged := export.Merge(sets, flagMergeDedupe)

	if flagMergeOutput == "" || flagMergeOutput == "-" {
		w := bufio.NewWriter(cmd.OutOrStdout())
		if err := export.Write(w, format, merged); err != nil {
			return err
		}
		return w.Flush()
	}

	n, err := export.WriteFile(flagMergeOutput, format, merged)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s) to %s\n", util.Plural(int64(len(merged)), "question"), util.Human(n), flagMergeOutput)
	return nil
}
