package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/qurandl/qurandl/internal/domain"
	"github.com/qurandl/qurandl/internal/selection"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	flagReciter     string
	flagSurahs      string
	flagInteractive bool
	flagPreset      string
	flagSavePreset  string
	flagRefresh     bool
)

func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download surahs for a reciter",
		RunE:  runDownload,
	}

	f := cmd.Flags()
	f.StringVarP(&flagReciter, "reciter", "r", "", `reciter name, or "list" to print the catalogue`)
	f.StringVarP(&flagSurahs, "surahs", "s", "", `surah selection: "all", "1-10", "1,5,9" or a single number`)
	f.BoolVarP(&flagInteractive, "interactive", "i", false, "prompt for reciter and surahs")
	f.StringVar(&flagPreset, "preset", "", "load reciter/surahs/output from a saved preset")
	f.StringVar(&flagSavePreset, "save-preset", "", "save this invocation under a preset name")
	f.BoolVar(&flagRefresh, "refresh", false, "bypass the catalogue cache")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reciterName := flagReciter
	surahExpr := flagSurahs

	if flagPreset != "" {
		p, err := appCtx.Store.GetPreset(flagPreset)
		if err != nil {
			return err
		}
		if reciterName == "" {
			reciterName = p.Reciter
		}
		if surahExpr == "" {
			surahExpr = p.Surahs
		}
		if flagOutput == "" && p.OutputDir != "" {
			appCtx.Config.Download.OutDir = p.OutputDir
		}
	}

	if strings.EqualFold(reciterName, "list") {
		return printCatalogue(ctx, cmd.OutOrStdout(), flagRefresh)
	}

	if flagInteractive {
		var err error
		reciterName, surahExpr, err = promptMissing(ctx, cmd, reciterName, surahExpr)
		if err != nil {
			return err
		}
	}

	if reciterName == "" {
		return fmt.Errorf("no reciter given: use --reciter, --preset or --interactive")
	}
	if surahExpr == "" {
		return fmt.Errorf("no surah selection given: use --surahs, --preset or --interactive")
	}

	reciter, err := appCtx.Catalogue.ResolveByName(ctx, reciterName)
	if err != nil {
		return err
	}

	surahs, err := selection.Parse(surahExpr)
	if err != nil {
		return err
	}

	if flagSavePreset != "" {
		err := appCtx.Store.SavePreset(domain.Preset{
			Name:      flagSavePreset,
			Reciter:   reciter.Name,
			Surahs:    surahExpr,
			OutputDir: appCtx.Config.Download.OutDir,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q\n", flagSavePreset)
	}

	bar := progressbar.NewOptions(len(surahs),
		progressbar.OptionSetDescription(reciter.Name),
		progressbar.OptionSetItsString("surah"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	orch.OnResult = func(domain.FetchResult) { bar.Add(1) }

	summary, err := appCtx.Engine.Run(ctx, reciter, surahs, appCtx.Config.Download.OutDir)
	bar.Finish()
	if err != nil {
		return err
	}

	if recErr := appCtx.Store.RecordRun(summary); recErr != nil {
		appCtx.Logger.Warn("could not record run: %v", recErr)
	}

	printSummary(cmd.OutOrStdout(), summary)

	// Per-surah failures are reported in the summary, not via exit code.
	return nil
}

func printSummary(w io.Writer, s domain.DownloadSummary) {
	fmt.Fprintf(w, "\n%s: %d of %d surahs downloaded (%d failed) in %s\n",
		s.Reciter, s.Succeeded, s.Requested, s.Failed, s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Output: %s\n", s.OutputDir)
	for _, e := range s.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func printCatalogue(ctx context.Context, w io.Writer, refresh bool) error {
	reciters, err := appCtx.Catalogue.Reciters(ctx, refresh)
	if err != nil {
		return err
	}
	for i, r := range reciters {
		fmt.Fprintf(w, "%3d. %s (%s)\n", i+1, r.Name, r.Language)
	}
	return nil
}

// promptMissing asks for whatever the flags did not provide. Runs entirely
// in the CLI; the engine only ever sees resolved inputs.
func promptMissing(ctx context.Context, cmd *cobra.Command, reciterName, surahExpr string) (string, string, error) {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	if reciterName == "" {
		reciters, err := appCtx.Catalogue.Reciters(ctx, flagRefresh)
		if err != nil {
			return "", "", err
		}
		for i, r := range reciters {
			fmt.Fprintf(out, "%3d. %s (%s)\n", i+1, r.Name, r.Language)
		}
		fmt.Fprint(out, "Reciter number: ")
		line, err := in.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 1 || n > len(reciters) {
			return "", "", fmt.Errorf("invalid reciter number %q", strings.TrimSpace(line))
		}
		reciterName = reciters[n-1].Name
	}

	if surahExpr == "" {
		fmt.Fprint(out, `Surahs ("all", "1-10", "1,5,9" or a single number): `)
		line, err := in.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		surahExpr = strings.TrimSpace(line)
	}

	return reciterName, surahExpr, nil
}
