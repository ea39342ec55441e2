package main

import (
	"fmt"

	"github.com/qurandl/qurandl/internal/domain"
	"github.com/spf13/cobra"
)

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved download presets",
	}

	cmd.AddCommand(newPresetSaveCmd())
	cmd.AddCommand(newPresetListCmd())
	cmd.AddCommand(newPresetDeleteCmd())

	return cmd
}

func newPresetSaveCmd() *cobra.Command {
	var reciter, surahs string

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a named download recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if reciter == "" || surahs == "" {
				return fmt.Errorf("--reciter and --surahs are required")
			}
			p := domain.Preset{
				Name:      args[0],
				Reciter:   reciter,
				Surahs:    surahs,
				OutputDir: appCtx.Config.Download.OutDir,
			}
			if err := appCtx.Store.SavePreset(p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reciter, "reciter", "r", "", "reciter name")
	cmd.Flags().StringVarP(&surahs, "surahs", "s", "", "surah selection expression")

	return cmd
}

func newPresetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := appCtx.Store.ListPresets()
			if err != nil {
				return err
			}
			if len(presets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No presets saved.")
				return nil
			}
			for _, p := range presets {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, surahs %s -> %s\n", p.Name, p.Reciter, p.Surahs, p.OutputDir)
			}
			return nil
		},
	}
}

func newPresetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.Store.DeletePreset(args[0])
		},
	}
}
