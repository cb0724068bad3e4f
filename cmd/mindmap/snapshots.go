package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"mindmap/internal/codec"
	"mindmap/internal/repository"
	"mindmap/internal/repository/sqlite"
	"mindmap/internal/ui"
)

func snapshotsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect archived diagram snapshots",
	}
	cmd.AddCommand(
		snapshotsListCmd(flags),
		snapshotsShowCmd(flags),
		snapshotsRemoveCmd(flags),
	)
	return cmd
}

func openArchive(flags *globalFlags) (*sqlite.Repository, error) {
	cfg, _, err := flags.load()
	if err != nil {
		return nil, err
	}
	archive, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return archive, nil
}

func snapshotsListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive(flags)
			if err != nil {
				return err
			}
			defer archive.Close()

			list, err := archive.List(cmd.Context())
			if err != nil {
				return err
			}
			printSnapshots(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func printSnapshots(w io.Writer, list []repository.SnapshotInfo) {
	if len(list) == 0 {
		ui.Subtle.Fprintln(w, "no snapshots archived")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, info := range list {
		rows = append(rows, []string{
			info.ID,
			info.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(info.NodeCount),
			strconv.Itoa(info.ConnectionCount),
			info.Digest[:12],
		})
	}
	ui.Table(w, []string{"ID", "CREATED", "NODES", "CONNECTIONS", "DIGEST"}, rows)
}

func snapshotsShowCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print one archived snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.Lookup(format)
			if err != nil {
				return err
			}

			archive, err := openArchive(flags)
			if err != nil {
				return err
			}
			defer archive.Close()

			rec, err := archive.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.Export(rec.Snapshot, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	return cmd
}

func snapshotsRemoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"remove"},
		Short:   "Remove archived snapshots",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive(flags)
			if err != nil {
				return err
			}
			defer archive.Close()

			for _, id := range args {
				if err := archive.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("remove %s: %w", id, err)
				}
				ui.Good.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			}
			return nil
		},
	}
}
