package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/internal/config"
	"github.com/gaze-network/ton20-indexer/modules/ton20"
	"github.com/spf13/cobra"
)

func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect persisted ledger snapshots",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Check that the latest snapshot decodes and matches its stored hash",
		RunE:  snapshotVerifyHandler,
	})
	return cmd
}

func snapshotVerifyHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	summary, err := ton20.VerifyLatestSnapshot(cmd.Context(), conf.Modules.TON20)
	if err != nil {
		return errors.Wrap(err, "snapshot verification failed")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "state hash:  %s\n", summary.StateHash)
	fmt.Fprintf(out, "watermark:   %d/%s (block %d)\n", summary.Lt, summary.TxHash, summary.BlockSeqno)
	fmt.Fprintf(out, "ticks:       %d\n", summary.Ticks)
	fmt.Fprintf(out, "wallets:     %d\n", summary.Wallets)
	fmt.Fprintf(out, "size:        %d bytes\n", summary.Bytes)
	return nil
}
