package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"musiclib/logger"
	"musiclib/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "List audio assets in MinIO",
	Long:  `Connect to the configured MinIO bucket and list every audio asset under the music prefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if !cfg.AssetsEnabled() {
			return errors.New("MINIO_ENDPOINT is not set")
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		store, err := storage.NewAssetStore(ctx, cfg)
		if err != nil {
			return err
		}
		assets, err := store.List(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "MinIO: %s, bucket %s, prefix %s\n\n", cfg.MinioEndpoint, cfg.MinioBucket, cfg.MinioPrefix)

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSIZE\tTYPE\tMODIFIED")
		var total int64
		for _, a := range assets {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", a.Name, a.Size, a.ContentType, a.LastModified.Format(time.RFC3339))
			total += a.Size
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d assets, %d bytes\n", len(assets), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Example = `  # list every asset under MINIO_PREFIX
  musiclib minio`
}
