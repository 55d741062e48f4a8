package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobboard-engine/internal/store"
)

func newImportCmd(c *cli) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the listing from --source into a sqlite database",
		Long: `import loads the configured source and writes it to a sqlite database,
replacing whatever listing the database held before. Serve it afterwards
with --source sqlite:<path>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("--db is required")
			}

			st, err := c.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			jobs := st.All()

			db, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", dbPath, err)
			}
			defer db.Close()

			if err := store.Migrate(db.Pool); err != nil {
				return fmt.Errorf("migrate %s: %w", dbPath, err)
			}

			bar := pb.New(len(jobs)).SetWriter(cmd.ErrOrStderr()).Start()
			n, err := store.Import(cmd.Context(), db.Pool, jobs, func() { bar.Increment() })
			bar.Finish()
			if err != nil {
				return err
			}

			size := "?"
			if fi, err := os.Stat(dbPath); err == nil {
				size = humanize.Bytes(uint64(fi.Size()))
			}
			c.log.Info("listing imported", zap.String("db", dbPath), zap.Int("jobs", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s jobs into %s (%s)\n", humanize.Comma(int64(n)), dbPath, size)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database to write")
	return cmd
}
