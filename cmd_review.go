package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func newReviewCmd() *cobra.Command {
	var jurisdiction string
	cmd := &cobra.Command{
		Use:   "review <file>",
		Short: "Review a local .txt, .pdf or .docx file and print the report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newReviewService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			report, err := svc.ReviewFile(cmd.Context(), args[0], jurisdiction)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "prefer authorities from this jurisdiction (e.g. US, UK)")
	return cmd
}
