package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"lexassist/logic/reference"
)

func newAuthoritiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authorities",
		Short: "Manage the authority index",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Load authorities from a YAML file into Elasticsearch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s failed: %w", args[0], err)
			}
			list, err := reference.ParseAuthorities(data)
			if err != nil {
				return err
			}

			idx, err := newAuthorityIndex(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			n, err := idx.Store(cmd.Context(), list)
			if err != nil {
				return err
			}
			log.Printf(">>> [IMPORT] 写入 %d/%d 条引用依据到 %s", n, len(list), cfg.ES.Index)
			return nil
		},
	})
	return cmd
}
