package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var configDir string

func main() {
	root := &cobra.Command{
		Use:           "lexassist",
		Short:         "Contract generation and compliance review service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "", "directory containing lexassist.yaml")

	root.AddCommand(newServeCmd(), newReviewCmd(), newAuthoritiesCmd())

	if err := root.Execute(); err != nil {
		log.Println(">>> [ERROR]", err)
		os.Exit(1)
	}
}
