// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/affiliation"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Print the affiliation keyword lists in effect",
	Long: `Keywords prints the company and academic keyword lists the classifier will
use, as YAML. With --keywords it shows the lists read from that file (missing
lists fall back to the defaults), so the output is also a starting point for
a custom keywords file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		c, err := loadClassifier(cfg.Classifier)
		if err != nil {
			return err
		}
		return affiliation.WriteKeywords(cmd.OutOrStdout(), c.Keywords())
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}
