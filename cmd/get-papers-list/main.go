// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the get-papers-list CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/affiliation"
	"github.com/pdiddy/get-papers-list/internal/pipeline"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/internal/report"
	"github.com/pdiddy/get-papers-list/internal/secrets"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd searches PubMed and reports papers with industry-affiliated authors.
var rootCmd = &cobra.Command{
	Use:   "get-papers-list QUERY",
	Short: "Find PubMed papers with authors from pharmaceutical or biotech companies",
	Long: `get-papers-list searches PubMed with QUERY (full PubMed query syntax is
supported), fetches the matching records and keeps the papers where at least
one author is affiliated with a company rather than an academic institution.

Affiliations are classified by keyword: company keywords such as "inc",
"pharmaceuticals" or "biotech" win over academic keywords such as "university"
or "hospital", and an affiliation matching neither is treated as corporate.
Use --keywords to supply your own lists.

Results are written as CSV to stdout, or to the file given with --file.`,
	Example: `  get-papers-list "CRISPR AND 2023[dp]"
  get-papers-list "cancer immunotherapy" -f results.csv -n 100
  get-papers-list "mRNA vaccine" --format table -d`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)

		if err := secrets.LoadDotEnv(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
	RunE: runQuery,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./get-papers-list.yaml or ~/.config/get-papers-list/get-papers-list.yaml)")
	pf.BoolP("debug", "d", false, "print debug information to stderr")
	pf.String("keywords", "", "YAML file with company/academic keyword lists")
	pf.String("db", "", "SQLite database that records every run and its papers")

	f := rootCmd.Flags()
	f.StringP("file", "f", "", "write results to this file instead of stdout")
	f.IntP("max-results", "n", pipeline.DefaultMaxResults, "maximum number of PubMed records to examine")
	f.String("format", "csv", "output format: csv, table, json or yaml")

	mustBind("classifier.keywords_file", pf.Lookup("keywords"))
	mustBind("output.database", pf.Lookup("db"))
	mustBind("output.file", f.Lookup("file"))
	mustBind("output.format", f.Lookup("format"))
	mustBind("pubmed.max_results", f.Lookup("max-results"))
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("get-papers-list")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "get-papers-list"))
		}
	}

	viper.SetEnvPrefix("GET_PAPERS_LIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setConfigDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	classifier, err := loadClassifier(cfg.Classifier)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client := pubmed.NewClient(cfg.PubMed)
	p := &pipeline.Pipeline{
		Searcher:   client,
		Fetcher:    client,
		Classifier: classifier,
		MaxResults: cfg.PubMed.MaxResults,
		Logger:     slog.Default(),
	}

	papers := p.Run(ctx, args[0])

	// Report first: a database error must not lose fetched results.
	if err := writeReport(cmd, cfg.Output.File, format, papers); err != nil {
		return err
	}
	if cfg.Output.Database != "" {
		return recordRun(ctx, cfg.Output.Database, args[0], papers)
	}
	return nil
}

// writeReport prints papers to stdout, or to file when one is given.
func writeReport(cmd *cobra.Command, file string, format report.Format, papers []types.PaperRecord) error {
	if len(papers) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("No matching papers found."))
		return nil
	}

	if file == "" {
		return report.Write(cmd.OutOrStdout(), format, papers)
	}
	if err := report.WriteFile(file, format, papers); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), okStyle.Render(
		fmt.Sprintf("Wrote %d results to %s", len(papers), file)))
	return nil
}

// loadClassifier builds the affiliation classifier, reading custom keyword
// lists when a keywords file is configured.
func loadClassifier(cfg types.ClassifierConfig) (*affiliation.Classifier, error) {
	if cfg.KeywordsFile == "" {
		return affiliation.Default(), nil
	}
	kw, err := affiliation.LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}
	return affiliation.New(kw), nil
}

func recordRun(ctx context.Context, path, query string, papers []types.PaperRecord) error {
	sink, err := report.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer sink.Close()

	runID, err := sink.Save(ctx, query, papers)
	if err != nil {
		return err
	}
	slog.Debug("recorded run", "db", path, "run_id", runID, "papers", len(papers))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
