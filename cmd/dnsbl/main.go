// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/H0llyW00dzZ/dnsbl-checker/src/dnsbl"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// options holds the global flags.
type options struct {
	config       string
	nameservers  []string
	timeout      time.Duration
	firstOnly    bool
	bindAll      bool
	twoLevel     string
	threeLevel   string
	publicSuffix bool
	verbose      bool
}

func main() {
	var opt options

	cmd := &cobra.Command{
		Use:   "dnsbl",
		Short: "DNS blacklist checker",
		Long: `DNS blacklist checker.

Looks up IP addresses and domains against DNS-based
blacklists (DNSBL). All queries for an item are sent
at once over UDP to a recursive resolver and the
answers are collected until every blacklist replied
or the timeout elapsed.
`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			dnsbl.Log.SetOutput(os.Stderr)
			if opt.verbose {
				dnsbl.Log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opt.config, "config", "c", "", "blacklist table, YAML or TOML (default bundled table)")
	flags.StringSliceVarP(&opt.nameservers, "nameserver", "n", nil, "recursive resolver IP[:port], repeatable")
	flags.DurationVarP(&opt.timeout, "timeout", "t", 0, "time to wait for the next reply (default 1.5s)")
	flags.BoolVar(&opt.firstOnly, "first-only", false, "stop after the first reply per item")
	flags.BoolVar(&opt.bindAll, "bind-all", false, "spread queries across all nameservers")
	flags.StringVar(&opt.twoLevel, "two-level", "", "two-level TLD override file")
	flags.StringVar(&opt.threeLevel, "three-level", "", "three-level TLD override file")
	flags.BoolVar(&opt.publicSuffix, "public-suffix", false, "use the public suffix list for domains")
	flags.BoolVarP(&opt.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		lookupCommand(&opt),
		listCommand(&opt),
		normalizeCommand(&opt),
	)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// client builds a client from the global flags.
func (o *options) client() (*dnsbl.Client, error) {
	var opts []dnsbl.Option

	if o.config != "" {
		blacklists, err := dnsbl.LoadConfigFile(o.config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config '%s' : %w", o.config, err)
		}
		opts = append(opts, dnsbl.WithBlacklists(blacklists))
	}

	if len(o.nameservers) > 0 {
		ns := make([]dnsbl.Nameserver, 0, len(o.nameservers))
		for _, s := range o.nameservers {
			n, err := dnsbl.ParseNameserver(s)
			if err != nil {
				return nil, fmt.Errorf("invalid nameserver '%s' : %w", s, err)
			}
			ns = append(ns, n)
		}
		opts = append(opts, dnsbl.WithNameservers(ns...))
	}

	if o.twoLevel != "" || o.threeLevel != "" {
		two, err := tldList(o.twoLevel, dnsbl.DefaultTwoLevelTLDs)
		if err != nil {
			return nil, err
		}
		three, err := tldList(o.threeLevel, dnsbl.DefaultThreeLevelTLDs)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dnsbl.WithTLDOverrides(two, three))
	}

	opts = append(opts,
		dnsbl.WithTimeout(o.timeout),
		dnsbl.WithFirstOnly(o.firstOnly),
	)
	if o.bindAll {
		opts = append(opts, dnsbl.WithBindAll())
	}
	if o.publicSuffix {
		opts = append(opts, dnsbl.WithPublicSuffix())
	}

	return dnsbl.New(opts...)
}

func tldList(path string, fallback func() []string) ([]string, error) {
	if path == "" {
		return fallback(), nil
	}
	list, err := dnsbl.LoadTLDFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLD list '%s' : %w", path, err)
	}
	return list, nil
}

func lookupCommand(opt *options) *cobra.Command {
	var xlsx string

	cmd := &cobra.Command{
		Use:   "lookup ITEM...",
		Short: "Look up IP addresses and domains",
		Example: `  dnsbl lookup 127.0.0.2
  dnsbl lookup -n 9.9.9.9 --xlsx report.xlsx 127.0.0.2 dbltest.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opt.client()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			results, err := c.Lookup(ctx, args...)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ITEM\tBLACKLIST\tQUERY\tRESULT\tMEANING\tELAPSED")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Item, r.Blacklist, r.Query, r.Result, r.Meaning, r.Elapsed.Round(time.Millisecond))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if xlsx != "" {
				return exportXLSX(xlsx, results)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the results to an Excel workbook")
	return cmd
}

func listCommand(opt *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured blacklists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opt.client()
			if err != nil {
				return err
			}
			defer c.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tZONE\tTYPE\tSTATUS\tDECODER")
			for _, name := range c.Blacklists() {
				b, _ := c.Blacklist(name)
				status := "enabled"
				if b.Disabled {
					status = "disabled"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", b.Name, b.Zone, b.Type, status, b.Decoder)
			}
			return w.Flush()
		},
	}
}

func normalizeCommand(opt *options) *cobra.Command {
	return &cobra.Command{
		Use:     "normalize HOST...",
		Short:   "Print the registrable domain of each host or URL",
		Example: `  dnsbl normalize https://www.example.co.uk/path`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opt.client()
			if err != nil {
				return err
			}
			defer c.Close()

			for _, host := range args {
				fmt.Fprintln(cmd.OutOrStdout(), c.Normalize(host))
			}
			return nil
		},
	}
}
