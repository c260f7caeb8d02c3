// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/luxfi/ids"
	"github.com/luxfi/rankchoice/access"
	"github.com/luxfi/rankchoice/api"
	"github.com/luxfi/rankchoice/ballot"
	"github.com/luxfi/rankchoice/log"
	"github.com/luxfi/rankchoice/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "rcvd",
	Short: "Ranked-choice voting tabulation daemon",
	Long: `rcvd serves the ballot submission webhook and the two results-read
endpoints over HTTP, backed by an in-memory ballot store and a
snapshot-fingerprinted tabulation cache.`,
}

func main() {
	rootCmd.AddCommand(serveCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// demoMetaSource is a fixed, in-process access.MetaSource used because
// poll ownership/visibility management is an external collaborator per
// spec.md §1; rcvd's job is to demonstrate the core wired end to end, not
// to own poll administration.
type demoMetaSource struct{}

func (demoMetaSource) Meta(pollID ids.ID) (access.Meta, bool) {
	return access.Meta{PollID: pollID, OwnerID: "", Public: true}, true
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tabulation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New("rcvd")

			registry := prometheus.NewRegistry()
			m, err := metrics.New("rcv", registry)
			if err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			store := ballot.NewMemStore()
			cache := access.NewCache(store).WithMetrics(m)

			server := &api.Server{
				Store:   store,
				Cache:   cache,
				Meta:    demoMetaSource{},
				Metrics: m,
				Log:     logger,
			}

			mux := server.Routes()
			mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

			logger.Info("listening", "addr", addr)
			return http.ListenAndServe(addr, mux)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	return cmd
}
