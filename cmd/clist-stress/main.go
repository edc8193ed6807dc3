package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clist"
	"clist/assert"
)

func main() {
	var (
		configPath  string
		metricsAddr string
		storeKind   string
	)
	flag.StringVar(&configPath, "config", "", "path to workload yaml, defaults are used when empty")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address when set")
	flag.StringVar(&storeKind, "store", "", "override the store of the workload (fine or coarse)")
	flag.Parse()
	defer glog.Flush()

	if err := run(configPath, metricsAddr, storeKind); err != nil {
		glog.Errorf("stress run failed: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(configPath, metricsAddr, storeKind string) error {
	cfg, err := clist.LoadWorkloadConfig(configPath)
	if err != nil {
		return err
	}
	if storeKind != "" {
		cfg.Store = storeKind
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	stats, err := clist.NewStats(reg)
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		httpServer := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				glog.Errorf("metrics server error: %v", err)
			}
		}()
		defer httpServer.Close()
	}

	initial, ops := clist.GenerateOps(cfg, rand.New(rand.NewSource(cfg.Seed)))
	s, err := clist.NewStore(cfg.Store, cfg.ListOptions())
	if err != nil {
		return err
	}
	for _, v := range initial {
		assert.MustNoError(s.PushBack(v))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	glog.Infof("running %d ops on %d threads against the %s store, %d initial values", len(ops), cfg.Threads, cfg.Store, len(initial))
	start := time.Now()
	te := clist.NewEngineConcurrent(cfg.Threads, stats).WithMaxRetries(cfg.MaxRetries)
	if err := te.ExecuteOps(ctx, s, ops); err != nil {
		return err
	}
	elapsed := time.Since(start)

	var succeeded, retries int
	for _, op := range ops {
		if op.GetStatus().Succeeded() {
			succeeded++
		}
		retries += op.Retries()
	}
	if err := clist.CheckExactlyOnce(s.Values(), clist.ExpectedValues(initial, ops)); err != nil {
		return err
	}
	glog.Infof("done in %s: %d/%d ops succeeded, %d retries, %d values left", elapsed, succeeded, len(ops), retries, s.Len())
	if last := te.LastCompleted(); last != nil {
		glog.V(1).Infof("last completed op(%s) at stamp %d", last.String(), last.Stamp())
	}
	return nil
}
