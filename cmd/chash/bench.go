package main

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"chash/pkg/config"
	"chash/pkg/estimator"
	"chash/pkg/generator"
	"chash/pkg/hash"
	"chash/pkg/metrics"
	"chash/pkg/sharding"
	"chash/pkg/types"
)

type bench struct {
	cfg        config.BenchmarkConfig
	hasher     hash.Hasher
	strategies []sharding.Strategy
	est        *estimator.Estimator
	collector  metrics.Collector
}

// run печатает отчёт: баланс по нодам, затем долю переехавших ключей при удалении нод
func run(ctx context.Context, cfg config.Config, w io.Writer, collector metrics.Collector) error {
	h, err := hash.ByName(cfg.Benchmark.Hash)
	if err != nil {
		return err
	}
	strategies := make([]sharding.Strategy, 0, len(cfg.Benchmark.Strategies))
	for _, name := range cfg.Benchmark.Strategies {
		s, err := sharding.ParseStrategy(name)
		if err != nil {
			return err
		}
		strategies = append(strategies, s)
	}
	// ключи генерируются заново на каждый проход, проверяем имя заранее
	if _, err := generator.ByName(cfg.Benchmark.Distribution, 0, 0); err != nil {
		return err
	}

	b := &bench{
		cfg:        cfg.Benchmark,
		hasher:     h,
		strategies: strategies,
		est: estimator.New(estimator.Options{
			Workers:   cfg.Estimator.Workers,
			BatchSize: cfg.Estimator.BatchSize,
		}),
		collector: collector,
	}

	slog.Info("benchmark started",
		"hash", b.cfg.Hash,
		"nodes", b.cfg.Nodes,
		"segments", b.cfg.Segments,
		"keys", b.cfg.Keys,
		"distribution", b.cfg.Distribution,
		"strategies", cfg.Benchmark.Strategies,
	)

	base := make([]sharding.Router, len(strategies))
	for i, s := range strategies {
		if base[i], err = b.build(s, b.cfg.Nodes); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "========== %s ===========\n", title(strategies))
	for i, s := range strategies {
		est, err := b.est.Estimate(ctx, base[i], b.cfg.Nodes, b.keys())
		if err != nil {
			return fmt.Errorf("estimate %s: %w", s, err)
		}
		labels := map[string]string{"strategy": string(s)}
		b.collector.SetGauge("balance_mean", labels, est.Mean)
		b.collector.SetGauge("balance_std", labels, est.Std)
		fmt.Fprintf(w, "%s: %s\n", label(s), est)
	}

	for removed := 1; removed <= b.cfg.MaxRemoved; removed++ {
		fmt.Fprintf(w, "================ Remove %d nodes ================\n", removed)
		for i, s := range strategies {
			updated, err := b.build(s, b.cfg.Nodes-removed)
			if err != nil {
				return err
			}
			frac, err := b.est.Diff(ctx, base[i], updated, b.keys())
			if err != nil {
				return fmt.Errorf("diff %s: %w", s, err)
			}
			b.collector.SetGauge("remap_fraction", map[string]string{
				"strategy": string(s),
				"removed":  strconv.Itoa(removed),
			}, frac)
			fmt.Fprintf(w, "%s: %f%%\n", label(s), 100*frac)
		}
	}

	slog.Info("benchmark finished")
	return nil
}

func (b *bench) build(s sharding.Strategy, nodes int) (sharding.Router, error) {
	start := time.Now()
	r, err := sharding.New(s, b.hasher, nodes, b.cfg.Segments)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	b.collector.ObserveHistogram("router_build_seconds", map[string]string{"strategy": string(s)}, elapsed.Seconds())
	slog.Debug("router built", "strategy", s, "nodes", nodes, "elapsed", elapsed)
	return r, nil
}

func (b *bench) keys() iter.Seq[types.Key] {
	seq, _ := generator.ByName(b.cfg.Distribution, b.cfg.Keys, b.cfg.Seed)
	return seq
}

func label(s sharding.Strategy) string {
	name := string(s)
	return strings.ToUpper(name[:1]) + name[1:] + " hashing"
}

func title(strategies []sharding.Strategy) string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = strings.ToUpper(string(s)[:1]) + string(s)[1:]
	}
	return strings.Join(names, " vs. ")
}
