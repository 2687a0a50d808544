package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"battlesim/internal/bench"
	"battlesim/internal/config"
	"battlesim/internal/diag"
	"battlesim/internal/report"
	"battlesim/internal/server"
	"battlesim/internal/storage"
	"battlesim/internal/targeting"
	"battlesim/internal/util"
)

type options struct {
	cfgPath     string
	benchmark   int
	verbose     bool
	logLosses   bool
	catchGuards bool
	seed        int64
	workers     int
	player      string
	opponent    string
	out         string
	dbPath      string
	serve       string
	runs        int
}

func parseFlags(args []string) (options, map[string]bool, error) {
	var o options
	fs := flag.NewFlagSet("battlesim", flag.ContinueOnError)
	fs.StringVar(&o.cfgPath, "config", "", "YAML config file")
	fs.IntVar(&o.benchmark, "benchmark", 0, "run N games and report statistics")
	fs.IntVar(&o.benchmark, "b", 0, "shorthand for -benchmark")
	fs.BoolVar(&o.verbose, "verbose", false, "trace targeting decisions")
	fs.BoolVar(&o.verbose, "v", false, "shorthand for -verbose")
	fs.BoolVar(&o.logLosses, "log-losses", false, "record every lost game")
	fs.BoolVar(&o.logLosses, "l", false, "shorthand for -log-losses")
	fs.BoolVar(&o.catchGuards, "catch-guards", false, "play until a targeting guard trips")
	fs.BoolVar(&o.catchGuards, "g", false, "shorthand for -catch-guards")
	fs.Int64Var(&o.seed, "seed", 0, "base seed (0 = time based)")
	fs.IntVar(&o.workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	fs.StringVar(&o.player, "player", "", "strategy under test")
	fs.StringVar(&o.opponent, "opponent", "", "opposing strategy")
	fs.StringVar(&o.out, "out", "", "write the JSON summary to this file")
	fs.StringVar(&o.dbPath, "db", "", "archive summaries in this SQLite file")
	fs.StringVar(&o.serve, "serve", "", "serve the HTTP API on this address")
	fs.IntVar(&o.runs, "runs", 0, "list the N most recent archived runs")
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// run returns every failure so deferred cleanup happens before exit.
func run(args []string) error {
	o, set, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, o, set)

	d := diag.New(cfg.Diagnostics.MaxEntries)
	if o.verbose || cfg.Diagnostics.Debug {
		d.SetDebug(true)
		d.Echo = log.New(os.Stderr, "", 0)
	}

	var store *storage.Store
	if cfg.Storage.Path != "" {
		store, err = storage.Open(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	switch {
	case o.runs > 0:
		return listRuns(store, o.runs)
	case set["serve"]:
		return serve(cfg, store, d)
	case o.catchGuards:
		return catchGuards(cfg, d, set["benchmark"] || set["b"])
	case set["benchmark"] || set["b"]:
		return benchmark(cfg, o, store, d)
	default:
		return playOne(cfg, d)
	}
}

func applyOverrides(cfg *config.Config, o options, set map[string]bool) {
	if set["benchmark"] || set["b"] {
		cfg.Benchmark.Games = o.benchmark
		if cfg.Benchmark.Games <= 0 {
			cfg.Benchmark.Games = 100
		}
	}
	if set["seed"] {
		cfg.Benchmark.Seed = o.seed
	}
	if set["workers"] && o.workers >= 0 {
		cfg.Benchmark.Workers = o.workers
	}
	if o.player != "" {
		cfg.Players.Player = o.player
	}
	if o.opponent != "" {
		cfg.Players.Opponent = o.opponent
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}
	if o.serve != "" {
		cfg.Server.Addr = o.serve
	}
}

// playOne plays a single game and prints every shot.
func playOne(cfg *config.Config, d *diag.Log) error {
	rng := util.New(util.ResolveSeed(cfg.Benchmark.Seed))
	player, err := targeting.New(cfg.Players.Player, rng, d)
	if err != nil {
		return err
	}
	opponent, err := targeting.New(cfg.Players.Opponent, rng, d)
	if err != nil {
		return err
	}
	res := bench.PlayGame(rng, player, opponent, bench.GameOptions{
		Diag: d,
		Emit: func(ev bench.Event) {
			switch ev.Type {
			case "Shot":
				fmt.Printf("round %3d  %-8s %-6s %-4s -> %s\n", ev.Round,
					ev.Payload["side"], ev.Payload["strategy"], ev.Payload["move"], ev.Payload["result"])
			case "End":
				fmt.Printf("game over after %d rounds: %s\n", ev.Round, ev.Payload["outcome"])
			}
		},
	})
	fmt.Printf("%s sank %d ships, %s sank %d ships (%s)\n",
		player.Name(), res.PlayerSunk, opponent.Name(), res.OpponentSunk, res.Elapsed)
	return nil
}

func benchmark(cfg *config.Config, o options, store *storage.Store, d *diag.Log) error {
	log.Printf("Running %d games: %s vs %s", cfg.Benchmark.Games, cfg.Players.Player, cfg.Players.Opponent)
	var losses *diag.Log
	if o.logLosses {
		losses = diag.New(cfg.Benchmark.Games)
	}
	sum, err := bench.Run(bench.Options{
		Games:        cfg.Benchmark.Games,
		Workers:      cfg.Benchmark.Workers,
		Seed:         cfg.Benchmark.Seed,
		Player:       cfg.Players.Player,
		Opponent:     cfg.Players.Opponent,
		Diag:         d,
		LogLosses:    o.logLosses,
		LossLog:      losses,
		PollInterval: time.Duration(cfg.Benchmark.PollIntervalMs) * time.Millisecond,
		Progress: func(done, total int) {
			log.Printf("Completed %d/%d games...", done, total)
		},
	})
	if err != nil {
		return err
	}
	fmt.Println(report.Render(sum))

	if o.logLosses {
		for _, e := range losses.Entries() {
			fmt.Println(e)
		}
	}
	if o.out != "" {
		if err := os.WriteFile(o.out, report.MarshalPretty(sum), 0644); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		log.Printf("summary written to %s", o.out)
	}
	if store != nil {
		id, err := store.SaveRun(sum)
		if err != nil {
			return err
		}
		log.Printf("archived as run %d", id)
	}
	return nil
}

func catchGuards(cfg *config.Config, d *diag.Log, bounded bool) error {
	maxGames := 0
	if bounded {
		maxGames = cfg.Benchmark.Games
	}
	d.SetDebug(true)
	rep, err := bench.CatchGuards(bench.GuardOptions{
		Seed:     cfg.Benchmark.Seed,
		Player:   cfg.Players.Player,
		Opponent: cfg.Players.Opponent,
		Diag:     d,
		MaxGames: maxGames,
		Tail:     cfg.Diagnostics.GuardTail,
		Progress: func(games int) {
			log.Printf("Played %d games without a guard trip...", games)
		},
	})
	if err != nil {
		return err
	}
	if !rep.Tripped {
		fmt.Printf("No guard tripped in %d games.\n", rep.Games)
		return nil
	}
	fmt.Println(report.RenderGuards(rep.Games, rep.Entries))
	return nil
}

func listRuns(store *storage.Store, n int) error {
	if store == nil {
		return errors.New("listing runs needs -db or storage.path")
	}
	runs, err := store.ListRuns(n)
	if err != nil {
		return err
	}
	for _, r := range runs {
		s := r.Summary
		fmt.Printf("#%-4d %s  %s vs %s  games=%d wins=%d losses=%d ties=%d avg=%.1f\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), s.Player, s.Opponent, s.Games, s.Wins, s.Losses, s.Ties, s.AvgMoves)
	}
	return nil
}

func serve(cfg *config.Config, store *storage.Store, d *diag.Log) error {
	srv := server.New(store, d, server.Defaults{
		Games:    cfg.Benchmark.Games,
		Workers:  cfg.Benchmark.Workers,
		Player:   cfg.Players.Player,
		Opponent: cfg.Players.Opponent,
		Poll:     time.Duration(cfg.Benchmark.PollIntervalMs) * time.Millisecond,
	})
	httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Routes()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server: shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", cfg.Server.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	srv.Shutdown()
	return nil
}
