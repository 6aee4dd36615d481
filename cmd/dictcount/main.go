package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/PhucNguyen204/dictcount/internal/config"
	"github.com/PhucNguyen204/dictcount/internal/judge"
	srv "github.com/PhucNguyen204/dictcount/internal/server"
	"github.com/PhucNguyen204/dictcount/internal/store"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	serve := flag.Bool("serve", false, "Run the HTTP API instead of reading test cases from stdin")
	record := flag.Bool("record", false, "Persist every answered test case to postgres")
	noPrecheck := flag.Bool("no-precheck", false, "Scan query texts without stripping punctuation")
	noPrefilter := flag.Bool("no-prefilter", false, "Always build the automaton, even when no literal occurs")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	cfg = cfg.FromEnv()
	if *noPrecheck {
		cfg = cfg.WithPrecheck(false)
	}
	if *noPrefilter {
		cfg = cfg.WithPrefilter(false)
	}

	if *serve {
		runServer(cfg)
		return
	}

	cases, err := judge.Run(os.Stdin, os.Stdout, cfg.CountOptions())
	if err != nil {
		log.Fatalf("judge: %v", err)
	}
	if *record {
		st := store.New(openDB(cfg.DatabaseDSN))
		ctx := context.Background()
		if err := st.InitSchema(ctx, cfg.MigrationsPath, "./migrations"); err != nil {
			log.Fatalf("init schema: %v", err)
		}
		for _, c := range cases {
			if _, err := st.InsertResult(ctx, store.Result{
				Source:       "cli",
				PatternCount: len(c.Patterns),
				RawText:      c.RawText,
				Text:         c.Text,
				Count:        c.Count,
			}); err != nil {
				log.Fatalf("record case %d: %v", c.Index+1, err)
			}
		}
	}
}

func openDB(dsn string) *sql.DB {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	return db
}

func runServer(cfg config.Config) {
	st := store.New(openDB(cfg.DatabaseDSN))
	ctx := context.Background()
	if err := st.InitSchema(ctx, cfg.MigrationsPath, "./migrations", "/srv/migrations"); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	server := srv.NewAppServer(st, cfg.CountOptions(), cfg.ResultLimit)

	// Optional dictionaries path
	dictsPath := cfg.DictionariesPath
	if dictsPath == "" {
		if fi, err := os.Stat("./dictionaries"); err == nil && fi.IsDir() {
			dictsPath = "./dictionaries"
		}
	}
	if dictsPath != "" {
		if n, err := server.LoadDictionariesFromDir(ctx, dictsPath); err != nil {
			log.Printf("failed to load dictionaries from %s: %v", dictsPath, err)
		} else {
			log.Printf("loaded dictionaries from %s: %d", dictsPath, n)
		}
	}

	log.Printf("dictcount server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server.Router()); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
