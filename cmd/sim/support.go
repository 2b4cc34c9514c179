package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/zintix-labs/packlab"
	"github.com/zintix-labs/packlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	rounds    int
	worker    int
	seed      int64
	format    string
	pprofmode string
}

func bindVar() {
	flag.IntVar(&cfg.rounds, "n", 1_000_000, "number of all-filler paddings (5 cards each)")
	flag.IntVar(&cfg.worker, "worker", runtime.NumCPU(), "number of workers")
	flag.Int64Var(&cfg.seed, "seed", 0, "int64 seed, 0 = random")
	flag.StringVar(&cfg.format, "format", "table", "output: table|json|yaml")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()
}

// 執行補位分佈模擬並輸出報表
func executeSimulator() {
	cfg.valid()

	rd, err := stats.NewRender(cfg.format)
	if err != nil {
		log.Fatal(err)
	}
	table := cfg.format == "" || cfg.format == "table"

	if table {
		green := "\033[1;32m"
		reset := "\033[0m"
		p := message.NewPrinter(language.English)
		p.Printf("%s[WORKERS:%d] [ROUNDS:%d] [CARDS:%d]%s\n", green, cfg.worker, cfg.rounds, cfg.rounds*5, reset)
	}
	rep, used, err := packlab.SimulateFiller(packlab.FillerSim{
		Rounds:  cfg.rounds,
		Workers: cfg.worker,
		Seed:    cfg.seed,
		ShowPB:  table,
	})
	if err != nil {
		log.Fatal(err)
	}
	if table {
		rep.StdOut(os.Stdout, used)
		return
	}
	if err := rep.WriteWith(os.Stdout, rd); err != nil {
		log.Fatal(err)
	}
}

func (cfg *config) valid() {
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	if cfg.rounds < 1 {
		log.Fatal("value err : n must > 0")
	}
}
