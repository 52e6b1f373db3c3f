package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/option-calc/internal/api"
	"github.com/contactkeval/option-calc/internal/config"
	"github.com/contactkeval/option-calc/internal/data"
	"github.com/contactkeval/option-calc/internal/engine"
	"github.com/contactkeval/option-calc/internal/logger"
	"github.com/contactkeval/option-calc/internal/pricing"
	"github.com/contactkeval/option-calc/internal/report"
	"github.com/contactkeval/option-calc/internal/surface"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("option-calc: %v", err)
	}
}

type options struct {
	configPath  string
	rest        bool
	port        string
	verbosity   string
	interactive bool

	model    string
	kind     string
	spot     float64
	strike   string
	maturity float64
	days     float64
	rate     float64
	vol      float64
	steps    int
	ticker   string

	outDir     string
	surfaceOut bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("option-calc", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "path to YAML config")
	fs.BoolVar(&o.rest, "rest", false, "run as REST server")
	fs.StringVar(&o.port, "port", "", "REST server listen address (overrides config)")
	fs.StringVar(&o.verbosity, "v", "", "log verbosity: error|info|debug|trace")
	fs.BoolVar(&o.interactive, "i", false, "prompt for inputs")

	fs.StringVar(&o.model, "model", "", "pricing model: european|american (default from config)")
	fs.StringVar(&o.kind, "kind", "both", "option kind: call|put|both")
	fs.Float64Var(&o.spot, "spot", 0, "stock price S (0 with -ticker uses last close)")
	fs.StringVar(&o.strike, "strike", "", "strike price K, or a rule over spot such as ATM, ATM+5, spot*1.05")
	fs.Float64Var(&o.maturity, "maturity", 0, "time to maturity in years")
	fs.Float64Var(&o.days, "days", 0, "time to maturity in calendar days (used when -maturity is 0)")
	fs.Float64Var(&o.rate, "rate", 0.05, "annual risk-free rate, e.g. 0.05 for 5%")
	fs.Float64Var(&o.vol, "vol", 0, "volatility, e.g. 0.2 for 20% (0 with -ticker uses historical)")
	fs.IntVar(&o.steps, "steps", 0, "binomial steps for the american model (default from config)")
	fs.StringVar(&o.ticker, "ticker", "", "fill spot and volatility from market data for this ticker")

	fs.StringVar(&o.outDir, "out", "", "write quotes.json (and surfaces) to this directory")
	fs.BoolVar(&o.surfaceOut, "surface", false, "also write spot × volatility price surfaces to -out")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.port != "" {
		cfg.Server.Port = o.port
	}
	if o.verbosity != "" {
		cfg.Logging.Level = o.verbosity
	}
	if o.model != "" {
		cfg.Pricing.Model = o.model
	}
	if o.steps != 0 {
		cfg.Pricing.Steps = o.steps
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.SetVerbosity(cfg.Verbosity())

	prov, err := data.NewProvider(cfg.Data.Provider, cfg.Data.APIKey, cfg.Data.Dir, cfg.Data.Seed)
	if err != nil {
		return err
	}
	logger.Infof("%s provider enabled", prov.Name())
	eng := engine.New(prov, cfg.Data.LookbackDays)

	if o.rest {
		srv := &http.Server{
			Addr:              cfg.Server.Port,
			Handler:           api.NewServer(eng).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		logger.Infof("starting REST server on %s", cfg.Server.Port)
		return srv.ListenAndServe()
	}

	if o.interactive {
		if err := prompt(bufio.NewReader(stdin), stdout, o); err != nil {
			return err
		}
		cfg.Pricing.Model = o.model
		if m, _ := engine.ParseModel(o.model); m == engine.American {
			cfg.Pricing.Steps = o.steps
		}
	}

	req, err := o.request(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	quotes, err := quote(context.Background(), eng, req, o.kind)
	if err != nil {
		return err
	}
	for _, q := range quotes {
		printQuote(stdout, q)
	}
	logger.Debugf("priced %d quote(s) in %v", len(quotes), time.Since(start))

	if o.outDir == "" {
		return nil
	}
	if err := os.MkdirAll(o.outDir, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %w", o.outDir, err)
	}
	if err := report.WriteQuoteJSON(quotes, o.outDir); err != nil {
		return err
	}
	if o.surfaceOut {
		for _, q := range quotes {
			g, err := surface.Build(q.Kind, q.Params, surface.Axis{}, surface.Axis{})
			if err != nil {
				return err
			}
			path, err := report.WriteSurfaceFile(g, o.outDir)
			if err != nil {
				return err
			}
			logger.Infof("wrote %s", path)
		}
	}
	logger.Infof("wrote %d quote(s) to %s", len(quotes), o.outDir)
	return nil
}

func (o *options) request(cfg *config.Config) (engine.Request, error) {
	model, err := engine.ParseModel(cfg.Pricing.Model)
	if err != nil {
		return engine.Request{}, err
	}
	maturity := o.maturity
	if maturity == 0 && o.days > 0 {
		maturity = o.days / 365
	}
	strike, rule := splitStrike(o.strike)
	req := engine.Request{
		Model:      model,
		Kind:       pricing.Call,
		Ticker:     o.ticker,
		StrikeRule: rule,
		Params: pricing.Params{
			Spot:       o.spot,
			Strike:     strike,
			Maturity:   maturity,
			Rate:       o.rate,
			Volatility: o.vol,
		},
	}
	if model == engine.American {
		req.Steps = cfg.Pricing.Steps
	}
	return req, nil
}

// splitStrike reads a plain number as a fixed strike and anything else as a rule.
func splitStrike(s string) (float64, string) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, ""
	}
	return 0, s
}

func quote(ctx context.Context, eng *engine.Engine, req engine.Request, kind string) ([]engine.Quote, error) {
	if strings.EqualFold(strings.TrimSpace(kind), "both") {
		call, put, err := eng.QuoteBoth(ctx, req)
		if err != nil {
			return nil, err
		}
		return []engine.Quote{call, put}, nil
	}
	k, err := pricing.ParseOptionKind(kind)
	if err != nil {
		return nil, err
	}
	req.Kind = k
	q, err := eng.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	return []engine.Quote{q}, nil
}

func printQuote(w io.Writer, q engine.Quote) {
	kind := strings.ToUpper(q.Kind.String()[:1]) + q.Kind.String()[1:]
	if q.Model == engine.American {
		fmt.Fprintf(w, "\n Estimated US %s Option Price: $%.2f\n", kind, q.Price)
	} else {
		fmt.Fprintf(w, "\n Estimated EU %s Option Price (Black-Scholes): $%.2f\n", kind, q.Price)
	}
	fmt.Fprintln(w, "\n Option Greeks Explanation:")
	for _, line := range report.Explain(q.Greeks) {
		fmt.Fprintln(w, line)
	}
}

// prompt asks for every input on stdin, as the classic calculator does.
func prompt(r *bufio.Reader, w io.Writer, o *options) error {
	fmt.Fprintln(w, "Option Pricing Calculator")
	fmt.Fprintln(w)

	ask := func(label string) (string, error) {
		fmt.Fprint(w, label)
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("reading %q: %w", strings.TrimSpace(label), err)
		}
		return strings.TrimSpace(line), nil
	}
	askFloat := func(label string) (float64, error) {
		s, err := ask(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", strings.TrimSpace(label), err)
		}
		return v, nil
	}

	var err error
	if o.model, err = ask("Choose option ('american' or 'european'): "); err != nil {
		return err
	}
	model, err := engine.ParseModel(o.model)
	if err != nil {
		return err
	}
	if o.spot, err = askFloat("Enter stock price (S): "); err != nil {
		return err
	}
	if o.strike, err = ask("Enter strike price (K, or a rule such as ATM+5): "); err != nil {
		return err
	}
	if o.maturity, err = askFloat("Enter time to maturity (T in years): "); err != nil {
		return err
	}
	if o.rate, err = askFloat("Enter annual risk-free rate (e.g. 0.05 for 5%): "); err != nil {
		return err
	}
	if o.vol, err = askFloat("Enter volatility (e.g. 0.05 for 5%): "); err != nil {
		return err
	}
	if o.kind, err = ask("Enter option type ('call' or 'put'): "); err != nil {
		return err
	}
	if _, err := pricing.ParseOptionKind(o.kind); err != nil {
		return err
	}
	if model == engine.American {
		s, err := ask("Enter number of binomial steps (e.g. 100): ")
		if err != nil {
			return err
		}
		if o.steps, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("steps: %w", err)
		}
		if o.steps < 1 {
			return fmt.Errorf("%w: %d", pricing.ErrInvalidStepCount, o.steps)
		}
	}
	return nil
}
