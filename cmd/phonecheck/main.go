// Command phonecheck validates phone numbers given as arguments and reports
// each one with its localised failures.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"phonenumber_validator/internal/countries"
	"phonenumber_validator/internal/validation/locales"
	"phonenumber_validator/internal/validation/service"
	"phonenumber_validator/internal/validation/transport"
	"phonenumber_validator/platform/apperr"
	"phonenumber_validator/platform/config"
	"phonenumber_validator/platform/i18n"
	"phonenumber_validator/platform/logger"

	"github.com/fatih/color"
	flags "github.com/jessevdk/go-flags"
)

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1
	exitConfig  = 2
)

// Options are the command line flags.
type Options struct {
	Countries     string `short:"c" long:"countries" description:"all, false or a comma separated list of country ids" default:""`
	International string `short:"i" long:"international" description:"EPP, ITU, true or false" default:""`
	Lang          string `short:"l" long:"lang" description:"Message locale" default:"en"`
	Source        string `short:"s" long:"source" description:"Country pattern source" choice:"static" choice:"libphonenumber" default:"static"`
	PatternFile   string `long:"pattern-file" description:"YAML file with country patterns (static source only)"`
	NoColor       bool   `long:"no-color" description:"Disable colored output"`
	Args          struct {
		Numbers []string `positional-arg-name:"number" required:"1"`
	} `positional-args:"yes"`
}

// ruleDefaults mirrors the server defaults for runs that name no checks.
type ruleDefaults struct{}

func (ruleDefaults) GetDefaultCountries() string           { return "all" }
func (ruleDefaults) GetDefaultInternationalFormat() string { return "ITU" }

func (o Options) GetPatternSource() string { return o.Source }
func (o Options) GetPatternFile() string   { return o.PatternFile }

func main() {
	var options Options
	parser := flags.NewParser(&options, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(exitOK)
		}
		os.Exit(exitConfig)
	}

	os.Exit(run(context.Background(), options, os.Stdout, os.Stderr))
}

func run(ctx context.Context, opts Options, stdout, stderr io.Writer) int {
	if opts.NoColor {
		color.NoColor = true
	}
	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)

	log := logger.NewWithWriter("production", io.Discard)

	registry, err := countries.NewRegistry(ctx, opts, nil, log)
	if err != nil {
		_, _ = red.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}

	translator, err := i18n.NewFromFS(locales.FS, "en")
	if err != nil {
		_, _ = red.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}

	svc, err := service.New(registry, ruleDefaults{}, translator, log)
	if err != nil {
		_, _ = red.Fprintf(stderr, "error: %s\n", configMessage(err))
		return exitConfig
	}

	spec := transport.RuleSpec{
		Countries:     transport.ParseCountriesParam(opts.Countries),
		International: transport.ParseInternationalParam(opts.International),
	}

	code := exitOK
	for _, number := range opts.Args.Numbers {
		resp, err := svc.Validate(ctx, service.Request{Value: number, Spec: spec, Locales: []string{opts.Lang}})
		if err != nil {
			_, _ = red.Fprintf(stderr, "error: %s\n", configMessage(err))
			return exitConfig
		}

		if resp.Valid {
			_, _ = green.Fprint(stdout, "valid  ")
			_, _ = fmt.Fprintln(stdout, number)
			continue
		}

		code = exitInvalid
		_, _ = red.Fprint(stdout, "invalid")
		_, _ = fmt.Fprintf(stdout, " %s\n", number)
		for _, failure := range resp.Errors {
			_, _ = fmt.Fprintf(stdout, "  %-13s %s\n", failure.Scope, failure.Message)
		}
	}
	return code
}

// configMessage returns the message of a rule error without its operation
// prefix.
func configMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind == apperr.KindConfig {
		return appErr.Message
	}
	return err.Error()
}

var _ config.RegistryConfig = Options{}
var _ config.RuleDefaultsConfig = ruleDefaults{}
