// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"gopkg.microglot.org/lexer.go/internal/driver"
	"gopkg.microglot.org/lexer.go/internal/dump"
	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/logging"
)

type opts struct {
	Roots   []string
	Format  dump.Format
	Tree    bool
	Strict  bool
	Verbose bool
	Jobs    int
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.LookupEnv)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer, lookupEnv func(string) (string, bool)) int {
	op := &opts{Format: dump.FormatText}
	flags := pflag.NewFlagSet("lexc", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: lexc [flags] TARGET...")
		fmt.Fprintln(stderr, "Each TARGET is a file or directory under a root, or - for standard input.")
		flags.PrintDefaults()
	}
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root directories used to resolve targets.")
	flags.Var(&op.Format, "format", "Output format: text, json, or yaml.")
	flags.BoolVar(&op.Tree, "tree", false, "Group tokens into nodes and output the nodes.")
	flags.BoolVar(&op.Strict, "strict", false, "Report every invalid token and exit with an error.")
	flags.BoolVarP(&op.Verbose, "verbose", "v", false, "Log lexer activity to STDERR.")
	flags.IntVar(&op.Jobs, "jobs", 0, "Maximum number of files lexed at once. Defaults to the number of CPUs.")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	targets := flags.Args()
	if len(targets) < 1 {
		flags.Usage()
		return 2
	}

	logger := logging.New(stderr, op.Verbose)
	fsys, err := driver.NewDefaultFS(lookupEnv, op.Roots...)
	if err != nil {
		logger.ErrorContext(ctx, "failed to resolve roots", slog.String("error", err.Error()))
		return 1
	}
	options := []driver.Option{
		driver.OptionWithLookupEnv(lookupEnv),
		driver.OptionWithFS(fsys),
		driver.OptionWithStdin(stdin),
		driver.OptionWithLogger(logger),
	}
	if op.Jobs > 0 {
		options = append(options, driver.OptionWithMaxConcurrency(op.Jobs))
	}
	d, err := driver.New(options...)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create driver", slog.String("error", err.Error()))
		return 1
	}

	out, err := d.Lex(ctx, &idl.LexRequest{
		Files:  targets,
		Tree:   op.Tree,
		Strict: op.Strict,
	})
	var me driver.MultiException
	if err != nil && !errors.As(err, &me) {
		logger.ErrorContext(ctx, "lexing failed", slog.String("error", err.Error()))
		return 1
	}

	write := dump.Tokens
	if op.Tree {
		write = dump.Nodes
	}
	for _, file := range out.Files {
		if werr := write(stdout, op.Format, file); werr != nil {
			logger.ErrorContext(ctx, "failed to write output", slog.String("uri", file.URI), slog.String("error", werr.Error()))
			return 1
		}
	}
	if len(me) > 0 {
		for _, e := range me {
			fmt.Fprintln(stderr, e.Error())
		}
		return 1
	}
	return 0
}
