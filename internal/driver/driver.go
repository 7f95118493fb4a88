// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package driver lexes many files at once. Targets are resolved through an
// idl.FileSystem, each file is lexed on its own goroutine, and problems are
// collected by an exc.Reporter instead of stopping the run.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"gopkg.microglot.org/lexer.go/internal/exc"
	"gopkg.microglot.org/lexer.go/internal/fs"
	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/iter"
	"gopkg.microglot.org/lexer.go/internal/lexer"
	"gopkg.microglot.org/lexer.go/internal/logging"
	"gopkg.microglot.org/lexer.go/internal/reader"
	"gopkg.microglot.org/lexer.go/internal/target"
)

type Option func(d *driver) error

func OptionWithFS(fs idl.FileSystem) Option {
	return func(d *driver) error {
		d.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(d *driver) error {
		d.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(d *driver) error {
		d.Reporter = reporter
		return nil
	}
}

// OptionWithMaxConcurrency limits how many files are lexed at the same time.
func OptionWithMaxConcurrency(v int) Option {
	return func(d *driver) error {
		if v < 1 {
			return fmt.Errorf("max concurrency must be positive, got %d", v)
		}
		d.MaxConcurrency = v
		return nil
	}
}

func OptionWithLogger(logger *slog.Logger) Option {
	return func(d *driver) error {
		d.Logger = logger
		return nil
	}
}

// OptionWithStdin sets the reader used for the "-" target. The default is
// os.Stdin.
func OptionWithStdin(r io.Reader) Option {
	return func(d *driver) error {
		d.Stdin = r
		return nil
	}
}

func New(opts ...Option) (idl.Driver, error) {
	d := &driver{}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.LookupENV == nil {
		d.LookupENV = os.LookupEnv
	}
	if d.FS == nil {
		dfs, err := NewDefaultFS(d.LookupENV)
		if err != nil {
			return nil, err
		}
		d.FS = dfs
	}
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		d.MaxConcurrency = max
	}
	if d.Semaphore == nil {
		d.Semaphore = semaphore.NewWeighted(int64(d.MaxConcurrency))
	}
	if d.Reporter == nil {
		d.Reporter = exc.NewReporter(nil)
	}
	d.Logger = logging.OrDiscard(d.Logger)
	return d, nil
}

type driver struct {
	LookupENV      func(string) (string, bool)
	FS             idl.FileSystem
	Stdin          io.Reader
	MaxConcurrency int
	Semaphore      *semaphore.Weighted
	Reporter       exc.Reporter
	Logger         *slog.Logger
}

// Lex lexes every file named by the request. Files appear in the response in
// target order and, within a directory target, in the order the file system
// lists them. A file that cannot be opened or read is reported and left out.
// When anything was reported the response is returned along with a
// MultiException holding every report in a stable order.
func (self *driver) Lex(ctx context.Context, req *idl.LexRequest) (*idl.LexResponse, error) {
	files := self.open(ctx, req.Files)
	results := make([]*idl.LexedFile, len(files))
	var wg sync.WaitGroup
	var acquireErr error
	for offset, file := range files {
		if acquireErr = self.Semaphore.Acquire(ctx, 1); acquireErr != nil {
			break
		}
		wg.Add(1)
		go func(offset int, file idl.File) {
			defer wg.Done()
			defer self.Semaphore.Release(1)
			results[offset] = self.lexFile(ctx, file, req)
		}(offset, file)
	}
	wg.Wait()
	if acquireErr != nil {
		return nil, acquireErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &idl.LexResponse{
		Files: make([]*idl.LexedFile, 0, len(results)),
	}
	for _, result := range results {
		if result != nil {
			resp.Files = append(resp.Files, result)
		}
	}
	caught := exc.Sorted(self.Reporter)
	if len(caught) > 0 {
		return resp, MultiException(caught)
	}
	return resp, nil
}

// open resolves targets into files. A file reached through more than one
// target is only lexed once.
func (self *driver) open(ctx context.Context, targets []string) []idl.File {
	seen := make(map[string]bool)
	files := make([]idl.File, 0, len(targets))
	for _, t := range targets {
		uri := target.Normalize(t)
		if uri == target.Stdin {
			if !seen[uri] {
				seen[uri] = true
				files = append(files, fs.NewFileReader(uri, self.Stdin, idl.FileKindText))
			}
			continue
		}
		in, err := self.FS.Open(ctx, uri)
		if err != nil {
			self.report(uri, err)
			continue
		}
		for _, f := range in {
			path := f.Path(ctx)
			if seen[path] {
				continue
			}
			seen[path] = true
			files = append(files, f)
		}
	}
	return files
}

func (self *driver) lexFile(ctx context.Context, file idl.File, req *idl.LexRequest) *idl.LexedFile {
	uri := file.Path(ctx)
	logger := self.Logger.With(slog.String("uri", uri))
	logger.DebugContext(ctx, "lexing file", slog.String("kind", file.Kind(ctx).String()))

	body, err := file.Body(ctx)
	if err != nil {
		self.report(uri, err)
		return nil
	}
	tokens, err := lexer.Collect(ctx, lexer.NewFileBody(ctx, body, lexer.WithLogger(logger)))
	if err != nil {
		self.report(uri, err)
		return nil
	}
	result := &idl.LexedFile{
		URI:    uri,
		Tokens: tokens,
	}
	if req.Strict {
		for _, t := range tokens {
			if t.Kind != idl.TokenKindInvalid {
				continue
			}
			_ = self.Reporter.Report(exc.New(
				exc.Location{URI: uri, Position: t.Position},
				exc.CodeInvalidToken,
				fmt.Sprintf("unexpected %q", t.Content),
			))
		}
	}
	if req.Tree {
		nodes, err := reader.Collect(ctx, reader.New(iter.NewSlice(tokens)))
		if err != nil {
			self.report(uri, err)
			return nil
		}
		result.Nodes = nodes
	}
	logger.DebugContext(ctx, "lexed file",
		slog.Int("tokens", len(result.Tokens)),
		slog.Int("nodes", len(result.Nodes)),
	)
	return result
}

// report records err against uri. Exceptions keep their code and position.
func (self *driver) report(uri string, err error) {
	var e exc.Exception
	if errors.As(err, &e) {
		location := e.Location()
		location.URI = uri
		_ = self.Reporter.Report(exc.Wrap(location, e.Code(), err))
		return
	}
	_ = self.Reporter.Report(exc.WrapUnknown(exc.Location{URI: uri}, err))
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
