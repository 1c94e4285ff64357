// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jfsm parses a JSON file and prints its value tree or its tokens.
//
// Usage:
//
//	jfsm [flags] FILE
//
// By default the parsed value is pretty-printed to stdout. With -tokens, the
// token sequence is printed instead, one token per line. The exit status is 0
// on success, 1 if the input is invalid or cannot be read, and 2 for a usage
// error.
//
// The default nesting limit may be set with the JFSM_MAX_DEPTH environment
// variable; the -max-depth flag overrides it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/creachadair/jfsm"
	"github.com/creachadair/jfsm/ast"
	"go4.org/mem"
)

const envMaxDepth = "JFSM_MAX_DEPTH"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type settings struct {
	tokens   bool
	lazy     bool
	jwcc     bool
	compact  bool
	maxDepth int
	verbose  bool
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "jfsm: ", 0)

	var cfg settings
	fs := flag.NewFlagSet("jfsm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.tokens, "tokens", false, "Print the token sequence instead of the value")
	fs.BoolVar(&cfg.lazy, "lazy", false, "Scan tokens lazily while parsing")
	fs.BoolVar(&cfg.jwcc, "jwcc", false, "Accept JSON with commas and comments")
	fs.BoolVar(&cfg.compact, "compact", false, "Print compact JSON instead of formatted output")
	fs.IntVar(&cfg.maxDepth, "max-depth", envInt(logger, envMaxDepth), "Maximum nesting depth (0 for the default)")
	fs.BoolVar(&cfg.verbose, "v", false, "Log the time taken by each phase")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: jfsm [flags] FILE\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 || fs.Arg(0) == "" {
		fs.Usage()
		return 2
	}

	start := time.Now()
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	if cfg.verbose {
		logger.Printf("Read %d bytes [%v elapsed]", len(data), time.Since(start))
	}

	if cfg.tokens {
		return printTokens(stdout, logger, data, cfg)
	}
	return printValue(stdout, logger, data, cfg)
}

// printTokens writes the tokens of data to w, one per line. It fails if any
// of the tokens is invalid.
func printTokens(w io.Writer, logger *log.Logger, data []byte, cfg settings) int {
	start := time.Now()
	s := jfsm.NewScanner(mem.B(data))
	toks := s.All()
	for _, tok := range toks {
		fmt.Fprintln(w, tok)
	}
	if cfg.verbose {
		logger.Printf("Scanned %d tokens [%v elapsed]", len(toks), time.Since(start))
	}
	if err := s.Err(); err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	return 0
}

// printValue parses data and writes the resulting value to w.
func printValue(w io.Writer, logger *log.Logger, data []byte, cfg settings) int {
	var p ast.Parser
	p.SetMaxDepth(cfg.maxDepth)
	p.AllowJWCC(cfg.jwcc)

	parse := p.Parse
	if cfg.lazy {
		parse = p.ParseLazy
	}
	start := time.Now()
	v, err := parse(mem.B(data))
	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	if cfg.verbose {
		logger.Printf("Parsed %v value [%v elapsed]", v.Kind(), time.Since(start))
	}

	if cfg.compact {
		_, err = fmt.Fprintln(w, v.JSON())
	} else {
		err = ast.Format(w, v)
	}
	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	return 0
}

// envInt returns the integer value of the named environment variable, or 0
// if it is unset or not an integer.
func envInt(logger *log.Logger, name string) int {
	s, ok := os.LookupEnv(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		logger.Printf("Warning: ignoring invalid %s=%q", name, s)
		return 0
	}
	return n
}
