// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mulgadc/arenawire/arena"
	"github.com/mulgadc/arenawire/config"
	"github.com/mulgadc/arenawire/schema"
	"github.com/mulgadc/arenawire/store"
	backend "github.com/mulgadc/arenawire/store/backends"
	"github.com/mulgadc/arenawire/types"
	"github.com/tidwall/pretty"
)

const usage = `usage: arenactl [-config file.toml] [-debug] <command> [flags]

commands:
  encode -type T -in msg.json   decode JSON into an arena and store it
  decode -type T -id N          load a stored message and print it as JSON
  dump   -type T -in msg.json   print the arena bytes without storing
  snapshot                      record the stored messages as a snapshot
  restore -snapshot N           roll the catalogue back to snapshot N
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		slog.Error("arenactl failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("arenactl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }

	configPath := flags.String("config", "", "Path to a TOML config file")
	debug := flags.Bool("debug", false, "Enable debug logging")

	if err := flags.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("missing command")
	}

	cmd, cmdArgs := flags.Arg(0), flags.Args()[1:]
	switch cmd {
	case "encode":
		return encode(ctx, cfg, cmdArgs, stdin, stdout, stderr)
	case "decode":
		return decode(ctx, cfg, cmdArgs, stdout, stderr)
	case "dump":
		return dump(cfg, cmdArgs, stdin, stdout, stderr)
	case "snapshot":
		return snapshot(ctx, cfg, stdout)
	case "restore":
		return restore(ctx, cfg, cmdArgs, stderr)
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func lookupType(name string) (schema.MessageType, error) {
	if name == "" {
		return schema.MessageType{}, fmt.Errorf("-type is required (%s)", strings.Join(schema.Names(), ", "))
	}
	return schema.Lookup(name)
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, errors.New("-in is required")
	}
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// openStore connects the configured backend and loads any saved state.
func openStore(ctx context.Context, cfg config.Config) (*store.MessageStore, error) {
	b, err := backend.New(cfg.Store.Backend, cfg.BackendConfig())
	if err != nil {
		return nil, err
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("init %s backend: %w", cfg.Store.Backend, err)
	}

	ms, err := store.New(store.Config{CacheSize: cfg.Store.CacheSize}, b)
	if err != nil {
		return nil, err
	}
	if err := ms.LoadState(ctx); err != nil && !errors.Is(err, types.ErrObjectNotFound) {
		return nil, err
	}
	return ms, nil
}

func encode(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("encode", flag.ContinueOnError)
	flags.SetOutput(stderr)
	typeName := flags.String("type", "", "Message type")
	in := flags.String("in", "", "JSON input file, - for stdin")
	if err := flags.Parse(args); err != nil {
		return err
	}

	mt, err := lookupType(*typeName)
	if err != nil {
		return err
	}
	data, err := readInput(*in, stdin)
	if err != nil {
		return err
	}

	pool := arena.NewPool(cfg.Arena.Capacity, cfg.Arena.StringCache)
	a, err := pool.Get()
	if err != nil {
		return err
	}
	defer pool.Put(a)

	if _, err := mt.Decode(a, data); err != nil {
		return fmt.Errorf("decode %s: %w", mt.Name, err)
	}

	ms, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	id, err := ms.Put(ctx, mt.Tag, a)
	if err != nil {
		return err
	}
	if err := ms.Flush(ctx); err != nil {
		return err
	}
	if err := ms.SaveState(ctx); err != nil {
		return err
	}

	slog.Debug("Stored message", "type", mt.Name, "id", id, "bytes", a.Len())
	fmt.Fprintln(stdout, id)
	return nil
}

func decode(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("decode", flag.ContinueOnError)
	flags.SetOutput(stderr)
	typeName := flags.String("type", "", "Expected message type, empty to use the stored tag")
	id := flags.Uint64("id", 0, "Message id")
	prettyPrint := flags.Bool("pretty", false, "Pretty-print the JSON output")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errors.New("-id is required")
	}

	ms, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	a, tag, err := ms.Get(ctx, *id)
	if err != nil {
		return err
	}

	mt, err := schema.LookupTag(tag)
	if err != nil {
		return err
	}
	if *typeName != "" && *typeName != mt.Name {
		return fmt.Errorf("message %d is %s, not %s", *id, mt.Name, *typeName)
	}

	root, err := mt.Root(a)
	if err != nil {
		return err
	}
	out, err := root.EncodeJSON()
	if err != nil {
		return err
	}
	if *prettyPrint {
		out = pretty.Pretty(out)
	} else {
		out = append(out, '\n')
	}

	_, err = stdout.Write(out)
	return err
}

func dump(cfg config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("dump", flag.ContinueOnError)
	flags.SetOutput(stderr)
	typeName := flags.String("type", "", "Message type")
	in := flags.String("in", "", "JSON input file, - for stdin")
	if err := flags.Parse(args); err != nil {
		return err
	}

	mt, err := lookupType(*typeName)
	if err != nil {
		return err
	}
	data, err := readInput(*in, stdin)
	if err != nil {
		return err
	}

	a, err := arena.New(cfg.Arena.Capacity, cfg.Arena.StringCache, false)
	if err != nil {
		return err
	}
	if _, err := mt.Decode(a, data); err != nil {
		return fmt.Errorf("decode %s: %w", mt.Name, err)
	}

	stats := a.Stats()
	fmt.Fprintf(stdout, "type=%s tag=%d root=%d len=%d allocs=%d intern_hits=%d\n",
		mt.Name, mt.Tag, a.Root(), a.Len(), stats.Allocs, stats.InternHits)
	_, err = io.WriteString(stdout, hex.Dump(a.SlicedBuffer()))
	return err
}

func snapshot(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	ms, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	snap, err := ms.CreateSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := ms.SaveState(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, snap.SnapshotID)
	return nil
}

func restore(ctx context.Context, cfg config.Config, args []string, stderr io.Writer) error {
	flags := flag.NewFlagSet("restore", flag.ContinueOnError)
	flags.SetOutput(stderr)
	snapshotID := flags.Uint64("snapshot", 0, "Snapshot id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *snapshotID == 0 {
		return errors.New("-snapshot is required")
	}

	ms, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if err := ms.RestoreSnapshot(ctx, *snapshotID); err != nil {
		return err
	}
	return ms.SaveState(ctx)
}
