// tevm is the operator tool of the tiered EVM: it inspects the compilation
// cache and compiles bytecodes ahead of time without a running host.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/TevmFoundation/tevm-chain/aot"
	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/rawdb"
	"github.com/TevmFoundation/tevm-chain/crypto"
	"github.com/fatih/color"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	app = cli.NewApp()

	dbDumpCommand = cli.Command{
		Action:    dbDump,
		Name:      "db",
		Usage:     "Dump the compilation cache",
		ArgsUsage: "",
		Category:  "DATABASE COMMANDS",
		Description: `
Prints every tracked code hash with its execution count and, where present,
the published artifact path and symbol label.`,
	}

	compileCommand = cli.Command{
		Action:    compile,
		Name:      "compile",
		Usage:     "Compile a bytecode file ahead of time",
		ArgsUsage: "<bytecode file (hex)>",
		Category:  "COMPILER COMMANDS",
		Description: `
Reads hex-encoded EVM bytecode and compiles it with the configured backend.
When a data directory is set, the artifact is also published into the cache,
as if the contract had crossed the execution threshold.`,
	}
)

func init() {
	app.Name = filepath.Base(os.Args[0])
	app.Usage = "tiered EVM operator tool"
	app.Commands = []cli.Command{
		dumpConfigCommand,
		dbDumpCommand,
		compileCommand,
	}
	app.Flags = []cli.Flag{
		configFileFlag,
		dataDirFlag,
		specFlag,
		thresholdFlag,
		maxConcurrentFlag,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDB(ctx *cli.Context) (*rawdb.ArtifactDB, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("--%s is required", dataDirFlag.Name)
	}
	return rawdb.NewArtifactDB(filepath.Join(cfg.DataDir, "artifacts"))
}

func dbDump(ctx *cli.Context) error {
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	published := color.New(color.FgGreen).SprintFunc()
	counting := color.New(color.FgYellow).SprintFunc()

	type row struct {
		hash  common.Hash
		count uint64
	}
	var rows []row
	db.IterateCounts(func(hash common.Hash, count uint64) bool {
		rows = append(rows, row{hash, count})
		return true
	})
	for _, r := range rows {
		if path, ok := db.ArtifactPath(r.hash); ok {
			label, _ := db.SymbolLabel(r.hash)
			fmt.Printf("%s  count=%-6d %s  label=%s path=%s\n", r.hash.Hex(), r.count, published("published"), label, path)
		} else {
			fmt.Printf("%s  count=%-6d %s\n", r.hash.Hex(), r.count, counting("counting"))
		}
	}
	fmt.Printf("%d tracked hashes\n", len(rows))
	return nil
}

func compile(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: compile <bytecode file>")
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	bytecode := common.FromHex(string(raw))
	if len(bytecode) == 0 {
		return fmt.Errorf("empty bytecode")
	}
	hash := crypto.Keccak256Hash(bytecode)
	label := aot.SymbolLabel(hash)

	compiler := aot.NewCompiler(cfg.Compiler)
	path, err := compiler.Compile(label, bytecode, cfg.Spec)
	if err != nil {
		return err
	}
	fmt.Printf("compiled %s\n  label %s\n  artifact %s\n", hash.Hex(), label, path)

	if cfg.DataDir != "" {
		db, err := rawdb.NewArtifactDB(filepath.Join(cfg.DataDir, "artifacts"))
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PublishArtifact(hash, label, path); err != nil {
			return err
		}
		fmt.Println("published into the compilation cache")
	}
	return nil
}
