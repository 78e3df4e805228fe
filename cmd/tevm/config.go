// Copyright 2017 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"unicode"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/TevmFoundation/tevm-chain/params"
	"github.com/TevmFoundation/tevm-chain/tevm"
	"github.com/naoina/toml"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Root directory for the artifact store and shared objects",
	}
	specFlag = cli.StringFlag{
		Name:  "spec",
		Usage: "EVM revision (merge|shanghai|cancun|prague|osaka)",
		Value: "cancun",
	}
	thresholdFlag = cli.Uint64Flag{
		Name:  "threshold",
		Usage: "Execution count before a bytecode is compiled",
		Value: params.CompileThreshold,
	}
	maxConcurrentFlag = cli.IntFlag{
		Name:  "maxcompile",
		Usage: "Maximum concurrent background compilations",
		Value: params.MaxConcurrentCompilations,
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

func loadConfig(file string, cfg *tevm.Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func specFromName(name string) (params.SpecId, error) {
	for _, s := range []params.SpecId{params.MergeSpec, params.ShanghaiSpec, params.CancunSpec, params.PragueSpec, params.OsakaSpec} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown spec %q", name)
}

// makeConfig assembles the VM configuration from defaults, the optional
// config file and the command line, in that order.
func makeConfig(ctx *cli.Context) (tevm.Config, error) {
	spec, err := specFromName(ctx.GlobalString(specFlag.Name))
	if err != nil {
		return tevm.Config{}, err
	}
	cfg := tevm.DefaultConfig(spec)

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return tevm.Config{}, err
		}
	}
	if ctx.GlobalIsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.GlobalString(dataDirFlag.Name)
	}
	if ctx.GlobalIsSet(thresholdFlag.Name) {
		cfg.Compiler.Threshold = ctx.GlobalUint64(thresholdFlag.Name)
	}
	if ctx.GlobalIsSet(maxConcurrentFlag.Name) {
		cfg.Compiler.MaxConcurrent = ctx.GlobalInt(maxConcurrentFlag.Name)
	}
	return cfg, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	io.WriteString(os.Stdout, string(out))
	return nil
}
