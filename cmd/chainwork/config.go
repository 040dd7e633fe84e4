// Copyright (c) 2017-2019 The mynt developers
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/myntproject/mynt/common/util"
	"github.com/myntproject/mynt/params"
	"github.com/myntproject/mynt/version"
)

const (
	defaultDataDirname = "data"
	defaultDebugLevel  = "info"
)

var (
	defaultHomeDir = util.AppDataDir("mynt", false)
	defaultDataDir = filepath.Join(defaultHomeDir, defaultDataDirname)
)

type config struct {
	HomeDir     string `short:"A" long:"appdata" description:"Path to application home directory"`
	DataDir     string `short:"b" long:"datadir" description:"Directory containing the block header database"`
	TestNet     bool   `long:"testnet" description:"Use the test network"`
	PrivNet     bool   `long:"privnet" description:"Use the private network"`
	StartHeight int32  `short:"s" long:"startheight" description:"Height the work-as-time report starts from"`
	EndHeight   int32  `short:"e" long:"endheight" description:"Height the work-as-time report ends at (default: chain tip)"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	Metrics     bool   `long:"metrics" description:"Collect process metrics and print them with the report"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
}

// loadConfig initializes and parses the config using command line options and
// returns the chain parameters of the selected network.
func loadConfig() (*config, *params.Params, error) {
	// Default config.
	cfg := config{
		HomeDir:    defaultHomeDir,
		DataDir:    defaultDataDir,
		DebugLevel: defaultDebugLevel,
		EndHeight:  -1,
	}

	parser := flags.NewParser(&cfg, flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if cfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, version.String())
		os.Exit(0)
	}

	// Update the data directory when only the home directory was given.
	if cfg.HomeDir != defaultHomeDir {
		cfg.HomeDir, _ = filepath.Abs(util.CleanAndExpandPath(cfg.HomeDir))
		if cfg.DataDir == defaultDataDir {
			cfg.DataDir = filepath.Join(cfg.HomeDir, defaultDataDirname)
		}
	}

	// Multiple networks can't be selected simultaneously.
	funcName := "loadConfig"
	activeParams := &params.MainNetParams
	numNets := 0
	if cfg.TestNet {
		numNets++
		activeParams = &params.TestNetParams
	}
	if cfg.PrivNet {
		numNets++
		activeParams = &params.PrivNetParams
	}
	if numNets > 1 {
		str := "%s: the testnet and privnet params can't be used " +
			"together -- choose at most one"
		err := fmt.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	cfg.DataDir = util.CleanAndExpandPath(cfg.DataDir)
	cfg.DataDir = filepath.Join(cfg.DataDir, activeParams.Name)

	if cfg.StartHeight < 0 || (cfg.EndHeight >= 0 && cfg.EndHeight < cfg.StartHeight) {
		str := "%s: the report height range [%d, %d] is invalid"
		err := fmt.Errorf(str, funcName, cfg.StartHeight, cfg.EndHeight)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	if !validDebugLevel(cfg.DebugLevel) {
		str := "%s: the specified debug level [%v] is invalid"
		err := fmt.Errorf(str, funcName, cfg.DebugLevel)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	return &cfg, activeParams, nil
}

// validDebugLevel returns whether or not logLevel is a valid debug log level.
func validDebugLevel(logLevel string) bool {
	switch logLevel {
	case "trace":
		fallthrough
	case "debug":
		fallthrough
	case "info":
		fallthrough
	case "warn":
		fallthrough
	case "error":
		fallthrough
	case "critical":
		return true
	}
	return false
}
