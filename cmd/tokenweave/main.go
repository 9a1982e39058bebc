package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tokenweave/platform/pkg/common/config"
	"github.com/tokenweave/platform/pkg/common/logger"
	"github.com/tokenweave/platform/pkg/dlp"
	"github.com/tokenweave/platform/pkg/tokenize"
)

func main() {
	var (
		columnsFlag = flag.String("columns", "", "Comma-separated column names to tokenize (required unless -detokenize or -suggest)")
		strategy    = flag.String("strategy", "", "Token strategy: uuid or sequential (default uuid)")
		mapPath     = flag.String("map", "", "Token mapping file, CSV rows of token,original_value (default token_map.csv)")
		detokenize  = flag.Bool("detokenize", false, "Reverse known tokens using the mapping file")
		profilePath = flag.String("profile", "", "YAML run profile with columns/strategy/mapping_file")
		suggest     = flag.Bool("suggest", false, "Scan the input and report columns that look sensitive, then exit")
		rulesPath   = flag.String("rules", "", "Scan rules YAML for -suggest (built-in rules when empty)")
		sampleRows  = flag.Int("sample", 1000, "Rows sampled by -suggest, 0 scans the whole input")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input.csv output.csv\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger.Init()
	log := logger.Log
	cfg := config.Load()

	args := flag.Args()

	if *suggest {
		if len(args) < 1 {
			flag.Usage()
			log.Fatal("suggest mode requires an input file argument")
		}
		runSuggest(log, args[0], *rulesPath, *sampleRows)
		return
	}

	if len(args) != 2 {
		flag.Usage()
		log.Fatal("expected input and output file arguments")
	}
	inputPath, outputPath := args[0], args[1]

	columns := splitColumns(*columnsFlag)
	strategyName := *strategy
	mappingPath := *mapPath

	if *profilePath != "" {
		profile, err := tokenize.LoadProfile(*profilePath)
		if err != nil {
			log.WithError(err).Fatal("failed to load run profile")
		}
		if len(columns) == 0 {
			columns = profile.Columns
		}
		if strategyName == "" {
			strategyName = profile.Strategy
		}
		if mappingPath == "" {
			mappingPath = profile.MappingPath
		}
	}
	if strategyName == "" {
		strategyName = cfg.TokenStrategy
	}
	if mappingPath == "" {
		mappingPath = cfg.MappingPath
	}

	gen, err := tokenize.NewGenerator(tokenize.Strategy(strategyName))
	if err != nil {
		log.WithError(err).Fatal("invalid strategy")
	}

	store := tokenize.NewMapStore(mappingPath, log)
	service := tokenize.NewService(store, gen, log)

	input, err := os.Open(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			err = &tokenize.NotFoundError{Path: inputPath}
		}
		log.WithError(err).Fatal("failed to open input file")
	}
	defer input.Close()

	output, err := os.Create(outputPath)
	if err != nil {
		log.WithError(err).Fatal("failed to create output file")
	}

	if *detokenize {
		if err := service.Detokenize(input, output); err != nil {
			output.Close()
			log.WithError(err).Fatal("detokenization failed")
		}
	} else {
		if len(columns) == 0 {
			output.Close()
			log.Fatal("at least one column is required for tokenization (-columns or -profile)")
		}
		if err := service.Tokenize(input, output, columns); err != nil {
			output.Close()
			log.WithError(err).Fatal("tokenization failed")
		}
	}

	if err := output.Close(); err != nil {
		log.WithError(err).Fatal("failed to finalize output file")
	}

	mode := "tokenized"
	if *detokenize {
		mode = "detokenized"
	}
	log.WithFields(logrus.Fields{
		"input":   inputPath,
		"output":  outputPath,
		"mapping": mappingPath,
	}).Infof("Data %s successfully", mode)
}

func runSuggest(log *logrus.Logger, inputPath, rulesPath string, sampleRows int) {
	rules, err := dlp.LoadRules(rulesPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load scan rules")
	}
	scanner, err := dlp.NewScanner(rules)
	if err != nil {
		log.WithError(err).Fatal("failed to compile scan rules")
	}

	input, err := os.Open(inputPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open input file")
	}
	defer input.Close()

	suggestions, err := scanner.ScanCSV(input, sampleRows)
	if err != nil {
		log.WithError(err).Fatal("scan failed")
	}

	if len(suggestions) == 0 {
		log.Info("No columns matched the scan rules")
		return
	}
	for _, s := range suggestions {
		log.WithFields(logrus.Fields{
			"column":  s.Column,
			"types":   strings.Join(s.RuleTypes, ","),
			"matches": s.MatchCount,
			"sampled": s.Sampled,
		}).Info("Column looks sensitive")
	}
}

func splitColumns(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			columns = append(columns, trimmed)
		}
	}
	return columns
}
