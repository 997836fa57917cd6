package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uyouii/ndimpute/config"
	"github.com/uyouii/ndimpute/impute"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/turnbull"
	"github.com/uyouii/ndimpute/utils"
)

var (
	configPath string
	inputPath  string
	outputPath string
	verbose    bool
	survivalAt string
	digits     int

	rootCmd = &cobra.Command{
		Use:           "ndimpute",
		Short:         "Impute censored measurements",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				utils.UseDevelopmentLogger()
			}
		},
	}

	imputeCmd = &cobra.Command{
		Use:   "impute",
		Short: "Replace censored values in a CSV file with imputed ones",
		RunE:  runImpute,
	}

	survivalCmd = &cobra.Command{
		Use:   "survival",
		Short: "Evaluate the Turnbull survival function of interval bounds",
		RunE:  runSurvival,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "input CSV file")
	_ = rootCmd.MarkPersistentFlagRequired("input")
	rootCmd.PersistentFlags().IntVar(&digits, "digits", -1, "round output to this many decimals, full precision when negative")

	imputeCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config, defaults are used when empty")
	imputeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output CSV file, stdout when empty")

	survivalCmd.Flags().StringVar(&configPath, "config", "", "YAML config for the turnbull section")
	survivalCmd.Flags().StringVar(&survivalAt, "at", "", "comma separated evaluation points")
	_ = survivalCmd.MarkFlagRequired("at")

	rootCmd.AddCommand(imputeCmd, survivalCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func runImpute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.ToOptions()
	if err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	req := &impute.Request{Options: opts}
	if opts.Censoring == model.IntervalCensoring {
		req.Bounds, err = readBounds(in)
	} else {
		req.Values, req.Status, err = readValues(in)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	res, err := impute.Impute(context.Background(), req)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeResult(out, res, digits)
}

func runSurvival(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	points, err := parsePoints(survivalAt)
	if err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	bounds, err := readBounds(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	est, err := turnbull.Fit(context.Background(), bounds, cfg.Turnbull)
	if err != nil {
		return err
	}
	return writeSurvival(cmd.OutOrStdout(), points, est.SurvivalAt(points), digits)
}

func parsePoints(s string) ([]float64, error) {
	var points []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("evaluation point %q: %w", field, err)
		}
		points = append(points, v)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no evaluation points in %q", s)
	}
	return points, nil
}
