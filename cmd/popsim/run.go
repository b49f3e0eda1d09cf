package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ChicagoDave/popsim/pkg/analytics"
	"github.com/ChicagoDave/popsim/pkg/spec"
	"github.com/ChicagoDave/popsim/pkg/validation"
)

var errValidationFailed = errors.New("spec has validation errors")

type runOptions struct {
	seed          uint64
	seedSet       bool
	population    int
	populationSet bool
	json          bool
	individuals   bool
}

// loadAndValidate loads the spec and runs schema validation.
func loadAndValidate(projectPath string) (*spec.RunSpec, *validation.Report, error) {
	runSpec, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading spec: %w", err)
	}
	schemaReport := validation.ValidateSchema(runSpec)
	return runSpec, schemaReport, nil
}

func runValidate(ctx context.Context, out io.Writer, projectPath string) error {
	runSpec, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	// Analytical findings need a completed run.
	if report.Valid {
		_, full, err := analytics.Resolve(ctx, runSpec)
		if err != nil {
			return err
		}
		report = full
	}

	printValidationReport(out, report)

	if !report.Valid {
		logger.Warn("validation failed", "project", projectPath, "summary", report.Summary)
		return errValidationFailed
	}
	return nil
}

func runRun(ctx context.Context, out io.Writer, projectPath string, opts runOptions) error {
	runSpec, err := spec.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}
	if opts.seedSet {
		runSpec.Seed = opts.seed
	}
	if opts.populationSet {
		runSpec.Population = opts.population
	}

	start := time.Now()
	res, report, err := analytics.Resolve(ctx, runSpec)
	if errors.Is(err, validation.ErrInvalidSpec) {
		printValidationReport(out, report)
		logger.Warn("run rejected", "project", projectPath, "summary", report.Summary)
		return errValidationFailed
	}
	if err != nil {
		return err
	}
	logger.Info("run complete",
		"run_id", res.RunID,
		"seed", res.Seed,
		"population", res.Population,
		"duration", time.Since(start),
	)

	if opts.json {
		if !opts.individuals {
			res = res.WithoutIndividuals()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"result":     res,
			"validation": report,
		})
	}

	printRunResult(out, res)

	if len(report.Warnings) > 0 {
		fmt.Fprintln(out)
		printValidationReport(out, report)
	}
	return nil
}

func runResources(out io.Writer) error {
	printResourceTables(out)
	return nil
}
