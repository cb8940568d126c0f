package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/iwvelando/shelter-proposal/internal/present"
	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/iwvelando/shelter-proposal/pkg/output"
	"github.com/iwvelando/shelter-proposal/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type reportOptions struct {
	*rootOptions
	sets         []string
	donation     string
	slider       string
	snapshotPath string
	outputFormat string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Recompute the proposal once and print the report",
		Example: `  shelter-proposal report --set budget.Staffing=90000 --donation 25000
  shelter-proposal report --snapshot snapshot.yaml --output-format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "override an input as key=value, e.g. budget.Construction=70000 (repeatable)")
	cmd.Flags().StringVar(&opts.donation, "donation", "", "additional donation amount")
	cmd.Flags().StringVar(&opts.slider, "slider", "", "donation slider amount (follows --donation when unset)")
	cmd.Flags().StringVar(&opts.snapshotPath, "snapshot", "", "start from a snapshot file exported by the web UI")
	cmd.Flags().StringVarP(&opts.outputFormat, "output-format", "o", "", "type of output override: pretty, csv, json")
	return cmd
}

func (o *reportOptions) run(cmd *cobra.Command) error {
	_, conf, logger, model, err := o.load()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if o.outputFormat != "" {
		outputFormat = o.outputFormat
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	snapshot := model.DefaultSnapshot()
	if o.snapshotPath != "" {
		data, err := os.ReadFile(o.snapshotPath)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if snapshot, err = recompute.ParseSnapshotYAML(data); err != nil {
			return err
		}
	}

	sets := append([]string(nil), o.sets...)
	if o.donation != "" {
		sets = append(sets, string(recompute.SectionDonation)+"="+o.donation)
	}
	if o.slider != "" {
		sets = append(sets, string(recompute.SectionDonationSlider)+"="+o.slider)
	}

	snapshot, err = applySets(model, snapshot, sets)
	if err != nil {
		return err
	}
	if snapshot, err = model.Resolve(snapshot); err != nil {
		return err
	}
	if err := model.Validate(snapshot); err != nil {
		return err
	}

	derived, err := recompute.Run(logger, model, snapshot)
	if err != nil {
		logger.Error("failed to recompute proposal",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	return output.Write(cmd.OutOrStdout(), outputFormat, present.Build(model, derived))
}

// applySets applies key=value overrides. Keys are field keys such as
// "budget.Construction", "price.Adoption Fees" or "donation".
func applySets(model recompute.Model, snapshot recompute.Snapshot, sets []string) (recompute.Snapshot, error) {
	fields := make(map[string]recompute.Field)
	for _, f := range model.Fields() {
		fields[f.Key()] = f
	}

	for _, set := range sets {
		k, raw, ok := strings.Cut(set, "=")
		if !ok {
			return recompute.Snapshot{}, fmt.Errorf("invalid override %q: expected key=value", set)
		}
		f, known := fields[strings.TrimSpace(k)]
		if !known {
			return recompute.Snapshot{}, fmt.Errorf("unknown input %q; known inputs: %s", k, strings.Join(sortedKeys(fields), ", "))
		}
		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return recompute.Snapshot{}, fmt.Errorf("invalid value for %s: %w", f.Key(), err)
		}
		snapshot = snapshot.With(f, v)
	}
	return snapshot, nil
}

func sortedKeys(fields map[string]recompute.Field) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
