package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/risk-dashboard/internal/dashboard"
	"github.com/sells-group/risk-dashboard/internal/model"
)

var (
	predictStats  bool
	predictOut    string
	predictFormat string
)

var predictCmd = &cobra.Command{
	Use:   "predict <client-id>",
	Short: "Run the prediction workflow for one client without the web UI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := model.ParseClientID(args[0])
		if err != nil {
			return err
		}
		env := initEnv(cfg)

		var stats *dashboard.StatisticsRenderer
		if predictStats {
			table, _ := env.loadReference(cmd.Context())
			stats = dashboard.NewStatisticsRenderer(env.Cache, table, env.Histogram)
		}

		return runPredict(cmd.Context(), cmd.OutOrStdout(), env.Prediction, stats, id, predictOptions{
			OutDir: predictOut,
			Format: predictFormat,
		})
	},
}

type predictOptions struct {
	OutDir string
	Format string
}

// predictSummary is what predict prints.
type predictSummary struct {
	ClientID   string              `json:"client_id" yaml:"client_id"`
	Repay      string              `json:"repay" yaml:"repay"`
	Percentage float64             `json:"percentage" yaml:"percentage"`
	Decision   string              `json:"decision" yaml:"decision"`
	Message    string              `json:"message" yaml:"message"`
	Client     *model.ClientDetail `json:"client" yaml:"client"`
	Charts     []string            `json:"charts,omitempty" yaml:"charts,omitempty"`
	Errors     map[string]string   `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// runPredict renders the prediction, and the statistics when stats is set,
// prints a summary and writes the charts as SVG files under opts.OutDir.
func runPredict(ctx context.Context, w io.Writer, pred *dashboard.PredictionRenderer, stats *dashboard.StatisticsRenderer, id model.ClientID, opts predictOptions) error {
	if opts.Format != "json" && opts.Format != "yaml" {
		return eris.Errorf("unsupported format %q (want json or yaml)", opts.Format)
	}

	view, err := pred.Render(ctx, id)
	if err != nil {
		return eris.Wrap(err, dashboard.UserMessage(err))
	}

	sum := predictSummary{
		ClientID:   id.String(),
		Repay:      string(view.Repay),
		Percentage: view.Percentage,
		Decision:   view.Decision.String(),
		Message:    view.Message,
		Client:     view.Detail,
		Errors:     map[string]string{},
	}

	var out chartWriter
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return eris.Wrapf(err, "create %s", opts.OutDir)
		}
		out = chartWriter{dir: opts.OutDir, summary: &sum}
	}
	out.write("gauge", view.Gauge.SVG)

	if stats != nil {
		sv := stats.Render(ctx, *view.Detail)
		for _, d := range sv.Densities {
			name := "density_" + string(d.Kind)
			if d.Err != nil {
				sum.Errors[name] = dashboard.UserMessage(d.Err)
				continue
			}
			out.write(name, d.Chart.SVG)
		}
		if sv.Income.Err != nil {
			sum.Errors["income"] = dashboard.UserMessage(sv.Income.Err)
		} else {
			out.write("income", sv.Income.Chart.SVG)
		}
	}

	return printSummary(w, opts.Format, sum)
}

// chartWriter saves rendered charts. The zero value discards them.
type chartWriter struct {
	dir     string
	summary *predictSummary
}

func (c chartWriter) write(name string, render func() ([]byte, error)) {
	if c.dir == "" {
		return
	}
	svg, err := render()
	if err != nil {
		c.summary.Errors[name] = dashboard.UserMessage(err)
		return
	}
	path := filepath.Join(c.dir, name+".svg")
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		zap.L().Warn("write chart", zap.String("path", path), zap.Error(err))
		c.summary.Errors[name] = err.Error()
		return
	}
	c.summary.Charts = append(c.summary.Charts, path)
}

func printSummary(w io.Writer, format string, sum predictSummary) error {
	if len(sum.Errors) == 0 {
		sum.Errors = nil
	}
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sum); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			return eris.Wrap(err, "encode json")
		}
		return nil
	}
}

func init() {
	predictCmd.Flags().BoolVar(&predictStats, "stats", false, "also render the population statistics")
	predictCmd.Flags().StringVar(&predictOut, "out", "", "directory to write SVG charts into")
	predictCmd.Flags().StringVar(&predictFormat, "format", "json", "summary format: json or yaml")
	rootCmd.AddCommand(predictCmd)
}
