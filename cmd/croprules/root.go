package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/crop-advisor/internal/crop"
	"github.com/i474232898/crop-advisor/internal/weather"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "croprules",
		Short: "Inspect and test crop recommendation rules",
		Long: `croprules loads a crop rule file the same way the backend does and lets you
check it or run the recommendation engine offline.

Examples:
  # Check the rule file in the current directory
  croprules validate

  # See what would be recommended for a clear 12°C day on loamy soil
  croprules match --condition Clear --temp 12 --soil loamy`,
		SilenceUsage: true,
	}

	root.AddCommand(newValidateCmd(), newMatchCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Load a rule file and report what the backend would use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := crop.RulesFileName
			if len(args) == 1 {
				path = args[0]
			}

			rules, fallback, err := crop.LoadRulesReportingFallback(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if fallback {
				fmt.Fprintf(out, "%s not found; the %d built-in rules would be used\n", path, len(rules))
			} else {
				fmt.Fprintf(out, "%s: %d rules\n", path, len(rules))
			}
			for i, r := range rules {
				fmt.Fprintf(out, "  %d. %s: %s, >= %g°C, %s soil\n",
					i+1, r.Crop, r.Conditions.WeatherMain, r.Conditions.TempMinCelsius, r.Conditions.Soil)
			}
			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	var (
		rulesPath string
		condition string
		temp      float64
		humidity  float64
		soil      string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Evaluate the rules against a weather reading and soil type",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := crop.LoadRules(rulesPath)
			if err != nil {
				return err
			}

			snap := weather.Snapshot{
				Temperature: weather.Celsius(temp),
				Condition:   condition,
			}
			if cmd.Flags().Changed("humidity") {
				snap.Humidity = weather.HumidityOf(humidity)
			}

			res, err := crop.Recommend(snap, soil, rules)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if res.Status == crop.StatusSuccess {
				return enc.Encode(map[string]interface{}{
					"status":          res.Status,
					"recommendations": res.Recommendations,
					"weather":         res.Weather,
				})
			}
			return enc.Encode(map[string]interface{}{
				"status":      res.Status,
				"message":     res.Message,
				"suggestions": res.Suggestions,
				"weather":     res.Weather,
			})
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", crop.RulesFileName, "path to the rule file")
	cmd.Flags().StringVar(&condition, "condition", "", "weather condition label, e.g. Clear or Rain")
	cmd.Flags().Float64Var(&temp, "temp", 0, "temperature in °C")
	cmd.Flags().Float64Var(&humidity, "humidity", 0, "relative humidity in percent")
	cmd.Flags().StringVar(&soil, "soil", "", "soil type, e.g. loamy")
	_ = cmd.MarkFlagRequired("condition")
	_ = cmd.MarkFlagRequired("temp")
	_ = cmd.MarkFlagRequired("soil")

	return cmd
}
