// bondprice — closed-form bond pricing from the command line.
//
// Reads JSON pricing requests (single object or array) from a file or
// stdin and emits dirty price, accrued interest and clean price per
// bond.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meenmo/bondval/bond"
	bondterms "github.com/meenmo/bondval/instruments/bonds"
	"github.com/meenmo/bondval/internal/config"
	"github.com/meenmo/bondval/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bondprice",
	Short: "Dirty/clean price and accrued interest for fixed-coupon and inflation-indexed bonds",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (YAML)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(priceCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bondprice %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

type priceInput struct {
	TaskID         string  `json:"task_id,omitempty"`
	SettlementDate string  `json:"settlement_date"`
	MaturityDate   string  `json:"maturity_date"`
	CouponPct      float64 `json:"coupon_rate"`
	YieldPct       float64 `json:"yield"`
	FaceValue      float64 `json:"face_value,omitempty"`
	Frequency      int     `json:"frequency,omitempty"`
	DayCount       float64 `json:"day_count,omitempty"`
	PValuePct      float64 `json:"p_value,omitempty"`
	KtFactorPct    float64 `json:"kt_factor,omitempty"`
}

type priceOutput struct {
	TaskID          string  `json:"task_id,omitempty"`
	SettlementDate  string  `json:"settlement_date,omitempty"`
	MaturityDate    string  `json:"maturity_date,omitempty"`
	DirtyPrice      float64 `json:"dirty_price"`
	AccruedInterest float64 `json:"accrued_interest"`
	CleanPrice      float64 `json:"clean_price"`
	LastCoupon      string  `json:"last_coupon,omitempty"`
	NextCoupon      string  `json:"next_coupon,omitempty"`
	FullPeriods     int     `json:"full_periods"`
	ExCoupon        bool    `json:"ex_coupon"`
	Error           string  `json:"error,omitempty"`
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price bonds from a JSON request document",
	Long: `Price bonds from a JSON request document.

The input is a single JSON object or an array of objects with
settlement_date, maturity_date, coupon_rate and yield (both in
percent), and optional face_value, frequency, day_count, p_value and
kt_factor fields. Fields left unset take the configured defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath, _ := cmd.Flags().GetString("input")

		path := strings.TrimSpace(inputPath)
		if path == "" {
			if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
				return fmt.Errorf("no input: pass --input <path> or pipe JSON to stdin")
			}
		}

		raw, err := readInput(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		inputs, isArray, err := parseInputs(raw)
		if err != nil {
			return fmt.Errorf("parse JSON: %w", err)
		}

		hadError := false
		outputs := make([]priceOutput, 0, len(inputs))
		for _, in := range inputs {
			out, err := process(in)
			if err != nil {
				hadError = true
				outputs = append(outputs, priceOutput{TaskID: in.TaskID, Error: err.Error()})
				continue
			}
			outputs = append(outputs, *out)
		}

		if isArray {
			b, _ := json.Marshal(outputs)
			fmt.Println(string(b))
		} else {
			b, _ := json.Marshal(outputs[0])
			fmt.Println(string(b))
		}

		if hadError {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	priceCmd.Flags().String("input", "", "JSON input path (reads stdin if omitted)")
}

func process(in priceInput) (*priceOutput, error) {
	terms := bondterms.Terms{
		SettlementDate: in.SettlementDate,
		MaturityDate:   in.MaturityDate,
		CouponPct:      in.CouponPct,
		YieldPct:       in.YieldPct,
		FaceValue:      in.FaceValue,
		Frequency:      in.Frequency,
		DayCount:       in.DayCount,
		PValuePct:      in.PValuePct,
		KtFactorPct:    in.KtFactorPct,
	}
	if terms.FaceValue == 0 {
		terms.FaceValue = cfg.Defaults.FaceValue
	}
	if terms.Frequency == 0 {
		terms.Frequency = cfg.Defaults.Frequency
	}
	if terms.DayCount == 0 {
		terms.DayCount = cfg.Defaults.DayCount
	}

	input, err := terms.ToInput()
	if err != nil {
		return nil, err
	}

	v, err := bond.NewValuation(input)
	if err != nil {
		return nil, err
	}

	sched := v.Schedule()
	prec := cfg.Output.Precision

	return &priceOutput{
		TaskID:          in.TaskID,
		SettlementDate:  in.SettlementDate,
		MaturityDate:    in.MaturityDate,
		DirtyPrice:      utils.RoundTo(v.DirtyPrice(), prec),
		AccruedInterest: utils.RoundTo(v.AccruedInterest(), prec),
		CleanPrice:      utils.RoundTo(v.CleanPrice(), prec),
		LastCoupon:      sched.LastCoupon.Format("2006-01-02"),
		NextCoupon:      sched.NextCoupon.Format("2006-01-02"),
		FullPeriods:     sched.FullPeriods,
		ExCoupon:        !sched.CumCoupon,
	}, nil
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]priceInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []priceInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input priceInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []priceInput{input}, false, nil
}
