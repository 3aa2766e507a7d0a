package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"managertc/internal/db"
	"managertc/internal/domain/attendance"
	"managertc/internal/domain/employee"
	"managertc/internal/domain/payroll"
	"managertc/internal/domain/payslip"
	"managertc/internal/platform/config"
	cryptoutil "managertc/internal/platform/crypto"
	"managertc/internal/platform/email"
)

var (
	flagTenant string
	flagMonth  int
	flagYear   int
)

func main() {
	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Run payroll batches against the configured database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagTenant, "tenant", "", "tenant id (required)")
	root.PersistentFlags().IntVar(&flagMonth, "month", int(time.Now().Month()), "pay month (1-12)")
	root.PersistentFlags().IntVar(&flagYear, "year", time.Now().Year(), "pay year")

	root.AddCommand(runCmd(), payslipsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Generate payroll records for every payable employee of a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) error {
				calculator := newCalculator(pool)
				items, err := calculator.GenerateForCompany(ctx, flagTenant, period(), "payrollctl")
				if err != nil {
					return err
				}
				printItems(items)
				return nil
			})
		},
	}
}

func payslipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payslips",
		Short: "Render payslip PDFs for a tenant's generated payroll",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) error {
				cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
				if err != nil {
					return err
				}
				employees := employee.NewStore(pool)
				records := payroll.NewStore(pool)
				files := payslip.NewFSStore(cfg.PayslipDir, cryptoSvc)
				renderer := payslip.NewRenderer(records, employees, files, email.New(cfg), payslip.Config{
					CompanyName:    cfg.CompanyName,
					CompanyAddress: cfg.CompanyAddress,
					EmailFrom:      cfg.EmailFrom,
					EmailEnabled:   cfg.EmailEnabled,
				})

				items, err := renderer.RenderForCompany(ctx, flagTenant, period())
				if err != nil {
					return err
				}
				printItems(items)
				return nil
			})
		},
	}
}

func withPool(ctx context.Context, run func(context.Context, config.Config, *pgxpool.Pool) error) error {
	if flagTenant == "" {
		return fmt.Errorf("--tenant is required")
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()
	return run(ctx, cfg, pool)
}

func newCalculator(pool *pgxpool.Pool) *payroll.Calculator {
	return payroll.NewCalculator(
		employee.NewStore(pool),
		attendance.NewStore(pool),
		payroll.NewStore(pool),
		payroll.DefaultRates(),
	)
}

func period() payroll.Period {
	return payroll.Period{Month: flagMonth, Year: flagYear}
}

func printItems(items []payroll.BatchItem) {
	succeeded := 0
	for _, item := range items {
		if item.Success {
			succeeded++
			net := ""
			if item.Record != nil {
				net = fmt.Sprintf(" net=%.2f", item.Record.NetSalary)
			}
			fmt.Printf("ok   %s%s\n", item.EmployeeID, net)
			continue
		}
		fmt.Printf("fail %s: %s\n", item.EmployeeID, item.Error)
	}
	fmt.Printf("%d/%d succeeded\n", succeeded, len(items))
}
