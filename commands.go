package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/amarsreevishnu/greennestPlants/auth"
	"github.com/amarsreevishnu/greennestPlants/config"
	walletControllers "github.com/amarsreevishnu/greennestPlants/controllers/wallet"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/reports"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func migrateCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if _, err := openDB(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func seedCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a demo catalog and welcome coupon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if err := seed(db, time.Now()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "demo data loaded")
			return nil
		},
	}
}

type demoProduct struct {
	category string
	name     string
	variants map[string]string
}

var demoCatalog = []demoProduct{
	{"Indoor Plants", "Monstera Deliciosa", map[string]string{"Small": "349", "Large": "899"}},
	{"Indoor Plants", "Snake Plant", map[string]string{"Small": "249", "Medium": "449"}},
	{"Succulents", "Echeveria", map[string]string{"Single": "149"}},
	{"Planters", "Ceramic Pot", map[string]string{"6 inch": "299", "10 inch": "549"}},
}

// seed is safe to run more than once: existing rows are matched by name.
func seed(db *gorm.DB, now time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, d := range demoCatalog {
			category := models.Category{Name: d.category}
			if err := tx.Where("name = ?", d.category).Attrs(models.Category{IsActive: true}).FirstOrCreate(&category).Error; err != nil {
				return err
			}
			product := models.Product{Name: d.name}
			if err := tx.Where("name = ?", d.name).
				Attrs(models.Product{CategoryID: category.ID, IsActive: true}).
				FirstOrCreate(&product).Error; err != nil {
				return err
			}
			for kind, price := range d.variants {
				variant := models.ProductVariant{}
				if err := tx.Where("product_id = ? AND variant_type = ?", product.ID, kind).
					Attrs(models.ProductVariant{
						ProductID:   product.ID,
						VariantType: kind,
						Price:       decimal.RequireFromString(price),
						Stock:       25,
						IsActive:    true,
					}).
					FirstOrCreate(&variant).Error; err != nil {
					return err
				}
			}
		}

		coupon := models.Coupon{}
		return tx.Where("code = ?", "WELCOME10").
			Attrs(models.Coupon{
				Code:               "WELCOME10",
				DiscountPercentage: decimal.NewFromInt(10),
				MaxDiscountAmount:  decimal.NewNullDecimal(decimal.NewFromInt(200)),
				MinOrderValue:      decimal.NewFromInt(499),
				Active:             true,
				ValidFrom:          now,
				ValidTo:            now.AddDate(1, 0, 0),
			}).
			FirstOrCreate(&coupon).Error
	})
}

func tokenCmd(load func() (config.Config, error)) *cobra.Command {
	var (
		email string
		name  string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a signed user token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if ttl == 0 {
				ttl = cfg.Auth.TokenTTL
			}
			token, err := auth.IssueToken(cfg.Auth.JWTSecret, auth.Claims{UserID: args[0], Email: email, Name: name}, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to TOKEN_TTL)")
	return cmd
}

func reportCmd(load func() (config.Config, error)) *cobra.Command {
	var preset, from, to string

	sales := &cobra.Command{
		Use:   "sales",
		Short: "Print the sales report as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				p   reports.Period
				err error
			)
			if from != "" || to != "" {
				p, err = reports.ParseRange(from, to)
			} else {
				p, err = reports.Preset(preset, time.Now())
			}
			if err != nil {
				return err
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			report, err := reports.BuildSales(db, p)
			if err != nil {
				return err
			}
			return reports.WriteSalesTable(cmd.OutOrStdout(), report)
		},
	}
	sales.Flags().StringVar(&preset, "range", "month", "today, week, month or year")
	sales.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	sales.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")

	cmd := &cobra.Command{Use: "report", Short: "Reports"}
	cmd.AddCommand(sales)
	return cmd
}

var errDrift = errors.New("wallet balances disagree with their ledgers")

func walletCmd(load func() (config.Config, error)) *cobra.Command {
	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare every cached wallet balance with its ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			drifted, err := walletControllers.ReconcileAll(db)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range drifted {
				fmt.Fprintf(out, "%s\tbalance=%s\tledger=%s\n", d.UserID, d.Balance.StringFixed(2), d.Ledger.StringFixed(2))
			}
			if len(drifted) > 0 {
				return fmt.Errorf("%w: %d wallet(s)", errDrift, len(drifted))
			}
			fmt.Fprintln(out, "all wallets reconcile")
			return nil
		},
	}

	cmd := &cobra.Command{Use: "wallet", Short: "Wallet maintenance"}
	cmd.AddCommand(reconcile)
	return cmd
}
