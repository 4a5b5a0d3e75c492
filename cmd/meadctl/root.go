package main

import (
	"fmt"
	"io"
	"os"

	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"github.com/meadcraft/meadery/pkg/logger"
	"github.com/meadcraft/meadery/pkg/money"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options holds the persistent flags shared by every subcommand
type options struct {
	inventoryPath string
	currency      string
	locale        string
	logLevel      string
	asJSON        bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "meadctl",
		Short:         "meadctl - mead recipe costing and brewing calculators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(logger.Config{
				Level:       opts.logLevel,
				Format:      "console",
				OutputPaths: []string{"stderr"},
			})
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			opts.logger = log
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.inventoryPath, "inventory", "i", "inventory.yaml", "inventory YAML file")
	flags.StringVar(&opts.currency, "currency", "$", "currency symbol used for display")
	flags.StringVar(&opts.locale, "locale", "en-US", "locale used to format amounts")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newParseCmd(opts),
		newCostCmd(opts),
		newShoppingCmd(opts),
		newRenderCmd(opts),
		newCalcCmd(opts),
		newHealthCmd(opts),
	)

	return root
}

func (o *options) formatter() *money.Formatter {
	return money.NewFormatter(o.currency, o.locale)
}

func (o *options) log() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

func (o *options) snapshot() (inventory.Snapshot, error) {
	snapshot, err := loadInventory(o.inventoryPath)
	if err != nil {
		return nil, err
	}
	o.log().Debug("Loaded inventory",
		zap.String("path", o.inventoryPath),
		zap.Int("items", len(snapshot)),
	)
	return snapshot, nil
}

// readRecipe reads a Markdown recipe from path, or stdin when path is "-"
func readRecipe(cmd *cobra.Command, path string) (string, []recipe.IngredientLine, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to read recipe: %w", err)
	}

	markdown := string(data)
	return markdown, recipe.ExtractIngredients(markdown), nil
}
