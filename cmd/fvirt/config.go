package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ferroin/fvirt/internal/output"
	"github.com/Ferroin/fvirt/models"
	"github.com/Ferroin/fvirt/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with domain and pool configuration files",
}

var (
	validateFormat    string
	validateNoHeaders bool
)

func init() {
	configValidateCmd.Flags().StringVarP(&validateFormat, "output", "o", "table", "Violation output format (table, yaml, json)")
	configValidateCmd.Flags().BoolVar(&validateNoHeaders, "no-headers", false, "Omit headers in table output")

	configCmd.AddCommand(configRenderCmd)
	configCmd.AddCommand(configValidateCmd)
}

var configRenderCmd = &cobra.Command{
	Use:   "render <domain|pool> <config.yaml>",
	Short: "Render a configuration file to libvirt XML",
	Long: `Render a YAML configuration file to libvirt XML on standard output.

The first argument selects the configuration kind. Nothing is printed
when the configuration fails validation.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := renderConfig(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Print(doc)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <domain|pool> <config.yaml>",
	Short: "Validate a configuration file without rendering it",
	Long: `Validate a YAML configuration file and report every violation found.

Violations are printed all at once in the selected output format.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.ValidateFormat(validateFormat); err != nil {
			return err
		}

		err := validateConfig(args[0], args[1])
		if err == nil {
			fmt.Printf("%s: OK\n", args[1])
			return nil
		}

		report, ok := err.(*models.Report)
		if !ok {
			return err
		}

		formatter, ferr := output.NewFormatter(output.Options{
			Format:    output.Format(validateFormat),
			NoHeaders: validateNoHeaders,
		})
		if ferr != nil {
			return ferr
		}
		out, ferr := formatter.FormatReport(report)
		if ferr != nil {
			return ferr
		}
		fmt.Print(out)

		return fmt.Errorf("%s: %d validation problem(s)", args[1], len(report.Violations))
	},
}

func renderConfig(kind, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch kind {
	case "domain":
		d, err := models.LoadDomain(data)
		if err != nil {
			return "", err
		}
		return render.Domain(d)
	case "pool":
		p, err := models.LoadPool(data)
		if err != nil {
			return "", err
		}
		return render.Pool(p)
	default:
		return "", fmt.Errorf("unknown configuration kind %q (want domain or pool)", kind)
	}
}

func validateConfig(kind, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch kind {
	case "domain":
		d, err := models.LoadDomain(data)
		if err != nil {
			return err
		}
		d.Normalize()
		return d.Validate()
	case "pool":
		p, err := models.LoadPool(data)
		if err != nil {
			return err
		}
		return p.Validate()
	default:
		return fmt.Errorf("unknown configuration kind %q (want domain or pool)", kind)
	}
}
