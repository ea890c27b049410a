package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/badno/shopconv/internal/convert"
	"github.com/badno/shopconv/internal/output"
	"github.com/badno/shopconv/internal/output/file"
	"github.com/badno/shopconv/pkg/models"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	convertPlatform    string
	convertOutputPath  string
	convertFormat      string
	convertVendor      string
	convertNoImageRows bool
	convertQuiet       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [input]",
	Short: "Convert a product export",
	Long: `Convert a WooCommerce, Wix or PrestaShop export (.csv or .xlsx) into
a Shopify product import file. The platform is detected from the headers
unless --platform is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertPlatform, "platform", "", "Source platform (wix, woocommerce, prestashop)")
	convertCmd.Flags().StringVarP(&convertOutputPath, "output", "o", "", "Output file path (default <input>_shopify.<ext>)")
	convertCmd.Flags().StringVar(&convertFormat, "format", "", "Output format (csv, json, jsonl)")
	convertCmd.Flags().StringVar(&convertVendor, "vendor", "", "Vendor for products without one")
	convertCmd.Flags().BoolVar(&convertNoImageRows, "no-image-rows", false, "Do not add rows for additional product images")
	convertCmd.Flags().BoolVarP(&convertQuiet, "quiet", "q", false, "Only print the output path")
}

func runConvert(cmd *cobra.Command, args []string) error {
	header := color.New(color.FgCyan, color.Bold)
	success := color.New(color.FgGreen)

	input := args[0]

	opts := cfg.Conversion.Options()
	opts.Logger = log
	opts.Writers = file.NewRegistry(cfg.Output.Pretty)
	if convertPlatform != "" {
		p, ok := models.ParsePlatform(convertPlatform)
		if !ok {
			return fmt.Errorf("unknown platform: %s", convertPlatform)
		}
		opts.Platform = p
	}
	if convertVendor != "" {
		opts.DefaultVendor = convertVendor
	}
	if convertNoImageRows {
		opts.ImageRows = false
	}

	outPath, err := resolveOutputPath(input, opts.Writers)
	if err != nil {
		return err
	}

	if !convertQuiet {
		header.Println("\n  CONVERTING PRODUCTS")
		fmt.Println("  " + strings.Repeat("─", 50))
		fmt.Println()

		var bar *progressbar.ProgressBar
		opts.Progress = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("  Building products"),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        color.GreenString("█"),
						SaucerHead:    color.GreenString("█"),
						SaucerPadding: "░",
						BarStart:      "[",
						BarEnd:        "]",
					}),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		}
	}

	result, err := convert.New(opts).ConvertFile(cmd.Context(), input, outPath)
	if err != nil {
		color.Red("  Error: %v", err)
		return err
	}

	if convertQuiet {
		fmt.Println(result.OutputPath)
		return nil
	}

	fmt.Println()
	printConvertSummary(input, result)

	if len(result.Warnings) > 0 {
		fmt.Println()
		color.Yellow("  Warnings:")
		for _, w := range result.Warnings {
			fmt.Printf("    - %s\n", w)
		}
	}

	fmt.Println()
	success.Printf("  ✓ Wrote %s\n", result.OutputPath)
	fmt.Println()
	return nil
}

// resolveOutputPath picks the output file from --output, --format, the
// configured output directory and the input name
func resolveOutputPath(input string, writers *output.Registry) (string, error) {
	if convertOutputPath != "" {
		if convertFormat != "" && output.FormatForPath(convertOutputPath) != output.Format(convertFormat) {
			return "", fmt.Errorf("--format %s does not match output file %s", convertFormat, convertOutputPath)
		}
		return convertOutputPath, nil
	}

	format := output.Format(cfg.Output.Format)
	if convertFormat != "" {
		format = output.Format(convertFormat)
	}
	writer, err := writers.Get(format)
	if err != nil {
		return "", fmt.Errorf("unsupported output format: %s", format)
	}

	path := convert.DefaultOutputPath(input)
	path = strings.TrimSuffix(path, filepath.Ext(path)) + writer.Extension()
	if cfg.Output.Dir != "" {
		path = filepath.Join(cfg.Output.Dir, filepath.Base(path))
	}
	return path, nil
}

func printConvertSummary(input string, result *convert.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	platform := string(result.Platform)
	if result.Detected != result.Platform {
		platform += color.YellowString(" (detected %s)", result.Detected)
	}

	table.Append([]string{"Input", input})
	table.Append([]string{"Platform", platform})
	table.Append([]string{"Source rows", strconv.Itoa(result.SourceRows)})
	table.Append([]string{"Products", strconv.Itoa(result.Products)})
	table.Append([]string{"Variants", strconv.Itoa(result.Variants)})
	table.Append([]string{"Image rows", strconv.Itoa(result.ImageRows)})
	table.Append([]string{"Output rows", strconv.Itoa(len(result.Rows))})
	table.Render()
}
