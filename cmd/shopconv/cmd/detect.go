package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/badno/shopconv/internal/convert"
	"github.com/badno/shopconv/internal/mapping"
	"github.com/badno/shopconv/internal/parser"
	"github.com/badno/shopconv/pkg/models"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var detectPlatform string

var detectCmd = &cobra.Command{
	Use:   "detect [input]",
	Short: "Show how an export would be read",
	Long: `Detect the platform of an export and print which header feeds each
product field and which columns carry variant attributes. Nothing is
written.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectPlatform, "platform", "", "Source platform to assume instead of detecting")
}

func runDetect(cmd *cobra.Command, args []string) error {
	header := color.New(color.FgCyan, color.Bold)

	table, err := parser.ReadFile(args[0])
	if err != nil {
		color.Red("  Error: %v", err)
		return err
	}

	opts := cfg.Conversion.Options()
	opts.Logger = log
	if detectPlatform != "" {
		p, ok := models.ParsePlatform(detectPlatform)
		if !ok {
			return fmt.Errorf("unknown platform: %s", detectPlatform)
		}
		opts.Platform = p
	}

	result, err := convert.New(opts).ConvertTable(table)
	if err != nil {
		color.Red("  Error: %v", err)
		return err
	}

	header.Println("\n  EXPORT LAYOUT")
	fmt.Println("  " + strings.Repeat("─", 50))
	fmt.Println()
	fmt.Printf("  Detected platform: %s\n", color.CyanString(string(result.Detected)))
	if result.Platform != result.Detected {
		fmt.Printf("  Using:             %s\n", color.YellowString(string(result.Platform)))
	}
	fmt.Printf("  Columns: %d   Rows: %d   Products: %d   Variants: %d\n\n",
		len(table.Headers), result.SourceRows, result.Products, result.Variants)

	header.Println("  FIELDS")
	fields := newDetectTable([]string{"Field", "Header"})
	for _, f := range models.Fields {
		h, ok := result.Fields.Header(f)
		if !ok {
			h = color.RedString("not found")
		}
		fields.Append([]string{string(f), h})
	}
	fields.Render()
	fmt.Println()

	header.Println("  ATTRIBUTES")
	keys := mapping.AttributeKeys(result.AttrNames, result.AttrValues)
	if len(keys) == 0 {
		color.Yellow("  No attribute columns found")
	} else {
		attrs := newDetectTable([]string{"Key", "Style", "Name column", "Values column"})
		for _, k := range keys {
			style := "numbered"
			if mapping.IsSlugKey(k) {
				style = "slug"
			}
			attrs.Append([]string{k, style, result.AttrNames[k], result.AttrValues[k]})
		}
		attrs.Render()
	}

	if len(result.Warnings) > 0 {
		fmt.Println()
		color.Yellow("  Warnings:")
		for _, w := range result.Warnings {
			fmt.Printf("    - %s\n", w)
		}
	}
	fmt.Println()
	return nil
}

func newDetectTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}
