// Package convert turns a platform product export into Shopify product
// import rows.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/badno/shopconv/internal/mapping"
	"github.com/badno/shopconv/internal/output"
	"github.com/badno/shopconv/internal/parser"
	"github.com/badno/shopconv/internal/platform"
	"github.com/badno/shopconv/pkg/models"
	"go.uber.org/zap"
)

// Result describes one finished conversion
type Result struct {
	Detected   models.Platform // what the headers looked like
	Platform   models.Platform // strategy actually used
	Fields     mapping.FieldMap
	AttrNames  mapping.AttrMap
	AttrValues mapping.AttrMap
	Rows       []*models.Row
	OutputPath string

	SourceRows int
	Products   int
	Variants   int
	ImageRows  int
	Warnings   []string
}

// Converter runs conversions. It holds no per-file state, so one
// Converter may serve concurrent calls.
type Converter struct {
	opts Options
	log  *zap.Logger
}

// New creates a Converter
func New(opts Options) *Converter {
	opts = opts.withDefaults()
	return &Converter{
		opts: opts,
		log:  opts.Logger,
	}
}

// Convert converts inputPath into a CSV next to it and returns the
// output path
func Convert(ctx context.Context, inputPath string) (string, error) {
	out := DefaultOutputPath(inputPath)
	if _, err := New(DefaultOptions()).ConvertFile(ctx, inputPath, out); err != nil {
		return "", err
	}
	return out, nil
}

// DefaultOutputPath derives "<name>_shopify.csv" beside the input
func DefaultOutputPath(inputPath string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(filepath.Dir(inputPath), base+"_shopify.csv")
}

// ConvertFile reads inputPath, converts it and writes outputPath in the
// format its extension names. The output only appears once the whole
// table has been built. ctx is checked between stages; a running
// conversion is not interrupted.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := parser.ReadFile(inputPath)
	if err != nil {
		return nil, inputError(inputPath, "failed to read input", err)
	}

	result, err := c.ConvertTable(table)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	writer, err := c.opts.Writers.ForPath(outputPath)
	if err != nil {
		return nil, outputError(outputPath, "no writer for output", err)
	}
	if err := output.WriteFile(outputPath, writer, result.Rows); err != nil {
		return nil, outputError(outputPath, "failed to write output", err)
	}
	result.OutputPath = outputPath

	c.log.Info("conversion finished",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("platform", string(result.Platform)),
		zap.Int("products", result.Products),
		zap.Int("rows", len(result.Rows)),
		zap.Int("warnings", len(result.Warnings)),
	)

	return result, nil
}

// ConvertTable converts an already loaded table
func (c *Converter) ConvertTable(table *models.Table) (*Result, error) {
	if table == nil {
		return nil, inputError("", "no input table", parser.ErrEmptyFile)
	}

	run := &conversion{
		opts:    c.opts,
		log:     c.log,
		table:   table,
		handles: make(map[string]int),
		result:  &Result{SourceRows: len(table.Rows)},
	}

	run.selectStrategy()
	run.mapColumns()

	groups := run.groupRows()
	run.result.Products = len(groups)
	for i, g := range groups {
		run.result.Rows = append(run.result.Rows, run.buildRows(g)...)
		if c.opts.Progress != nil {
			c.opts.Progress(i+1, len(groups))
		}
	}
	run.flushDegraded()

	return run.result, nil
}

// conversion is the state of one ConvertTable call
type conversion struct {
	opts     Options
	log      *zap.Logger
	table    *models.Table
	strategy platform.Strategy
	fields   mapping.FieldMap
	names    mapping.AttrMap
	values   mapping.AttrMap
	handles  map[string]int
	degraded map[models.Field]int
	result   *Result
}

func (r *conversion) warn(msg string, fields ...zap.Field) {
	r.result.Warnings = append(r.result.Warnings, msg)
	r.log.Warn(msg, fields...)
}

func (r *conversion) selectStrategy() {
	detected := r.opts.Strategies.Detect(r.table.Headers)
	r.result.Detected = detected

	chosen := detected
	if r.opts.Platform != "" && r.opts.Platform != models.PlatformUnknown {
		chosen = r.opts.Platform
	}

	s, err := r.opts.Strategies.Get(chosen)
	if err != nil {
		r.warn(fmt.Sprintf("platform not recognised, using %s", r.opts.FallbackPlatform),
			zap.String("detected", string(detected)))
		s, err = r.opts.Strategies.Get(r.opts.FallbackPlatform)
		if err != nil {
			s = platform.NewWooCommerceStrategy()
		}
	}

	r.strategy = s
	r.result.Platform = s.Platform()
}

func (r *conversion) mapColumns() {
	r.fields = mapping.DetectCommonColumns(r.table.Headers, r.strategy.Candidates())
	r.names, r.values = mapping.FindAttributeColumns(r.table.Headers, r.strategy.AttributeRules())

	r.result.Fields = r.fields
	r.result.AttrNames = r.names
	r.result.AttrValues = r.values

	if missing := r.fields.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		r.warn("unmapped fields: "+strings.Join(names, ", "), zap.Strings("fields", names))
	}
}

// noteDegraded counts a cell that had content but failed cleanup
func (r *conversion) noteDegraded(f models.Field, raw, cleaned string) {
	if raw == "" || cleaned != "" {
		return
	}
	if r.degraded == nil {
		r.degraded = make(map[models.Field]int)
	}
	r.degraded[f]++
	r.log.Debug("cell could not be parsed", zap.String("field", string(f)), zap.String("value", raw))
}

func (r *conversion) flushDegraded() {
	for _, f := range models.Fields {
		if n := r.degraded[f]; n > 0 {
			r.warn(fmt.Sprintf("%d %s cells could not be parsed and were left empty", n, f),
				zap.String("field", string(f)), zap.Int("count", n))
		}
	}
}
