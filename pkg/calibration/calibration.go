// Package calibration gives structured access to phantom calibration data:
// relaxometry (T1, T2) and diffusion reference values per temperature and
// field strength, solution concentrations and thermometer readings.
//
// Data is loaded once, either from a workbook with ReadWorkbook/Open or from
// tables built in memory, and is read-only afterwards.
package calibration

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"phantomqa/internal/logger"
	"phantomqa/pkg/errkind"
)

// FieldStrength is the scanner main field in tesla.
type FieldStrength float64

const (
	Field15T FieldStrength = 1.5
	Field3T  FieldStrength = 3
)

func (f FieldStrength) String() string {
	return fmt.Sprintf("%gT", float64(f))
}

// Mechanism is the contrast mechanism a set of solutions mimics.
type Mechanism string

const (
	MechanismT1    Mechanism = "T1"
	MechanismT2    Mechanism = "T2"
	MechanismADC   Mechanism = "ADC"
	MechanismCuSO4 Mechanism = "CuSO4"
)

// SheetKey identifies one (field strength, mechanism) combination.
type SheetKey struct {
	Field     FieldStrength
	Mechanism Mechanism
}

// SheetMap resolves a SheetKey to the logical name of a loaded table.
type SheetMap map[SheetKey]string

// DefaultSheetMap matches the names produced by DefaultLayouts.
func DefaultSheetMap() SheetMap {
	return SheetMap{
		{Field3T, MechanismT1}:    "NiCl_3T",
		{Field3T, MechanismT2}:    "MnCl_3T",
		{Field3T, MechanismADC}:   "ADC_3T",
		{Field3T, MechanismCuSO4}: "CuSO4_3T",
		{Field15T, MechanismT1}:   "NiCl_15T",
		{Field15T, MechanismT2}:   "MnCl_15T",
		{Field15T, MechanismADC}:  "ADC_15T",
	}
}

type settings struct {
	sheets  SheetMap
	layouts []SheetLayout
	log     logger.ILogger
}

// Option customises New and Open.
type Option func(*settings)

// WithSheetMap replaces the default (field, mechanism) lookup.
func WithSheetMap(m SheetMap) Option {
	return func(s *settings) { s.sheets = m }
}

// WithLayouts replaces the sheet layouts Open reads from the workbook.
func WithLayouts(l []SheetLayout) Option {
	return func(s *settings) { s.layouts = l }
}

// WithLogger sets where loading progress is reported.
func WithLogger(l logger.ILogger) Option {
	return func(s *settings) { s.log = l }
}

func newSettings(opts []Option) *settings {
	s := &settings{sheets: DefaultSheetMap(), layouts: DefaultLayouts()}
	for _, o := range opts {
		o(s)
	}
	s.log = logger.OrNull(s.log)
	return s
}

// Calibration answers lookups against a fixed set of tables. It holds its own
// copies of the tables and never hands them out.
type Calibration struct {
	tables map[string]*Table
	sheets SheetMap
}

// New builds a Calibration from tables keyed by logical name. Every sheet the
// sheet map refers to must be present, otherwise errkind.ErrLookup is returned.
func New(tables map[string]*Table, opts ...Option) (*Calibration, error) {
	s := newSettings(opts)

	c := &Calibration{
		tables: make(map[string]*Table, len(tables)),
		sheets: make(SheetMap, len(s.sheets)),
	}
	for name, t := range tables {
		if t != nil {
			c.tables[name] = t.Clone()
		}
	}

	var missing []string
	for key, name := range s.sheets {
		if _, ok := c.tables[name]; !ok {
			missing = append(missing, fmt.Sprintf("%s (%s at %v)", name, key.Mechanism, key.Field))
		}
		c.sheets[key] = name
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Wrapf(errkind.ErrLookup, "calibration data is missing sheets: %s", strings.Join(missing, ", "))
	}

	s.log.Infof("calibration ready: %d tables, %d sheet mappings", len(c.tables), len(c.sheets))
	return c, nil
}

// Open reads the workbook at path and builds a Calibration from it.
func Open(path string, opts ...Option) (*Calibration, error) {
	s := newSettings(opts)
	tables, err := readWorkbook(path, s.layouts, s.log)
	if err != nil {
		return nil, err
	}
	return New(tables, opts...)
}

// Mechanisms returns the mechanisms available at a field strength, sorted.
func (c *Calibration) Mechanisms(field FieldStrength) []Mechanism {
	var out []Mechanism
	for key := range c.sheets {
		if key.Field == field {
			out = append(out, key.Mechanism)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Sheet returns a copy of the table for a mechanism at a field strength. An
// unknown combination is errkind.ErrLookup and names the available mechanisms.
func (c *Calibration) Sheet(field FieldStrength, mechanism Mechanism) (*Table, error) {
	t, err := c.sheet(field, mechanism)
	return t.Clone(), err
}

func (c *Calibration) sheet(field FieldStrength, mechanism Mechanism) (*Table, error) {
	name, ok := c.sheets[SheetKey{Field: field, Mechanism: mechanism}]
	if !ok {
		avail := c.Mechanisms(field)
		names := make([]string, len(avail))
		for i, m := range avail {
			names[i] = string(m)
		}
		return nil, errors.Wrapf(errkind.ErrLookup, "cannot find sheet for %s at %v, available mechanisms are [%s]",
			mechanism, field, strings.Join(names, ", "))
	}
	return c.tables[name], nil
}

// Table returns a copy of a table by logical name.
func (c *Calibration) Table(name string) (*Table, error) {
	t, err := c.table(name)
	return t.Clone(), err
}

func (c *Calibration) table(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, errors.Wrapf(errkind.ErrLookup, "no calibration sheet named %s", name)
	}
	return t, nil
}

// Values returns the "<quantity> (ms)" values of the mechanism's sheet for rows
// measured at temp, in row order (ascending concentration). A temperature with
// no rows gives an empty result, not an error.
//
// Quantity and mechanism are independent, so the T1 values of the solutions
// that mimic T2 are Values(temp, MechanismT2, "T1", field).
func (c *Calibration) Values(temp float64, mechanism Mechanism, quantity string, field FieldStrength) ([]float64, error) {
	t, err := c.sheet(field, mechanism)
	if err != nil {
		return nil, err
	}
	return t.Where(ColTemperature, temp, quantity+" (ms)")
}

// T1Values returns the T1 (ms) values of the T1 solutions at temp.
func (c *Calibration) T1Values(temp float64, field FieldStrength) ([]float64, error) {
	return c.Values(temp, MechanismT1, "T1", field)
}

// T2Values returns the T2 (ms) values of the T2 solutions at temp.
func (c *Calibration) T2Values(temp float64, field FieldStrength) ([]float64, error) {
	return c.Values(temp, MechanismT2, "T2", field)
}

// T1Concentrations returns the NiCl concentrations in mM.
func (c *Calibration) T1Concentrations() ([]float64, error) {
	return c.floats("NiCl_15T", ColConcentration)
}

// T2Concentrations returns the MnCl concentrations in mM.
func (c *Calibration) T2Concentrations() ([]float64, error) {
	return c.floats("MnCl_15T", ColConcentration)
}

// ThermometerValues returns the liquid crystal transition temperatures.
func (c *Calibration) ThermometerValues() ([]float64, error) {
	return c.floats("CMRI_LC", ColThermometer)
}

func (c *Calibration) floats(table, column string) ([]float64, error) {
	t, err := c.table(table)
	if err != nil {
		return nil, err
	}
	return t.Floats(column)
}
