package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/address-offers/app/models"
)

// Sheet names
const (
	SheetSettlements = "settlements"
	SheetStreets     = "streets"
	SheetBuildings   = "buildings"
	SheetOperators   = "operators"
	SheetOffers      = "offers"
	SheetCoverage    = "coverage"
	SheetAntennas    = "antennas"
)

// Required sheets; the rest may be absent.
var requiredSheets = []string{SheetSettlements, SheetOperators, SheetOffers}

// LoadFile reads a workbook from disk.
func LoadFile(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()
	return load(f)
}

// Load reads a workbook from r.
func Load(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}
	defer f.Close()
	return load(f)
}

func load(f *excelize.File) (*Dataset, error) {
	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[name] = true
	}
	for _, name := range requiredSheets {
		if !present[name] {
			return nil, fmt.Errorf("workbook has no %q sheet", name)
		}
	}

	ds := &Dataset{}
	steps := []struct {
		sheet string
		read  func(r row) error
	}{
		{SheetSettlements, func(r row) error {
			weight, err := r.int("weight")
			if err != nil {
				return err
			}
			code, err := r.required("settlement_code")
			if err != nil {
				return err
			}
			name, err := r.required("name")
			if err != nil {
				return err
			}
			ds.Settlements = append(ds.Settlements, models.Settlement{
				Code:      code,
				AdminCode: r.str("admin_code"),
				Name:      name,
				District:  r.str("district"),
				Weight:    weight,
			})
			return nil
		}},
		{SheetStreets, func(r row) error {
			code, err := r.required("settlement_code")
			if err != nil {
				return err
			}
			ds.Streets = append(ds.Streets, models.Street{
				SettlementCode: code,
				StreetID:       r.str("street_id"),
				Name:           r.str("name"),
			})
			return nil
		}},
		{SheetBuildings, func(r row) error {
			code, err := r.required("settlement_code")
			if err != nil {
				return err
			}
			number, err := r.required("number")
			if err != nil {
				return err
			}
			ds.Buildings = append(ds.Buildings, models.BuildingNumber{
				SettlementCode: code,
				StreetID:       r.str("street_id"),
				Number:         number,
			})
			return nil
		}},
		{SheetOperators, func(r row) error {
			id, err := r.required("operator_id")
			if err != nil {
				return err
			}
			active, err := r.boolOr("active", true)
			if err != nil {
				return err
			}
			ds.Operators = append(ds.Operators, models.Operator{
				ID:     id,
				Name:   r.str("name"),
				Slug:   r.str("slug"),
				Active: active,
			})
			return nil
		}},
		{SheetOffers, readOffer(ds)},
		{SheetCoverage, func(r row) error {
			rec := models.CoverageRecord{
				SettlementCode: r.str("settlement_code"),
				StreetID:       r.str("street_id"),
				Number:         r.str("number"),
				Provenance:     strings.ToLower(r.str("provenance")),
			}
			var err error
			if rec.OperatorID, err = r.required("operator_id"); err != nil {
				return err
			}
			if rec.Capacity, err = r.int("capacity"); err != nil {
				return err
			}
			if rec.UpdatedAt, err = r.time("updated_at"); err != nil {
				return err
			}
			if rec.Provenance != "" && !rec.IsValidProvenance() {
				return r.errorf("provenance", "unknown provenance %q", rec.Provenance)
			}
			ds.Coverage = append(ds.Coverage, rec)
			return nil
		}},
		{SheetAntennas, func(r row) error {
			a := models.AntennaDistance{
				SettlementCode: r.str("settlement_code"),
				StreetID:       r.str("street_id"),
				Number:         r.str("number"),
			}
			var err error
			if a.OperatorID, err = r.required("operator_id"); err != nil {
				return err
			}
			if a.DistanceMeters, err = r.float("distance_meters"); err != nil {
				return err
			}
			if a.MeasuredAt, err = r.time("measured_at"); err != nil {
				return err
			}
			ds.Antennas = append(ds.Antennas, a)
			return nil
		}},
	}

	for _, step := range steps {
		if !present[step.sheet] {
			continue
		}
		if err := readSheet(f, step.sheet, step.read); err != nil {
			return nil, err
		}
	}

	ds.Prepare()
	return ds, nil
}

func readOffer(ds *Dataset) func(r row) error {
	return func(r row) error {
		o := models.Offer{
			Title:          r.str("title"),
			ConnectionType: models.ConnectionType(strings.ToLower(r.str("connection_type"))),
		}
		var err error
		if o.ID, err = r.required("offer_id"); err != nil {
			return err
		}
		if o.OperatorID, err = r.required("operator_id"); err != nil {
			return err
		}
		if !o.ConnectionType.IsValid() {
			return r.errorf("connection_type", "unknown connection type %q", o.ConnectionType)
		}
		if o.Featured, err = r.boolOr("featured", false); err != nil {
			return err
		}
		if o.Local, err = r.boolOr("local", false); err != nil {
			return err
		}
		if o.Active, err = r.boolOr("active", true); err != nil {
			return err
		}
		if o.Priority, err = r.int("priority"); err != nil {
			return err
		}
		if o.Price, err = r.float("price"); err != nil {
			return err
		}
		if o.SpeedMbps, err = r.int("speed_mbps"); err != nil {
			return err
		}
		if o.CreatedAt, err = r.time("created_at"); err != nil {
			return err
		}
		for _, name := range strings.Split(r.str("local_settlements"), ";") {
			if name = strings.TrimSpace(name); name != "" {
				o.LocalSettlements = append(o.LocalSettlements, name)
			}
		}
		ds.Offers = append(ds.Offers, o)
		return nil
	}
}

func readSheet(f *excelize.File, sheet string, read func(r row) error) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		if err := read(row{sheet: sheet, line: i + 1, header: header, cells: rows[i]}); err != nil {
			return err
		}
	}
	return nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// row gives typed access to the cells of one data row by header name
type row struct {
	sheet  string
	line   int
	header map[string]int
	cells  []string
}

func (r row) str(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r row) errorf(col, format string, args ...interface{}) error {
	return fmt.Errorf("sheet %s row %d column %s: %s", r.sheet, r.line, col, fmt.Sprintf(format, args...))
}

func (r row) required(col string) (string, error) {
	v := r.str(col)
	if v == "" {
		return "", r.errorf(col, "value is required")
	}
	return v, nil
}

func (r row) int(col string) (int, error) {
	v := r.str(col)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// numeric cells may come back as "12.0"
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return 0, r.errorf(col, "invalid integer %q", v)
		}
		n = int(f)
	}
	return n, nil
}

func (r row) float(col string) (float64, error) {
	v := r.str(col)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
	if err != nil {
		return 0, r.errorf(col, "invalid number %q", v)
	}
	return f, nil
}

func (r row) boolOr(col string, def bool) (bool, error) {
	switch strings.ToLower(r.str(col)) {
	case "":
		return def, nil
	case "1", "true", "yes", "y", "tak", "t":
		return true, nil
	case "0", "false", "no", "n", "nie", "f":
		return false, nil
	default:
		return false, r.errorf(col, "invalid boolean %q", r.str(col))
	}
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func (r row) time(col string) (time.Time, error) {
	v := r.str(col)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, r.errorf(col, "invalid time %q", v)
}
