package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// SaveFile writes ds as a workbook readable by LoadFile.
func SaveFile(ds *Dataset, path string) error {
	f, err := build(ds)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Write streams ds as a workbook to w.
func Write(ds *Dataset, w io.Writer) error {
	f, err := build(ds)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func build(ds *Dataset) (*excelize.File, error) {
	f := excelize.NewFile()

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{SheetSettlements, []interface{}{"settlement_code", "admin_code", "name", "district", "weight"}, nil},
		{SheetStreets, []interface{}{"settlement_code", "street_id", "name"}, nil},
		{SheetBuildings, []interface{}{"settlement_code", "street_id", "number"}, nil},
		{SheetOperators, []interface{}{"operator_id", "name", "slug", "active"}, nil},
		{SheetOffers, []interface{}{"offer_id", "operator_id", "title", "connection_type", "featured", "local", "local_settlements", "priority", "active", "price", "speed_mbps", "created_at"}, nil},
		{SheetCoverage, []interface{}{"operator_id", "settlement_code", "street_id", "number", "capacity", "provenance", "updated_at"}, nil},
		{SheetAntennas, []interface{}{"operator_id", "settlement_code", "street_id", "number", "distance_meters", "measured_at"}, nil},
	}

	for _, s := range ds.Settlements {
		sheets[0].rows = append(sheets[0].rows, []interface{}{s.Code, s.AdminCode, s.Name, s.District, s.Weight})
	}
	for _, s := range ds.Streets {
		sheets[1].rows = append(sheets[1].rows, []interface{}{s.SettlementCode, s.StreetID, s.Name})
	}
	for _, b := range ds.Buildings {
		sheets[2].rows = append(sheets[2].rows, []interface{}{b.SettlementCode, b.StreetID, b.Number})
	}
	for _, op := range ds.Operators {
		sheets[3].rows = append(sheets[3].rows, []interface{}{op.ID, op.Name, op.Slug, strconv.FormatBool(op.Active)})
	}
	for _, o := range ds.Offers {
		sheets[4].rows = append(sheets[4].rows, []interface{}{
			o.ID, o.OperatorID, o.Title, string(o.ConnectionType),
			strconv.FormatBool(o.Featured), strconv.FormatBool(o.Local), strings.Join(o.LocalSettlements, ";"),
			o.Priority, strconv.FormatBool(o.Active), o.Price, o.SpeedMbps, formatTime(o.CreatedAt),
		})
	}
	for _, c := range ds.Coverage {
		sheets[5].rows = append(sheets[5].rows, []interface{}{
			c.OperatorID, c.SettlementCode, c.StreetID, c.Number, c.Capacity, c.Provenance, formatTime(c.UpdatedAt),
		})
	}
	for _, a := range ds.Antennas {
		sheets[6].rows = append(sheets[6].rows, []interface{}{
			a.OperatorID, a.SettlementCode, a.StreetID, a.Number, a.DistanceMeters, formatTime(a.MeasuredAt),
		})
	}

	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		rows := append([][]interface{}{s.header}, s.rows...)
		for i := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(s.name, cell, &rows[i]); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write sheet %s row %d: %w", s.name, i+1, err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
