package assignment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/model"
)

// ImportRow is one line of a bulk assignment import, already split into
// fields. Spreadsheet parsing itself lives with the caller; ImportCSV below
// covers the plain-CSV case.
type ImportRow struct {
	StoreID     string
	DeviceType  string // id or name
	DeviceMAC   string
	POSMAC      string
	Orientation string // Landscape | Portrait | Both
}

// ImportResult reports a finished batch. Valid rows are persisted even when
// others fail; Unresolved lists every excluded row with its reason.
type ImportResult struct {
	BatchID    string
	Imported   []model.Assignment
	Unresolved []*errs.ImportRowError
}

// orientationMap translates spreadsheet orientations to device ones.
var orientationMap = map[string]string{
	"landscape": model.OrientationHorizontal,
	"portrait":  model.OrientationVertical,
	"both":      model.OrientationBoth,
}

// Import persists every resolvable row and collects the rest. Never
// all-or-nothing: row k failing leaves rows 1..k-1 committed.
func (s *Service) Import(rows []ImportRow) (ImportResult, error) {
	result := ImportResult{BatchID: uuid.NewString()}

	for i, row := range rows {
		rowNum := i + 1
		a, err := s.resolveRow(row)
		if err != nil {
			result.Unresolved = append(result.Unresolved, &errs.ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		saved, err := s.Put(a)
		if err != nil {
			result.Unresolved = append(result.Unresolved, &errs.ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		result.Imported = append(result.Imported, saved)
	}

	log.Info().
		Str("batch", result.BatchID).
		Int("imported", len(result.Imported)).
		Int("unresolved", len(result.Unresolved)).
		Msg("assignment import finished")
	return result, nil
}

// resolveRow turns one import row into an assignment or explains why it
// can't.
func (s *Service) resolveRow(row ImportRow) (model.Assignment, error) {
	storeID := strings.TrimSpace(row.StoreID)
	if storeID == "" {
		return model.Assignment{}, fmt.Errorf("missing store id")
	}
	mac := normalizeMAC(row.DeviceMAC)
	if mac == "" {
		return model.Assignment{}, fmt.Errorf("missing device MAC")
	}

	dt, err := s.store.FindDeviceType(row.DeviceType)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("unresolvable device type %q", row.DeviceType)
	}

	orientation, ok := orientationMap[strings.ToLower(strings.TrimSpace(row.Orientation))]
	if !ok {
		return model.Assignment{}, fmt.Errorf("unrecognized orientation %q", row.Orientation)
	}

	a := model.Assignment{
		ID:           mac,
		StoreID:      storeID,
		DeviceTypeID: dt.ID,
		DeviceMAC:    mac,
		Orientation:  orientation,
		Active:       true,
	}
	if pos := normalizeMAC(row.POSMAC); pos != "" {
		a.POSMAC = &pos
	}
	return a, nil
}

// ImportCSV reads rows of (Store ID, Device Type, Device MAC, POS MAC,
// Orientation) and runs Import. The first line is assumed to be a header.
func (s *Service) ImportCSV(r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read import csv: %w", err)
	}
	if len(records) > 0 {
		records = records[1:]
	}

	rows := make([]ImportRow, 0, len(records))
	for _, rec := range records {
		row := ImportRow{}
		if len(rec) > 0 {
			row.StoreID = rec[0]
		}
		if len(rec) > 1 {
			row.DeviceType = rec[1]
		}
		if len(rec) > 2 {
			row.DeviceMAC = rec[2]
		}
		if len(rec) > 3 {
			row.POSMAC = rec[3]
		}
		if len(rec) > 4 {
			row.Orientation = rec[4]
		}
		rows = append(rows, row)
	}
	return s.Import(rows)
}
