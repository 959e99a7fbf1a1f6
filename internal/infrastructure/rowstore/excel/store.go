package excel

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/travelops/traveler-registry/internal/core/domain"
)

// Store is the spreadsheet row-store: a workbook whose first sheet holds one
// traveler per row under a header row, with login credentials on a separate
// sheet. The workbook is reopened per operation under a mutex; identifier
// assignment is read-then-write and therefore safe only under the
// single-writer assumption this service runs with.
type Store struct {
	mu        sync.Mutex
	path      string
	dataSheet string
	credSheet string
}

type Options struct {
	// DataSheet overrides the default of the workbook's first sheet.
	DataSheet string
	// CredSheet defaults to "cred".
	CredSheet string
}

func New(path string, opts Options) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path is required")
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	credSheet := opts.CredSheet
	if credSheet == "" {
		credSheet = "cred"
	}
	return &Store{path: path, dataSheet: opts.DataSheet, credSheet: credSheet}, nil
}

func (s *Store) ListHeaders(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, sheet, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return trimHeaders(rows[0]), nil
}

func (s *Store) ListRows(_ context.Context) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, sheet, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := trimHeaders(rows[0])
	out := make([]domain.Record, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if allEmpty(cells) {
			continue
		}
		rec := make(domain.Record, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				rec[h] = cells[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// AppendRow writes the record as a new row, assigning the next serial
// number (1 + max existing) and returning it.
func (s *Store) AppendRow(_ context.Context, rec domain.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, sheet, err := s.open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return 0, domain.ErrNoSchema
	}
	headers := trimHeaders(rows[0])
	idCol := identifierColumn(headers)
	if idCol < 0 {
		return 0, fmt.Errorf("sheet %q has no %q column", sheet, domain.IdentifierHeader)
	}

	maxSl := 0
	for _, cells := range rows[1:] {
		if idCol >= len(cells) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(cells[idCol])); err == nil && n > maxSl {
			maxSl = n
		}
	}
	id := maxSl + 1

	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		if i == idCol {
			cells[i] = strconv.Itoa(id)
			continue
		}
		cells[i] = rec[h]
	}

	target, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return 0, fmt.Errorf("target cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, target, &cells); err != nil {
		return 0, fmt.Errorf("write row: %w", err)
	}
	if err := f.Save(); err != nil {
		return 0, fmt.Errorf("save workbook: %w", err)
	}
	return id, nil
}

// UpdateRow sets only the given cells on the row whose serial number equals
// id. The identifier column itself is never written.
func (s *Store) UpdateRow(_ context.Context, id string, partial domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, sheet, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return domain.ErrNoSchema
	}
	headers := trimHeaders(rows[0])
	idCol := identifierColumn(headers)
	if idCol < 0 {
		return fmt.Errorf("sheet %q has no %q column", sheet, domain.IdentifierHeader)
	}

	rowNum := 0 // 1-based sheet row
	for i, cells := range rows[1:] {
		if idCol < len(cells) && strings.TrimSpace(cells[idCol]) == id {
			rowNum = i + 2
			break
		}
	}
	if rowNum == 0 {
		return domain.WrapError(domain.ErrNotFound, "update row", fmt.Errorf("serial %s", id))
	}

	for header, value := range partial {
		col := -1
		for i, h := range headers {
			if h == header {
				col = i
				break
			}
		}
		if col < 0 || col == idCol {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("target cell: %w", err)
		}
		if err := f.SetCellStr(sheet, cell, value); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// ListCredentials reads the credential sheet. Header matching is
// case-insensitive ("username", "password", "Name").
func (s *Store) ListCredentials(_ context.Context) ([]domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.credSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.credSheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	userCol, passCol, nameCol := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "username":
			userCol = i
		case "password":
			passCol = i
		case "name":
			nameCol = i
		}
	}
	if userCol < 0 || passCol < 0 {
		return nil, fmt.Errorf("sheet %q is missing username/password columns", s.credSheet)
	}

	var out []domain.Credential
	for _, cells := range rows[1:] {
		c := domain.Credential{
			Username: cellAt(cells, userCol),
			Password: cellAt(cells, passCol),
			Name:     cellAt(cells, nameCol),
		}
		if c.Username == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) open() (*excelize.File, string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, "", fmt.Errorf("open workbook: %w", err)
	}
	sheet := s.dataSheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			f.Close()
			return nil, "", fmt.Errorf("workbook has no sheets")
		}
		sheet = list[0]
	}
	return f, sheet, nil
}

func identifierColumn(headers []string) int {
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), "sl no") {
			return i
		}
	}
	return -1
}

func trimHeaders(raw []string) []string {
	end := len(raw)
	for end > 0 && strings.TrimSpace(raw[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	for i := 0; i < end; i++ {
		out[i] = strings.TrimSpace(raw[i])
	}
	return out
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
