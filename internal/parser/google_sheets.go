package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Beka01247/brewline/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const DefaultRange = "A:G"

type GoogleSheetsParser struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(cfg Config) (*GoogleSheetsParser, error) {
	ctx := context.Background()

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetsParser{
		service: service,
	}, nil
}

// ParseMenu reads menu items from a spreadsheet laid out as
// title | price | description | image | allergens | available, grouped under
// single-cell category rows. The first row is a header.
func (p *GoogleSheetsParser) ParseMenu(ctx context.Context, spreadsheetID, readRange string) ([]domain.MenuItem, error) {
	if readRange == "" {
		readRange = DefaultRange
	}

	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	return ParseRows(resp.Values)
}

// ParseRows converts raw sheet rows into menu items. Rows without a valid
// price are reported together.
func ParseRows(rows [][]interface{}) ([]domain.MenuItem, error) {
	items := []domain.MenuItem{}
	var bad []string
	var currentCategory string

	// skip header
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || cell(row, 0) == "" {
			continue
		}

		// category row
		if len(row) == 1 || (cell(row, 1) == "" && cell(row, 2) == "") {
			currentCategory = strings.ToLower(cell(row, 0))
			continue
		}

		price, err := strconv.ParseFloat(cell(row, 1), 64)
		if err != nil || price < 0 {
			bad = append(bad, fmt.Sprintf("row %d: invalid price %q", i+1, cell(row, 1)))
			continue
		}

		item := domain.MenuItem{
			Title:       cell(row, 0),
			Price:       price,
			Category:    currentCategory,
			Description: cell(row, 2),
			Image:       cell(row, 3),
			Allergens:   splitList(cell(row, 4)),
			Available:   true,
		}
		if v := cell(row, 5); v != "" {
			item.Available = strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
		}

		items = append(items, item)
	}

	if len(bad) > 0 {
		return items, fmt.Errorf("failed to parse %d rows: %s", len(bad), strings.Join(bad, "; "))
	}

	return items, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
