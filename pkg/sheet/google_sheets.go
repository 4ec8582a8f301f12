package sheet

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// valueInputOption keeps timestamps as plain strings instead of letting Sheets parse them into dates
const valueInputOption = "RAW"

// GoogleSheetsStore is a Store backed by a single spreadsheet with one sheet per collection
type GoogleSheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewGoogleSheetsStore authenticates with a service account JSON key and builds a GoogleSheetsStore
func NewGoogleSheetsStore(ctx context.Context, spreadsheetID string, credentialsJSON []byte) (*GoogleSheetsStore, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, err
	}

	return &GoogleSheetsStore{service: service, spreadsheetID: spreadsheetID}, nil
}

// ReadRange reads all data rows below the header
func (s *GoogleSheetsStore) ReadRange(ctx context.Context, collection Collection) ([]Row, error) {
	response, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, dataRange(collection)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, unavailable(err, "reading %s", collection)
	}

	rows := make([]Row, len(response.Values))
	for i, values := range response.Values {
		row := make(Row, len(values))
		for j, value := range values {
			row[j] = fmt.Sprint(value)
		}
		rows[i] = row
	}

	return rows, nil
}

// Append appends a row after the last row of the sheet's table
func (s *GoogleSheetsStore) Append(ctx context.Context, collection Collection, row Row) error {
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, columnsRange(collection), &sheets.ValueRange{Values: [][]interface{}{toValues(row)}}).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return unavailable(err, "appending to %s", collection)
	}

	return nil
}

// UpdateCell writes a single cell
func (s *GoogleSheetsStore) UpdateCell(ctx context.Context, collection Collection, position int, column int, value string) error {
	cell := fmt.Sprintf("%s!%s%d", collection, ColumnName(column), position)

	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, cell, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return unavailable(err, "updating %s", cell)
	}

	return nil
}

// ClearRow clears all columns of a row
func (s *GoogleSheetsStore) ClearRow(ctx context.Context, collection Collection, position int) error {
	_, err := s.service.Spreadsheets.Values.
		Clear(s.spreadsheetID, RowRange(collection, position), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return unavailable(err, "clearing %s row %d", collection, position)
	}

	return nil
}

// ColumnName converts a zero based column index into a spreadsheet column letter
func ColumnName(column int) string {
	name := ""
	for column >= 0 {
		name = string(rune('A'+column%26)) + name
		column = column/26 - 1
	}
	return name
}

// RowRange is the A1 range of a single row, for example Tasks!A5:G5
func RowRange(collection Collection, position int) string {
	last := ColumnName(collection.Width() - 1)
	return fmt.Sprintf("%s!A%d:%s%d", collection, position, last, position)
}

func dataRange(collection Collection) string {
	return fmt.Sprintf("%s!A%d:%s", collection, firstDataPosition, ColumnName(collection.Width()-1))
}

func columnsRange(collection Collection) string {
	last := ColumnName(collection.Width() - 1)
	return fmt.Sprintf("%s!A:%s", collection, last)
}

func toValues(row Row) []interface{} {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	return values
}
