package sheets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/vistara-fest/backend/pkg/queue"
)

// Column layout of the Registrations tab.
const (
	colID = iota
	colCreatedAt
	colEvent
	colType
	colName
	colTeam
	colTeamSize
	colEmail
	colPhone
	colCollege
	colYear
	colPaymentProof
	colStatus
)

// Status values written to the status column.
const (
	StatusPending  = "Pending"
	StatusVerified = "Verified"
)

// sheetWriter is the part of Client the exporter writes through.
type sheetWriter interface {
	readAll(ctx context.Context, sheet string) ([][]interface{}, error)
	appendRow(ctx context.Context, sheet string, row []interface{}) error
	updateCell(ctx context.Context, cell string, value interface{}) error
}

// Exporter appends registrations and flips their status once verified.
type Exporter struct {
	c     sheetWriter
	sheet string
}

// NewExporter writes to the Registrations tab of the client's spreadsheet.
func NewExporter(c *Client) *Exporter {
	return &Exporter{c: c, sheet: SheetRegistrations}
}

// Row renders a registration as a sheet row.
func Row(p queue.RegistrationPayload) []interface{} {
	row := make([]interface{}, colStatus+1)
	row[colID] = p.RegistrationID
	row[colCreatedAt] = p.CreatedAt.UTC().Format(time.RFC3339)
	row[colEvent] = p.EventName
	row[colType] = p.ParticipationType
	row[colName] = p.Name
	row[colTeam] = p.TeamName
	row[colTeamSize] = strconv.Itoa(p.TeamSize)
	row[colEmail] = p.Email
	row[colPhone] = p.Phone
	row[colCollege] = p.College
	row[colYear] = p.Year
	row[colPaymentProof] = p.PaymentProofURL
	row[colStatus] = StatusPending
	return row
}

// AppendRegistration adds a pending row unless the registration already has one.
// Retried jobs can arrive after MarkVerified has written the row.
func (e *Exporter) AppendRegistration(ctx context.Context, p queue.RegistrationPayload) error {
	rows, err := e.c.readAll(ctx, e.sheet)
	if err != nil {
		return fmt.Errorf("read registrations sheet: %w", err)
	}
	if FindRow(rows, p.RegistrationID) != 0 {
		return nil
	}
	if err := e.c.appendRow(ctx, e.sheet, Row(p)); err != nil {
		return fmt.Errorf("append registration row: %w", err)
	}
	return nil
}

// MarkVerified sets the status cell of the row holding registrationID.
// A missing row is appended so the sheet ends up complete either way.
func (e *Exporter) MarkVerified(ctx context.Context, p queue.RegistrationPayload) error {
	rows, err := e.c.readAll(ctx, e.sheet)
	if err != nil {
		return fmt.Errorf("read registrations sheet: %w", err)
	}
	n := FindRow(rows, p.RegistrationID)
	if n == 0 {
		row := Row(p)
		row[colStatus] = StatusVerified
		if err := e.c.appendRow(ctx, e.sheet, row); err != nil {
			return fmt.Errorf("append verified row: %w", err)
		}
		return nil
	}
	cell := fmt.Sprintf("%s!%s%d", e.sheet, columnLetter(colStatus), n)
	if err := e.c.updateCell(ctx, cell, StatusVerified); err != nil {
		return fmt.Errorf("update status cell: %w", err)
	}
	return nil
}

// FindRow returns the 1-based sheet row whose id column equals id, or 0.
func FindRow(rows [][]interface{}, id string) int {
	for i, r := range rows {
		if get(r, colID) == id {
			return i + 1
		}
	}
	return 0
}

func get(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return fmt.Sprint(row[idx])
}

func columnLetter(idx int) string {
	return string(rune('A' + idx))
}
