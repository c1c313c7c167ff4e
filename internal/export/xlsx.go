package export

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"quartermaster/internal/domain"
)

const dateLayout = "2006-01-02"

// DevicesXLSX renders the device inventory as a spreadsheet.
func DevicesXLSX(devices []*domain.Device) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "devices"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Serial Number", "Name", "Type", "Status", "Assignee", "Department", "Location", "Acquired", "Notes"}
	writeHeaderRow(f, sheet, headers)

	for i, d := range devices {
		row := i + 2
		setRow(f, sheet, row,
			d.SerialNumber, d.Name, d.Type, string(d.Status), d.Assignee,
			d.Department, d.Location, d.AcquiredOn.Format(dateLayout), d.Notes)
	}

	_ = f.SetColWidth(sheet, "A", "I", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write devices xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// MaintenanceXLSX renders maintenance records with their device's name and
// serial resolved from devices.
func MaintenanceXLSX(records []*domain.MaintenanceRecord, devices map[uuid.UUID]*domain.Device) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "maintenance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Reference", "Device", "Serial Number", "Opened", "Issue", "Status", "Technician", "Resolution", "Completed", "Cost"}
	writeHeaderRow(f, sheet, headers)

	for i, m := range records {
		deviceName, serial := "", ""
		if d, ok := devices[m.DeviceID]; ok {
			deviceName, serial = d.Name, d.SerialNumber
		}
		completed := ""
		if m.CompletedOn != nil {
			completed = m.CompletedOn.Format(dateLayout)
		}
		var cost any
		if m.Cost != nil {
			cost = *m.Cost
		} else {
			cost = ""
		}
		row := i + 2
		setRow(f, sheet, row,
			m.Reference, deviceName, serial, m.OpenedOn.Format(dateLayout),
			m.Issue, string(m.Status), m.Technician, m.Resolution, completed, cost)
	}

	_ = f.SetColWidth(sheet, "A", "J", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write maintenance xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// OwnershipXLSX renders the ownership ledger.
func OwnershipXLSX(changes []*domain.OwnershipChange, devices map[uuid.UUID]*domain.Device) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "ownership"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Device", "Serial Number", "Previous Assignee", "New Assignee", "Changed By", "Changed At"}
	writeHeaderRow(f, sheet, headers)

	for i, c := range changes {
		deviceName, serial := "", ""
		if d, ok := devices[c.DeviceID]; ok {
			deviceName, serial = d.Name, d.SerialNumber
		}
		row := i + 2
		setRow(f, sheet, row,
			deviceName, serial, c.PreviousAssignee, c.NewAssignee, c.Actor,
			c.CreatedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheet, "A", "F", 22)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write ownership xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
