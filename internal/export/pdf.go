package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"quartermaster/internal/domain"
)

// MaintenanceReportPDF renders a printable report for a single maintenance
// record.
func MaintenanceReportPDF(record *domain.MaintenanceRecord, device *domain.Device, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Maintenance Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, value, "", "L", false)
	}

	line("Reference", record.Reference)
	line("Device", device.Name)
	line("Serial Number", device.SerialNumber)
	line("Location", device.Location)
	line("Opened", record.OpenedOn.Format(dateLayout))
	line("Status", string(record.Status))
	line("Technician", record.Technician)
	line("Issue", record.Issue)
	if record.Resolution != "" {
		line("Resolution", record.Resolution)
	}
	if record.CompletedOn != nil {
		line("Completed", record.CompletedOn.Format(dateLayout))
	}
	if record.Cost != nil {
		line("Cost", fmt.Sprintf("%.2f", *record.Cost))
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s", now.Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write maintenance pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// SummaryPDF renders the report summary.
func SummaryPDF(summary *domain.ReportSummary, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Inventory Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Devices: %d", summary.TotalDevices))
	pdf.Ln(5)
	for _, status := range []domain.DeviceStatus{
		domain.DeviceStatusActive, domain.DeviceStatusInMaintenance, domain.DeviceStatusInactive,
	} {
		pdf.Cell(0, 6, fmt.Sprintf("  %s: %d", status, summary.DevicesByStatus[status]))
		pdf.Ln(5)
	}

	pdf.Ln(3)
	pdf.Cell(0, 6, fmt.Sprintf("Maintenance records: %d", summary.TotalMaintenance))
	pdf.Ln(5)
	for _, status := range []domain.MaintenanceStatus{
		domain.MaintenanceStatusPending, domain.MaintenanceStatusInProgress, domain.MaintenanceStatusCompleted,
	} {
		pdf.Cell(0, 6, fmt.Sprintf("  %s: %d", status, summary.MaintenanceByStatus[status]))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Average days to complete: %.1f", summary.AvgCompletionDays))
	pdf.Ln(8)

	// device types table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 6, "Device Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Count", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)

	types := make([]string, 0, len(summary.DevicesByType))
	for t := range summary.DevicesByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		pdf.CellFormat(90, 6, t, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", summary.DevicesByType[t]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s", now.Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}
