package domain

// ReportSummary aggregates the dashboard/report numbers.
type ReportSummary struct {
	TotalDevices        int                       `json:"total_devices"`
	DevicesByStatus     map[DeviceStatus]int      `json:"devices_by_status"`
	DevicesByType       map[string]int            `json:"devices_by_type"`
	TotalMaintenance    int                       `json:"total_maintenance"`
	MaintenanceByStatus map[MaintenanceStatus]int `json:"maintenance_by_status"`
	AvgCompletionDays   float64                   `json:"avg_completion_days"`
}
