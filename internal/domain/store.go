package domain

import "context"

// Tx is the set of repositories bound to one unit of work.
type Tx interface {
	Devices() DeviceRepository
	Maintenance() MaintenanceRepository
	History() HistoryRepository
}

// Store is the persistent backend. Repositories reached through the Store
// directly auto-commit each call; InTx runs fn against repositories bound to
// a single transaction that commits iff fn returns nil.
type Store interface {
	Tx
	InTx(ctx context.Context, fn func(Tx) error) error
}
