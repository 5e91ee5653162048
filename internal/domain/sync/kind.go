package sync

import "fmt"

// EntityKind identifies a syncable record type
type EntityKind string

const (
	KindCustomers EntityKind = "customers"
	KindProducts  EntityKind = "products"
	KindOrders    EntityKind = "orders"
)

// SyncOrder is the fixed sequence a full run walks. Customers and
// products go first so most orders resolve their references, though
// correctness never depends on it.
var SyncOrder = []EntityKind{KindCustomers, KindProducts, KindOrders}

// ParseKind validates a kind string
func ParseKind(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case KindCustomers, KindProducts, KindOrders:
		return EntityKind(s), nil
	}
	return "", fmt.Errorf("sync: unknown entity kind %q", s)
}

// String returns the kind as its wire name
func (k EntityKind) String() string {
	return string(k)
}
