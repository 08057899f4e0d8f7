//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "fulfillment-api"
	ConsumerName = "customer-portal"

	StateOrdersBaseline = "orders baseline"
	StateOrderExists    = "order with id ord-101 exists"
	StateOrderMissing   = "no order with id ord-404"
)

const (
	ExistingOrderID = "ord-101"
	MissingOrderID  = "ord-404"

	ExampleCustomerID = "cust-pact"
	ExampleKitSKU     = "KIT-CLASSIC"
	ExamplePriceCents = int64(4500)
	ExamplePages      = 3
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the customer portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload provides stable checkout data for pact interactions.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"customer_id": ExampleCustomerID,
		"price_cents": ExamplePriceCents,
		"pages":       ExamplePages,
		"kit_sku":     ExampleKitSKU,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
