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
	ProviderName = "trade-api"
	ConsumerName = "trade-portal"

	StateOrdersBaseline = "no orders exist"
	StateOrderExists    = "purchase order ORDER-20240612-100000 exists for user 7"
)

const UserID int64 = 7

const (
	Token          = "pact-token"
	OrderID        = "ORDER-20240612-100000"
	OrderDate      = "2024-06-12T10:00:00"
	MissingOrderID = "ORDER-19990101-000000"
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

// PactFile returns the pact file path for the trade portal consumer.
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

// ExampleOrderPayload is the order seeded by StateOrderExists as the API renders it.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"id":              OrderID,
		"orderDate":       OrderDate,
		"userId":          UserID,
		"invoice":         "PURCHASE",
		"itemType":        "GOLD_9999",
		"quantity":        1.5,
		"shippingAddress": "1 Bullion Lane",
		"status":          "ORDER_COMPLETED",
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
