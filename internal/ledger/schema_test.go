package ledger

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildSchema(t *testing.T) {
	rows := []SchemaRow{
		{Table: "Home", Subcategory: "Utilities", LineItem: "Hydro", Active: "TRUE"},
		{Table: "Home", Subcategory: "Utilities", LineItem: "Internet", Active: "true"},
		{Table: "Home", Subcategory: "Rent", LineItem: "Rent", Active: "True"},
		{Table: "Food", Subcategory: "Groceries", LineItem: "Supermarket", Active: "TRUE"},
		// Duplicate path should not appear twice
		{Table: "Food", Subcategory: "Groceries", LineItem: "Supermarket", Active: "TRUE"},
		// Inactive rows are skipped entirely
		{Table: "Travel", Subcategory: "Flights", LineItem: "Airfare", Active: "FALSE"},
		{Table: "Travel", Subcategory: "Hotels", LineItem: "Hotel", Active: ""},
		{Table: "Food", Subcategory: "Restaurants", LineItem: "Dining", Active: "no"},
	}

	got := BuildSchema(rows)

	want := Schema{
		Tables: []string{"Home", "Food"},
		Subcategories: map[string][]string{
			"Home": {"Utilities", "Rent"},
			"Food": {"Groceries"},
		},
		LineItems: map[string][]string{
			"Home|Utilities": {"Hydro", "Internet"},
			"Home|Rent":      {"Rent"},
			"Food|Groceries": {"Supermarket"},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildSchema() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSchema_InactiveOnlyPathsAbsent(t *testing.T) {
	rows := []SchemaRow{
		{Table: "Home", Subcategory: "Utilities", LineItem: "Hydro", Active: "TRUE"},
		{Table: "Travel", Subcategory: "Flights", LineItem: "Airfare", Active: "FALSE"},
	}

	got := BuildSchema(rows)

	for _, table := range got.Tables {
		if table == "Travel" {
			t.Error("inactive-only table should not appear in Tables")
		}
	}
	if _, ok := got.Subcategories["Travel"]; ok {
		t.Error("inactive-only table should be absent from Subcategories, not empty")
	}
	if _, ok := got.LineItems["Travel|Flights"]; ok {
		t.Error("inactive-only path should be absent from LineItems, not empty")
	}
}

func TestBuildSchema_Empty(t *testing.T) {
	got := BuildSchema(nil)

	if len(got.Tables) != 0 {
		t.Errorf("expected no tables, got %v", got.Tables)
	}
	if len(got.Subcategories) != 0 || len(got.LineItems) != 0 {
		t.Errorf("expected empty maps, got %v / %v", got.Subcategories, got.LineItems)
	}
}
