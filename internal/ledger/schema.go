package ledger

import "strings"

// SchemaRow is one raw row of the category sheet.
type SchemaRow struct {
	Table       string
	Subcategory string
	LineItem    string
	Active      string
}

// Schema is the three-level category lookup the form's cascading selects
// are driven by. LineItems is keyed by "table|subcategory". It is rebuilt
// from a full sheet scan on every fetch; category edits must show up
// promptly and the sheet is small, so freshness wins over caching.
type Schema struct {
	Tables        []string            `json:"tables"`
	Subcategories map[string][]string `json:"subcategories"`
	LineItems     map[string][]string `json:"lineItems"`
}

// LineItemKey builds the composite key used by Schema.LineItems.
func LineItemKey(table, subcategory string) string {
	return table + "|" + subcategory
}

// BuildSchema accumulates the category lookup from raw rows. Rows whose
// active flag is not a case-insensitive "true" are skipped entirely, so a
// table with no active rows is absent rather than mapped to an empty list.
// Each level keeps first-seen order with duplicates dropped.
func BuildSchema(rows []SchemaRow) Schema {
	schema := Schema{
		Subcategories: make(map[string][]string),
		LineItems:     make(map[string][]string),
	}

	seenTables := make(map[string]bool)
	seenSubs := make(map[string]bool)
	seenItems := make(map[string]bool)

	for _, row := range rows {
		if !isActive(row.Active) {
			continue
		}

		if !seenTables[row.Table] {
			seenTables[row.Table] = true
			schema.Tables = append(schema.Tables, row.Table)
		}

		subKey := LineItemKey(row.Table, row.Subcategory)
		if !seenSubs[subKey] {
			seenSubs[subKey] = true
			schema.Subcategories[row.Table] = append(schema.Subcategories[row.Table], row.Subcategory)
		}

		itemKey := subKey + "|" + row.LineItem
		if !seenItems[itemKey] {
			seenItems[itemKey] = true
			schema.LineItems[subKey] = append(schema.LineItems[subKey], row.LineItem)
		}
	}

	return schema
}

func isActive(flag string) bool {
	return strings.EqualFold(flag, "TRUE")
}
