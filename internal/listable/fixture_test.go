package listable

import (
	"testing"

	"ListableAPI/internal/resource"
)

func inventoryLog(t *testing.T) *resource.Descriptor {
	t.Helper()
	d, err := resource.New(resource.Descriptor{
		Name:          "inventory_log",
		Table:         "inventory_log",
		AllowedFields: []string{"item_id", "quantity", "type"},
		DeletedField:  "deleted_at",
		Filters:       []string{"item_id", "type", "quantity"},
		Joins: []resource.JoinSpec{{
			Table:      "item",
			PrimaryKey: "id",
			Condition:  "item_id",
			Direction:  resource.DirectionLeft,
			Select:     []resource.SelectExpr{{Column: "barcode", As: "barcode"}, {Column: "name", As: "item"}},
			Like:       []string{"barcode", "name"},
		}},
	})
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	return d
}
