package itests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type listResponse struct {
	Draw            *int             `json:"draw"`
	Data            []map[string]any `json:"data"`
	RecordsTotal    int64            `json:"recordsTotal"`
	RecordsFiltered int64            `json:"recordsFiltered"`
}

func postJSON(t *testing.T, path string, payload any, out any) int {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, testBaseURL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusOK && out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			t.Fatalf("invalid JSON response: %v; body=%s", err, string(b))
		}
	}
	return resp.StatusCode
}

// Сценарий inventory_log: поиск "bolt" по собственным полям и по item
func Test_List_InventoryLog_Search(t *testing.T) {
	var out listResponse
	status := postJSON(t, "/api/list", map[string]any{
		"resource": "inventory_log",
		"offset":   0,
		"limit":    5,
		"search":   "bolt",
		"draw":     1,
	}, &out)
	if status != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", status)
	}

	if out.RecordsTotal != 10 || out.RecordsFiltered != 3 {
		t.Fatalf("counts: total=%d filtered=%d", out.RecordsTotal, out.RecordsFiltered)
	}
	if out.Draw == nil || *out.Draw != 1 {
		t.Fatalf("draw not echoed")
	}
	var items, barcodes []any
	for _, row := range out.Data {
		items = append(items, row["item"])
		barcodes = append(barcodes, row["barcode"])
	}
	if diff := cmp.Diff([]any{"Hex bolt", "Hex bolt", "Carriage Bolt"}, items); diff != "" {
		t.Fatalf("items (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"B-001", "B-001", "B-004"}, barcodes); diff != "" {
		t.Fatalf("barcodes (-want +got):\n%s", diff)
	}
}

func Test_List_InventoryLog_Paging(t *testing.T) {
	var first, second listResponse
	if status := postJSON(t, "/api/list", map[string]any{"resource": "inventory_log", "limit": 4}, &first); status != http.StatusOK {
		t.Fatalf("page 1: status %d", status)
	}
	if status := postJSON(t, "/api/list", map[string]any{"resource": "inventory_log", "offset": 8, "limit": 4}, &second); status != http.StatusOK {
		t.Fatalf("page 3: status %d", status)
	}
	if len(first.Data) != 4 || len(second.Data) != 2 {
		t.Fatalf("page sizes: %d, %d", len(first.Data), len(second.Data))
	}
	if first.RecordsFiltered != first.RecordsTotal {
		t.Fatalf("empty search must not narrow: %d vs %d", first.RecordsFiltered, first.RecordsTotal)
	}
	for _, row := range append(first.Data, second.Data...) {
		if row["deleted_at"] != nil {
			t.Fatalf("soft-deleted row returned: %v", row)
		}
	}
}

func Test_List_InventoryLog_FiltersAndSorts(t *testing.T) {
	var out listResponse
	status := postJSON(t, "/api/list", map[string]any{
		"resource": "inventory_log",
		"filters":  map[string]any{"type": "out"},
		"sorts":    []string{"quantity DESC"},
	}, &out)
	if status != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", status)
	}
	var qty []any
	for _, row := range out.Data {
		qty = append(qty, row["quantity"])
	}
	if diff := cmp.Diff([]any{float64(9), float64(7), float64(4), float64(3)}, qty); diff != "" {
		t.Fatalf("quantities (-want +got):\n%s", diff)
	}
}

func Test_List_Wildcards_Are_Literal(t *testing.T) {
	for _, term := range []string{"%", "_"} {
		var out listResponse
		if status := postJSON(t, "/api/list", map[string]any{"resource": "inventory_log", "search": term}, &out); status != http.StatusOK {
			t.Fatalf("term %q: status %d", term, status)
		}
		if out.RecordsFiltered != 0 {
			t.Fatalf("term %q matched %d rows", term, out.RecordsFiltered)
		}
	}
}

func Test_List_Rejects_Bad_Input(t *testing.T) {
	cases := map[string]struct {
		payload map[string]any
		status  int
	}{
		"unknown resource": {map[string]any{"resource": "ghost"}, http.StatusNotFound},
		"negative offset":  {map[string]any{"resource": "item", "offset": -1}, http.StatusBadRequest},
		"bad filter":       {map[string]any{"resource": "item", "filters": map[string]any{"name": "x"}}, http.StatusBadRequest},
	}
	for name, tc := range cases {
		if got := postJSON(t, "/api/list", tc.payload, nil); got != tc.status {
			t.Errorf("%s: status %d, want %d", name, got, tc.status)
		}
	}
}
