package handler

import (
	"net/http"

	"ListableAPI/internal/listable"
)

type ResourceInfo struct {
	Name       string     `json:"name"`
	Table      string     `json:"table"`
	Searchable []string   `json:"searchable"`
	Filters    []string   `json:"filters"`
	Joins      []JoinInfo `json:"joins"`
}

type JoinInfo struct {
	Alias     string   `json:"alias"`
	Table     string   `json:"table"`
	Direction string   `json:"direction"`
	Outputs   []string `json:"outputs"`
}

// ResourcesHandler lists the registered descriptors.
func (h *Handler) ResourcesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET allowed", http.StatusMethodNotAllowed)
		return
	}

	out := make([]ResourceInfo, 0, h.Registry.Len())
	for _, name := range h.Registry.Names() {
		d, _ := h.Registry.Get(name)
		joins := listable.AssignAliases(d.JoinAliasPrefix, d.Joins)
		info := ResourceInfo{
			Name:       name,
			Table:      d.Table,
			Searchable: listable.BuildSearchMap(d.Table, d.SearchColumns(), joins, "").Columns(),
			Filters:    append([]string{}, d.Filters...),
			Joins:      []JoinInfo{},
		}
		for _, j := range joins {
			outputs := make([]string, 0, len(j.Spec.Select))
			for _, sel := range j.Spec.Select {
				outputs = append(outputs, sel.As)
			}
			dir := string(j.Spec.Direction)
			if dir == "" {
				dir = "inner"
			}
			info.Joins = append(info.Joins, JoinInfo{
				Alias:     j.Alias,
				Table:     j.Spec.Table,
				Direction: dir,
				Outputs:   outputs,
			})
		}
		out = append(out, info)
	}
	writeJSON(w, "/api/resources", out)
}
