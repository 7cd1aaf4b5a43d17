package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ListableAPI/internal/listable"

	"github.com/spf13/cobra"
)

var (
	listOffset  int
	listLimit   int
	listSearch  string
	listFilters []string
	listSorts   []string
)

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "Run one listing and print it as JSON",
	Example: `  # First page of inventory matching "bolt"
  listable list inventory_log --limit 5 --search bolt

  # Outgoing movements, largest first
  listable list inventory_log --filter type=out --sort "quantity DESC"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseFilters(listFilters)
		if err != nil {
			return err
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		d, ok := reg.Get(args[0])
		if !ok {
			return fmt.Errorf("resource %q not found (have %s)", args[0], strings.Join(reg.Names(), ", "))
		}
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		e := listable.New(d, store,
			listable.WithArguments(listable.DeclarativeArguments(d, store.Dialect())),
			listable.WithParallel(cfg.List.Parallel),
		)
		res, err := e.GetList(cmd.Context(), listOffset, listLimit, listSearch, listable.Arguments{
			Filters: filters,
			Sorts:   listSorts,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "rows to skip")
	listCmd.Flags().IntVar(&listLimit, "limit", 25, "rows to return")
	listCmd.Flags().StringVar(&listSearch, "search", "", "search term")
	listCmd.Flags().StringArrayVar(&listFilters, "filter", nil, "filter as column[__op]=value (repeatable)")
	listCmd.Flags().StringArrayVar(&listSorts, "sort", nil, `sort as "column [ASC|DESC]" (repeatable)`)
}

// parseFilters turns k=v pairs into filter arguments. Integers are passed
// typed, "null" takes a bool and "in" values are comma separated.
func parseFilters(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("filter %q: expected key=value", p)
		}
		_, op, _ := strings.Cut(key, "__")
		switch op {
		case "in":
			var vals []any
			for _, v := range strings.Split(raw, ",") {
				vals = append(vals, scalar(v))
			}
			out[key] = vals
		case "null":
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("filter %q: expected true or false", p)
			}
			out[key] = b
		case "start", "end", "cnt":
			out[key] = raw
		default:
			out[key] = scalar(raw)
		}
	}
	return out, nil
}

// scalar keeps integers numeric; everything else is matched as text.
func scalar(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
