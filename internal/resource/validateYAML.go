package resource

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Allowed keys per YAML object
var allowedDescriptorKeys = map[string]bool{
	"table":              true,
	"primary_key":        true,
	"allowed_fields":     true,
	"searchable_columns": true,
	"deleted_field":      true,
	"join_alias_prefix":  true,
	"joins":              true,
	"filters":            true,
	"order":              true,
}

var allowedJoinKeys = map[string]bool{
	"table":       true,
	"primary_key": true,
	"condition":   true,
	"direction":   true,
	"select":      true,
	"like":        true,
}

var allowedSelectKeys = map[string]bool{
	"column": true,
	"as":     true,
}

// validateYAMLNode rejects unknown keys before decoding, so a typo such as
// "serchable_columns" fails at load instead of silently disabling search.
func validateYAMLNode(node *yaml.Node, context string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := validateYAMLNode(child, context); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		allowed := allowedKeysFor(context)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			val := node.Content[i+1]
			if allowed != nil && !allowed[key.Value] {
				return fmt.Errorf("line %d: unknown key %q in %s", key.Line, key.Value, context)
			}
			switch {
			case context == "descriptor" && key.Value == "joins":
				if err := validateSequence(val, "join"); err != nil {
					return err
				}
			case context == "join" && key.Value == "select":
				if err := validateSequence(val, "select"); err != nil {
					return err
				}
			}
		}
		return nil
	case yaml.ScalarNode:
		if context == "descriptor" {
			return fmt.Errorf("line %d: descriptor must be a mapping", node.Line)
		}
		return nil
	}
	return nil
}

func validateSequence(node *yaml.Node, itemContext string) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: %s list expected", node.Line, itemContext)
	}
	for _, item := range node.Content {
		if err := validateYAMLNode(item, itemContext); err != nil {
			return err
		}
	}
	return nil
}

func allowedKeysFor(context string) map[string]bool {
	switch context {
	case "descriptor":
		return allowedDescriptorKeys
	case "join":
		return allowedJoinKeys
	case "select":
		return allowedSelectKeys
	}
	return nil
}
