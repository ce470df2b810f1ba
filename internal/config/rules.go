package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/changelogen/internal/changelog"
)

// fileRules holds the union-typed settings of one config file. Map order
// matters for prefixes and scopes, so they are read from the YAML node tree
// instead of through koanf.
type fileRules struct {
	Prefixes    changelog.Rules
	HasPrefixes bool
	Scopes      changelog.Rules
	HasScopes   bool

	Repo         string
	RepoDisabled bool
	HasRepo      bool

	// Keys lists the top-level keys in file order.
	Keys []string
}

// ruleObject is the object form of a rule value.
type ruleObject struct {
	Title string `yaml:"title"`
	Repo  string `yaml:"repo"`
	// URL is accepted as an older spelling of Repo.
	URL string `yaml:"url"`
}

// decodeRules reads repo, prefixes and scopes from JSON or YAML data.
func decodeRules(data []byte, filePath string) (*fileRules, error) {
	out := &fileRules{}
	if strings.TrimSpace(string(data)) == "" {
		return out, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		line, column := extractLineColumn(err.Error())
		return nil, &ValidationError{FilePath: filePath, Line: line, Column: column, Message: cleanYAMLError(err.Error())}
	}
	if len(doc.Content) == 0 {
		return out, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(filePath, root, "", "top level must be an object")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		out.Keys = append(out.Keys, key.Value)
		var err error
		switch key.Value {
		case "repo":
			out.HasRepo = true
			out.Repo, out.RepoDisabled, err = decodeRepo(value, filePath)
		case "prefixes":
			out.HasPrefixes = true
			out.Prefixes, err = decodeRuleMap(value, filePath, "prefixes", false)
		case "scopes":
			out.HasScopes = true
			out.Scopes, err = decodeRuleMap(value, filePath, "scopes", true)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeRepo accepts a string or false.
func decodeRepo(n *yaml.Node, filePath string) (repo string, disabled bool, err error) {
	if n.Kind != yaml.ScalarNode {
		return "", false, nodeError(filePath, n, "repo", "must be a string or false")
	}
	switch n.Tag {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return "", false, nodeError(filePath, n, "repo", err.Error())
		}
		if b {
			return "", false, nodeError(filePath, n, "repo", "true is not allowed; use a repository or false")
		}
		return "", true, nil
	case "!!null":
		return "", false, nil
	default:
		return strings.TrimSpace(n.Value), false, nil
	}
}

// decodeRuleMap decodes an ordered mapping of rules. Object values carry a
// repository only at scope level.
func decodeRuleMap(n *yaml.Node, filePath, field string, scope bool) (changelog.Rules, error) {
	if n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(filePath, n, field, "must be an object")
	}

	var rules changelog.Rules
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		rule, err := decodeRule(value, filePath, field+"."+key.Value, scope)
		if err != nil {
			return nil, err
		}
		rules = rules.Set(key.Value, rule)
	}
	return rules, nil
}

func decodeRule(n *yaml.Node, filePath, field string, scope bool) (changelog.Rule, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return changelog.Rule{}, nodeError(filePath, n, field, err.Error())
			}
			if b {
				return changelog.Rule{}, nodeError(filePath, n, field, "true is not allowed; use a title or false")
			}
			return changelog.Suppressed(), nil
		case "!!null":
			return changelog.Titled(""), nil
		default:
			return changelog.Titled(n.Value), nil
		}
	case yaml.MappingNode:
		var obj ruleObject
		if err := n.Decode(&obj); err != nil {
			return changelog.Rule{}, nodeError(filePath, n, field, err.Error())
		}
		if !scope {
			return changelog.TitledOnly(obj.Title), nil
		}
		repo := obj.Repo
		if repo == "" {
			repo = obj.URL
		}
		return changelog.TitledWithRepo(obj.Title, repo), nil
	default:
		return changelog.Rule{}, nodeError(filePath, n, field, "must be a string, an object or false")
	}
}

func nodeError(filePath string, n *yaml.Node, field, message string) *ValidationError {
	if field != "" {
		message = fmt.Sprintf("field '%s': %s", field, message)
	}
	return &ValidationError{
		FilePath: filePath,
		Line:     n.Line,
		Column:   n.Column,
		Message:  message,
	}
}
