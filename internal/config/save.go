package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/arcroute/internal/alias"
	"github.com/zjrosen/arcroute/internal/log"
)

// SaveAliases replaces the aliases section of the config file.
// Comments and formatting in other sections are preserved by editing the
// yaml.Node tree instead of re-marshaling a struct.
func SaveAliases(configPath string, aliases alias.Table) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	aliasesNode := buildAliasesNode(aliases)
	if err := setTopLevelKey(&doc, "aliases", aliasesNode); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		return err
	}
	log.Info(log.CatConfig, "Saved aliases", "path", configPath, "count", len(aliases))
	return nil
}

// setTopLevelKey replaces key in the document's root mapping, or appends it.
func setTopLevelKey(doc *yaml.Node, key string, value *yaml.Node) error {
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}

	if doc.Kind == 0 {
		*doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{Kind: yaml.MappingNode, Content: []*yaml.Node{keyNode, value}},
			},
		}
		return nil
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fmt.Errorf("config root is not a document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config root must be a mapping, got %s", nodeKindName(root.Kind))
	}

	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			// Keep comments attached to the old value.
			value.HeadComment = root.Content[i+1].HeadComment
			value.FootComment = root.Content[i+1].FootComment
			root.Content[i+1] = value
			return nil
		}
	}
	root.Content = append(root.Content, keyNode, value)
	return nil
}

// buildAliasesNode renders aliases as a block mapping of flow sequences,
// sorted by name so repeated saves produce stable diffs.
func buildAliasesNode(aliases alias.Table) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range aliases.Names() {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, token := range aliases[name] {
			item := &yaml.Node{Kind: yaml.ScalarNode, Value: token}
			if len(token) > 0 && token[0] == '!' {
				// "!" starts a YAML tag when unquoted.
				item.Style = yaml.DoubleQuotedStyle
			}
			seq.Content = append(seq.Content, item)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, seq)
	}
	if len(node.Content) == 0 {
		node.Style = yaml.FlowStyle
	}
	return node
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind %d", k)
	}
}

// writeAtomic writes data to a temp file in the target directory, then
// renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".arc.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// AliasFile reads and writes the aliases section of one config file.
type AliasFile struct {
	Path string
}

var _ alias.Store = AliasFile{}

// aliasEntry accepts either a token list or a single string.
type aliasEntry []string

func (e *aliasEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*e = aliasEntry{node.Value}
		return nil
	case yaml.SequenceNode:
		var tokens []string
		if err := node.Decode(&tokens); err != nil {
			return err
		}
		*e = tokens
		return nil
	default:
		return fmt.Errorf("line %d: alias must be a string or a list, got %s", node.Line, nodeKindName(node.Kind))
	}
}

// LoadAliases reads the aliases section. A missing file is an empty table.
func (f AliasFile) LoadAliases(context.Context) (alias.Table, error) {
	sections, err := ReadSections(f.Path)
	if err != nil {
		return nil, err
	}

	table := make(alias.Table, len(sections.Aliases))
	for name, tokens := range sections.Aliases {
		table[name] = alias.Entry(tokens)
	}
	return table, nil
}

// SaveAliases persists table to the file.
func (f AliasFile) SaveAliases(_ context.Context, table alias.Table) error {
	return SaveAliases(f.Path, table)
}
