// Package wsconfig loads, reconciles and persists the workspace
// configuration document (dendron.yml).
package wsconfig

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"

	"github.com/ironyman/dendron/internal/vault"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	keyWorkspace     = "workspace"
	keyVaults        = "vaults"
	keyWorkspaces    = "workspaces"
	keyDev           = "dev"
	keySelfContained = "enableSelfContainedVaults"
	keyVersion       = "version"

	// currentVersion is written into documents created from scratch.
	currentVersion = 5
)

// Document is a parsed workspace config. The YAML node tree is kept so
// unrelated settings, key order and comments survive a rewrite.
type Document struct {
	root   *yaml.Node
	loaded []vault.Vault
}

// NewDocument returns an empty document in the current format.
func NewDocument() *Document {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setKey(mapping, keyVersion, scalar(fmt.Sprint(currentVersion), "!!int"))
	return &Document{root: &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}}
}

// Parse builds a document from raw YAML. Empty input gives NewDocument.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return NewDocument(), nil
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document root: %w", ErrNotAMapping)
	}

	doc := &Document{root: &root}
	cfg, err := doc.Config()
	if err != nil {
		return nil, err
	}
	doc.loaded = cfg.Vaults
	return doc, nil
}

// Config decodes the managed settings from the document.
func (d *Document) Config() (Config, error) {
	cfg := Config{Workspaces: map[string]WorkspaceEntry{}}
	section := d.section(false)

	if section != nil {
		if seq := lookup(section, keyVaults); seq != nil {
			if seq.Kind != yaml.SequenceNode {
				return Config{}, fmt.Errorf("%s: expected a sequence", keyVaults)
			}
			for i, item := range seq.Content {
				v, err := decodeVault(item)
				if err != nil {
					return Config{}, fmt.Errorf("%s[%d]: %w", keyVaults, i, err)
				}
				cfg.Vaults = append(cfg.Vaults, v)
			}
		}
		if ws := lookup(section, keyWorkspaces); ws != nil && ws.Kind != yaml.ScalarNode {
			if ws.Kind != yaml.MappingNode {
				return Config{}, fmt.Errorf("%s: %w", keyWorkspaces, ErrNotAMapping)
			}
			for i := 0; i+1 < len(ws.Content); i += 2 {
				var entry WorkspaceEntry
				if err := decodeNode(ws.Content[i+1], &entry); err != nil {
					return Config{}, fmt.Errorf("%s.%s: %w", keyWorkspaces, ws.Content[i].Value, err)
				}
				cfg.Workspaces[ws.Content[i].Value] = entry
			}
		}
	}

	if dev := lookup(d.mapping(), keyDev); dev != nil && dev.Kind == yaml.MappingNode {
		if flag := lookup(dev, keySelfContained); flag != nil {
			if err := flag.Decode(&cfg.SelfContainedVaults); err != nil {
				return Config{}, fmt.Errorf("%s.%s: %w", keyDev, keySelfContained, err)
			}
		}
	}

	return cfg, nil
}

// Apply writes cfg's vaults and workspaces back into the node tree. Vault
// entries that did not change since load keep their original nodes.
func (d *Document) Apply(cfg Config) error {
	section := d.section(true)

	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if old := lookup(section, keyVaults); old != nil && old.Kind == yaml.SequenceNode {
		seq.Style = old.Style
		seq.HeadComment, seq.LineComment, seq.FootComment = old.HeadComment, old.LineComment, old.FootComment
		for i, v := range cfg.Vaults {
			if i < len(old.Content) && i < len(d.loaded) && reflect.DeepEqual(d.loaded[i], v) {
				seq.Content = append(seq.Content, old.Content[i])
				continue
			}
			node, err := encodeVault(v)
			if err != nil {
				return err
			}
			seq.Content = append(seq.Content, node)
		}
	} else {
		for _, v := range cfg.Vaults {
			node, err := encodeVault(v)
			if err != nil {
				return err
			}
			seq.Content = append(seq.Content, node)
		}
	}
	// flow-style sequences of block mappings render poorly
	if seq.Style == yaml.FlowStyle {
		seq.Style = 0
	}
	setKey(section, keyVaults, seq)

	if len(cfg.Workspaces) > 0 || lookup(section, keyWorkspaces) != nil {
		ws, err := encodeWorkspaces(lookup(section, keyWorkspaces), cfg.Workspaces)
		if err != nil {
			return err
		}
		setKey(section, keyWorkspaces, ws)
	}

	d.loaded = append([]vault.Vault(nil), cfg.Vaults...)
	return nil
}

// Bytes renders the document as YAML.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) mapping() *yaml.Node {
	return d.root.Content[0]
}

// section returns the mapping holding vaults and workspaces: the
// "workspace" key in current documents, the root in legacy ones that keep
// "vaults" at the top level.
func (d *Document) section(create bool) *yaml.Node {
	root := d.mapping()
	if ws := lookup(root, keyWorkspace); ws != nil && ws.Kind == yaml.MappingNode {
		return ws
	}
	if lookup(root, keyVaults) != nil {
		return root
	}
	if !create {
		return nil
	}
	ws := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setKey(root, keyWorkspace, ws)
	return ws
}

func decodeVault(node *yaml.Node) (vault.Vault, error) {
	var v vault.Vault
	if err := decodeNode(node, &v); err != nil {
		return vault.Vault{}, err
	}
	if v.FsPath == "" {
		return vault.Vault{}, ErrEmptyFsPath
	}
	return v, nil
}

// decodeNode goes through a generic map so mapstructure can collect
// unmanaged keys into the ",remain" field.
func decodeNode(node *yaml.Node, out any) error {
	if node.Kind != yaml.MappingNode {
		return ErrNotAMapping
	}
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func encodeVault(v vault.Vault) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setKey(node, "fsPath", scalar(v.FsPath, "!!str"))
	if v.Name != "" {
		setKey(node, "name", scalar(v.Name, "!!str"))
	}
	if v.Workspace != "" {
		setKey(node, "workspace", scalar(v.Workspace, "!!str"))
	}
	if v.SelfContained {
		setKey(node, "selfContained", scalar("true", "!!bool"))
	}
	if v.Remote != nil {
		setKey(node, "remote", encodeRemote(*v.Remote))
	}
	if err := encodeExtra(node, v.Extra); err != nil {
		return nil, err
	}
	return node, nil
}

func encodeRemote(r vault.Remote) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setKey(node, "type", scalar(r.Type, "!!str"))
	setKey(node, "url", scalar(r.URL, "!!str"))
	return node
}

func encodeWorkspaces(old *yaml.Node, entries map[string]WorkspaceEntry) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	seen := map[string]bool{}

	write := func(name string) error {
		entry := entries[name]
		value := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		setKey(value, "remote", encodeRemote(entry.Remote))
		if err := encodeExtra(value, entry.Extra); err != nil {
			return err
		}
		setKey(node, name, value)
		seen[name] = true
		return nil
	}

	// existing names keep their position
	if old != nil && old.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(old.Content); i += 2 {
			name := old.Content[i].Value
			if _, ok := entries[name]; ok {
				if err := write(name); err != nil {
					return nil, err
				}
			}
		}
	}

	rest := make([]string, 0, len(entries))
	for name := range entries {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		if err := write(name); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func encodeExtra(node *yaml.Node, extra map[string]any) error {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := &yaml.Node{}
		if err := value.Encode(extra[k]); err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		setKey(node, k, value)
	}
	return nil
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func setKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content, scalar(key, "!!str"), value)
}

func scalar(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// SetSelfContainedVaults sets dev.enableSelfContainedVaults.
func (d *Document) SetSelfContainedVaults(enabled bool) {
	root := d.mapping()
	dev := lookup(root, keyDev)
	if dev == nil || dev.Kind != yaml.MappingNode {
		dev = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		setKey(root, keyDev, dev)
	}
	setKey(dev, keySelfContained, scalar(fmt.Sprint(enabled), "!!bool"))
}
