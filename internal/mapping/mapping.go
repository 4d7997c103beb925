// Package mapping holds the user-owned association between XML tag
// names and CSV column headers. The mapping lives in a flat key-value
// file the user edits by hand, so entry order in the file is
// significant and survives every load/save cycle.
package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// DefaultFile is the mapping file used when none is configured.
const DefaultFile = "mapping_config.json"

// Entry is one tag to column-header association. A placeholder entry
// has an empty Header; it is persisted but takes no part in CSV
// generation.
type Entry struct {
	Tag    string `json:"tag"`
	Header string `json:"header"`
}

// Mapping is an ordered tag to header mapping. Tags are unique; setting
// a tag again updates its header in place without moving it.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty mapping.
func New() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Set inserts tag with the given header, or updates the header of an
// existing tag while keeping its position.
func (m *Mapping) Set(tag, header string) {
	if pos, ok := m.index[tag]; ok {
		m.entries[pos].Header = header
		return
	}
	m.index[tag] = len(m.entries)
	m.entries = append(m.entries, Entry{Tag: tag, Header: header})
}

// Lookup returns the header for tag and whether the tag is present.
func (m *Mapping) Lookup(tag string) (string, bool) {
	pos, ok := m.index[tag]
	if !ok {
		return "", false
	}
	return m.entries[pos].Header, true
}

// Len returns the number of entries, placeholders included.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Entries returns a copy of all entries in order.
func (m *Mapping) Entries() []Entry {
	entries := make([]Entry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// Active returns the entries that drive CSV generation: both tag and
// header non-empty, in mapping order.
func (m *Mapping) Active() []Entry {
	var active []Entry
	for _, e := range m.entries {
		if e.Tag != "" && e.Header != "" {
			active = append(active, e)
		}
	}
	return active
}

// Headers returns the active column headers in mapping order.
func (m *Mapping) Headers() []string {
	active := m.Active()
	headers := make([]string, len(active))
	for i, e := range active {
		headers[i] = e.Header
	}
	return headers
}

// Merge appends a placeholder entry for every tag not already present
// and reports how many were added. Existing entries keep their headers
// and positions.
func (m *Mapping) Merge(tags []string) int {
	added := 0
	for _, tag := range tags {
		if _, ok := m.index[tag]; !ok {
			m.Set(tag, "")
			added++
		}
	}
	return added
}

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unsupported mapping format %q: use .json, .yaml or .yml", filepath.Ext(path))
	}
}

// Load reads the mapping file at path. A missing file is not an error
// and yields an empty mapping. Duplicate tags keep their first position
// and the last header wins, like keys in a hand-edited config.
func Load(path string) (*Mapping, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading mapping file: %w", err)
	}

	switch format {
	case formatYAML:
		return decodeYAML(path, data)
	default:
		return decodeJSON(path, data)
	}
}

// Save writes the mapping to path in the format named by its extension.
func (m *Mapping) Save(path string) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatYAML:
		data, err = m.encodeYAML()
	default:
		data = m.encodeJSON()
	}
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing mapping file: %w", err)
	}
	return nil
}

// decodeJSON reads a flat JSON object through the token stream so that
// key order in the file is kept.
func decodeJSON(path string, data []byte) (*Mapping, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parsing mapping file %s: expected a JSON object", path)
	}

	m := New()
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("parsing mapping file %s: expected a string key, got %v", path, keyToken)
		}

		valueToken, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
		}
		value, ok := valueToken.(string)
		if !ok {
			return nil, fmt.Errorf("parsing mapping file %s: header for %q must be a string", path, key)
		}
		m.Set(key, value)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
	}
	return m, nil
}

func (m *Mapping) encodeJSON() []byte {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		key, _ := json.Marshal(e.Tag)
		value, _ := json.Marshal(e.Header)
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
	}
	if len(m.entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

// decodeYAML reads a flat YAML mapping through yaml.Node, which keeps
// document order where a plain map would not.
func decodeYAML(path string, data []byte) (*Mapping, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
	}

	m := New()
	if root.Kind == 0 || len(root.Content) == 0 {
		return m, nil
	}

	node := root.Content[0]
	if node.Tag == "!!null" {
		return m, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing mapping file %s: expected a flat mapping", path)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		value := node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parsing mapping file %s: header for %q must be a scalar", path, key.Value)
		}
		header := value.Value
		if value.Tag == "!!null" {
			header = ""
		}
		m.Set(key.Value, header)
	}
	return m, nil
}

func (m *Mapping) encodeYAML() ([]byte, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Tag},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Header},
		)
	}
	return yaml.Marshal(node)
}
