// Package export renders repository state as canonical YAML.
package export

import (
	"bytes"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Entry is one row of the status listing. Empty fields are omitted.
type Entry struct {
	Source   string
	Artifact string
	State    string
	ModTime  string
}

func (e Entry) fields() map[string]any {
	m := map[string]any{"source": e.Source, "state": e.State}
	if e.Artifact != "" {
		m["artifact"] = e.Artifact
	}
	if e.ModTime != "" {
		m["mod_time"] = e.ModTime
	}
	return m
}

// Marshal returns canonical YAML bytes for the repository rooted at root.
// Keys are sorted and entries keep the given order.
func Marshal(root string, entries []Entry) ([]byte, error) {
	files := &yaml.Node{Kind: yaml.SequenceNode}
	for _, e := range entries {
		files.Content = append(files.Content, canonicalNode(e.fields()))
	}
	top := &yaml.Node{Kind: yaml.MappingNode}
	top.Content = append(top.Content, scalarNode("files"), files)
	top.Content = append(top.Content, scalarNode("root"), scalarNode(root))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

// Write marshals the listing into w.
func Write(w io.Writer, root string, entries []Entry) error {
	b, err := Marshal(root, entries)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func canonicalNode(v any) *yaml.Node {
	switch x := v.(type) {
	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			n.Content = append(n.Content, scalarNode(k), canonicalNode(x[k]))
		}
		return n
	case string:
		return scalarNode(x)
	default:
		n := &yaml.Node{}
		_ = n.Encode(x)
		return n
	}
}
