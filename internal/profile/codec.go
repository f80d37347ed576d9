package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a file extension with no codec.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format is a serialization format for profile documents.
type Format string

const (
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"

	// FormatYAML is block-style YAML.
	FormatYAML Format = "yaml"
)

// Ext returns the file extension written for the format.
func (f Format) Ext() string {
	return "." + string(f)
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (Node, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Encode writes n to w in the given format.
func Encode(w io.Writer, n Node, format Format, indent int) error {
	switch format {
	case FormatJSON:
		return EncodeJSON(w, n, indent)
	case FormatYAML:
		return EncodeYAML(w, n)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ReadFile decodes a document file, choosing the codec by extension.
func ReadFile(path string) (Node, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return n, nil
}

// Load reads a profile file and checks that it is a recognized profile.
func Load(path string) (*Profile, error) {
	n, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := FromDocument(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// DecodeJSON parses JSON keeping object key order. Numbers written without a
// fraction or exponent become Int scalars, all others Float scalars.
func DecodeJSON(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", kt)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", key, err)
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			l := NewList()
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", len(l.Items), err)
				}
				l.Items = append(l.Items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return l, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		return numberScalar(string(t))
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func numberScalar(s string) (Node, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return Float(f), nil
}

// EncodeJSON writes n as JSON indented by indent spaces (compact when indent
// is zero or less). HTML characters and non-ASCII text are written literally.
func EncodeJSON(w io.Writer, n Node, indent int) error {
	var buf bytes.Buffer
	pad := ""
	if indent > 0 {
		pad = strings.Repeat(" ", indent)
	}
	if err := writeJSON(&buf, n, pad, 0); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalJSON writes the map compactly with keys in order.
func (m *Map) MarshalJSON() ([]byte, error) { return marshalCompact(m) }

// MarshalJSON writes the list compactly.
func (l *List) MarshalJSON() ([]byte, error) { return marshalCompact(l) }

// MarshalJSON writes the scalar.
func (s Scalar) MarshalJSON() ([]byte, error) { return marshalCompact(s) }

func marshalCompact(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n, "", 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n Node, pad string, depth int) error {
	newline := func(d int) {
		if pad == "" {
			return
		}
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(pad, d))
	}

	switch t := n.(type) {
	case *Map:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, k := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			writeJSONString(buf, k)
			buf.WriteByte(':')
			if pad != "" {
				buf.WriteByte(' ')
			}
			if err := writeJSON(buf, t.values[k], pad, depth+1); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		newline(depth)
		buf.WriteByte('}')
	case *List:
		if t.Len() == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range t.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			if err := writeJSON(buf, item, pad, depth+1); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		newline(depth)
		buf.WriteByte(']')
	case Scalar:
		switch v := t.Value.(type) {
		case nil:
			buf.WriteString("null")
		case string:
			writeJSONString(buf, v)
		case bool:
			buf.WriteString(strconv.FormatBool(v))
		case int64:
			buf.WriteString(strconv.FormatInt(v, 10))
		case float64:
			if math.IsInf(v, 0) || math.IsNaN(v) {
				return fmt.Errorf("unsupported float value %v", v)
			}
			buf.WriteString(FormatFloat(v))
		default:
			return fmt.Errorf("unsupported scalar type %T", v)
		}
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unsupported node %T", n)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1)
}

// DecodeYAML parses a single YAML document keeping mapping key order and the
// int/float distinction of plain scalars.
func DecodeYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, errors.New("empty document")
	}
	return fromYAML(&doc)
}

func fromYAML(n *yaml.Node) (Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(n.Content[0])
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key is not a scalar", k.Line)
			}
			val, err := fromYAML(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.Value, err)
			}
			m.Set(k.Value, val)
		}
		return m, nil
	case yaml.SequenceNode:
		l := NewList()
		for i, item := range n.Content {
			val, err := fromYAML(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l.Items = append(l.Items, val)
		}
		return l, nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", n.Line)
		}
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func scalarFromYAML(n *yaml.Node) (Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return Float(f), nil
	}
	return String(n.Value), nil
}

// EncodeYAML writes n as block-style YAML with two-space indentation, keeping
// key order and writing non-ASCII text literally.
func EncodeYAML(w io.Writer, n Node) error {
	yn, err := toYAML(n)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yn); err != nil {
		return err
	}
	return enc.Close()
}

func toYAML(n Node) (*yaml.Node, error) {
	switch t := n.(type) {
	case *Map:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.keys {
			v, err := toYAML(t.values[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, v)
		}
		return out, nil
	case *List:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range t.Items {
			v, err := toYAML(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out.Content = append(out.Content, v)
		}
		return out, nil
	case Scalar:
		switch v := t.Value.(type) {
		case nil:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
		case string:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
		case bool:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
		case int64:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}, nil
		case float64:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(v)}, nil
		}
		return nil, fmt.Errorf("unsupported scalar type %T", t.Value)
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return nil, fmt.Errorf("unsupported node %T", n)
}

func yamlFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	return FormatFloat(f)
}
