package graph

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
)

const graphmlNS = "http://graphml.graphdrawing.org/xmlns"

type xmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

type xmlGraph struct {
	EdgeDefault string    `xml:"edgedefault,attr"`
	Nodes       []xmlNode `xml:"node"`
	Edges       []xmlEdge `xml:"edge"`
}

type xmlDoc struct {
	XMLName xml.Name `xml:"graphml"`
	Xmlns   string   `xml:"xmlns,attr"`
	Keys    []xmlKey `xml:"key"`
	Graph   xmlGraph `xml:"graph"`
}

// WriteGraphML serializes the graph with typed attribute keys. Output is
// deterministic: keys, nodes, and edges are sorted.
func WriteGraphML(w io.Writer, g *Graph) error {
	attrTypes := make(map[string]string)
	for _, node := range g.nodes {
		for name, value := range node.Attrs {
			t := graphmlType(value)
			if prev, ok := attrTypes[name]; ok && prev != t {
				t = "string"
			}
			attrTypes[name] = t
		}
	}
	attrNames := make([]string, 0, len(attrTypes))
	for name := range attrTypes {
		attrNames = append(attrNames, name)
	}
	sort.Strings(attrNames)

	doc := xmlDoc{Xmlns: graphmlNS, Graph: xmlGraph{EdgeDefault: "directed"}}
	doc.Keys = append(doc.Keys, xmlKey{ID: "nd_category", For: "node", AttrName: "category", AttrType: "string"})
	for _, name := range attrNames {
		doc.Keys = append(doc.Keys, xmlKey{
			ID: "nd_" + name, For: "node", AttrName: name, AttrType: attrTypes[name],
		})
	}
	doc.Keys = append(doc.Keys, xmlKey{ID: "ed_relation", For: "edge", AttrName: "relation", AttrType: "string"})

	for _, id := range g.NodeIDs() {
		node := g.nodes[id]
		xn := xmlNode{ID: id}
		if node.Category != "" {
			xn.Data = append(xn.Data, xmlData{Key: "nd_category", Value: node.Category})
		}
		for _, name := range attrNames {
			value, ok := node.Attrs[name]
			if !ok {
				continue
			}
			xn.Data = append(xn.Data, xmlData{Key: "nd_" + name, Value: formatAttr(value)})
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, xn)
	}
	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, xmlEdge{
			Source: e.From,
			Target: e.To,
			Data:   []xmlData{{Key: "ed_relation", Value: e.Relation}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding graphml: %w", err)
	}
	return enc.Close()
}

// ReadGraphML parses a GraphML document produced by WriteGraphML, restoring
// attribute types from the key declarations.
func ReadGraphML(r io.Reader) (*Graph, error) {
	var doc xmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding graphml: %w", err)
	}

	type keyDef struct{ name, typ string }
	keys := make(map[string]keyDef, len(doc.Keys))
	for _, k := range doc.Keys {
		keys[k.ID] = keyDef{k.AttrName, k.AttrType}
	}

	g := NewGraph()
	for _, xn := range doc.Graph.Nodes {
		category := ""
		attrs := make(map[string]any)
		for _, d := range xn.Data {
			def, ok := keys[d.Key]
			if !ok {
				continue
			}
			if def.name == "category" {
				category = d.Value
				continue
			}
			value, err := parseAttr(d.Value, def.typ)
			if err != nil {
				return nil, fmt.Errorf("node %s attr %s: %w", xn.ID, def.name, err)
			}
			attrs[def.name] = value
		}
		g.AddNode(xn.ID, category, attrs)
	}
	for _, xe := range doc.Graph.Edges {
		relation := ""
		for _, d := range xe.Data {
			if keys[d.Key].name == "relation" {
				relation = d.Value
			}
		}
		g.SetEdge(xe.Source, xe.Target, relation)
	}
	return g, nil
}

func graphmlType(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case int:
		return "long"
	case float64:
		return "double"
	default:
		return "string"
	}
}

func formatAttr(v any) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

func parseAttr(s, typ string) (any, error) {
	switch typ {
	case "boolean":
		return strconv.ParseBool(s)
	case "long", "int":
		return strconv.Atoi(s)
	case "double", "float":
		return strconv.ParseFloat(s, 64)
	default:
		return s, nil
	}
}
