package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Paths use dots for mapping keys and brackets for list items:
//
//	viewport.width
//	cascade.step
//	chrome.header_height
//	windows[0].title
//	logging.max_files
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	var doc yaml.Node
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	for _, part := range splitPath(path) {
		if idx, ok := part.index(); ok {
			if node.Kind != yaml.SequenceNode || idx < 0 || idx >= len(node.Content) {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			node = node.Content[idx]
			continue
		}
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == string(part) {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		node = next
	}

	var out any
	if err := node.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

type pathPart string

func (p pathPart) index() (int, bool) {
	s := string(p)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return 0, false
	}
	n, err := strconv.Atoi(s[1 : len(s)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitPath turns "windows[1].title" into ["windows", "[1]", "title"].
func splitPath(path string) []pathPart {
	var parts []pathPart
	for _, seg := range strings.Split(path, ".") {
		for seg != "" {
			open := strings.Index(seg, "[")
			switch {
			case open < 0:
				parts = append(parts, pathPart(seg))
				seg = ""
			case open > 0:
				parts = append(parts, pathPart(seg[:open]))
				seg = seg[open:]
			default:
				end := strings.Index(seg, "]")
				if end < 0 {
					parts = append(parts, pathPart(seg))
					seg = ""
					continue
				}
				parts = append(parts, pathPart(seg[:end+1]))
				seg = seg[end+1:]
			}
		}
	}
	return parts
}
