// Package yamlload loads YAML documents from a source and resolves "$ref"
// references between them.
//
// A reference is a mapping with a "$ref" key whose value has the form
// "file#/y/path". The file part is relative to the referencing file and may
// be omitted to point into the current document. The y-path selects a value
// by walking mapping keys (or sequence indexes) separated by slashes. The
// whole mapping holding the "$ref" is replaced by the referenced value.
package yamlload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/pkg/source"
)

// maxDepth bounds recursion while resolving references and y-paths.
const maxDepth = 1000

var ErrEscapesRoot = errors.New("path is not allowed outside its root folder")

// Service parses YAML files and caches referenced files.
type Service struct {
	src source.Source

	mu      sync.Mutex
	refs    map[string]*yaml.Node
	loading map[string]bool
}

func New(src source.Source) *Service {
	return &Service{
		src:     src,
		refs:    make(map[string]*yaml.Node),
		loading: make(map[string]bool),
	}
}

// ClearCache forgets referenced files so the next load reads them again.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = make(map[string]*yaml.Node)
}

// Parse decodes a single document and returns its root value node. An empty
// document yields a null scalar.
func Parse(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return rootOf(&doc), nil
}

// ParseMultiple decodes every document of a multi-document stream.
func ParseMultiple(data []byte) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, rootOf(&doc))
	}
}

// Stringify encodes v as YAML.
func Stringify(v any) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func rootOf(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	if doc.Kind == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
	}
	return doc
}

func (s *Service) read(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	data, err := s.src.ReadFile(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the '%s' YAML file: %w", name, err)
	}
	logger.Debug("YAML fetched", logger.KeyFile, name, logger.KeyBytes, len(data), logger.KeyDurationMs, logger.Duration(start))
	return data, nil
}

// Load reads and parses a single-document file.
func (s *Service) Load(ctx context.Context, name string) (*yaml.Node, error) {
	data, err := s.read(ctx, name)
	if err != nil {
		return nil, err
	}
	n, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return n, nil
}

// LoadMultiple reads and parses a multi-document file.
func (s *Service) LoadMultiple(ctx context.Context, name string) ([]*yaml.Node, error) {
	data, err := s.read(ctx, name)
	if err != nil {
		return nil, err
	}
	docs, err := ParseMultiple(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return docs, nil
}

// LoadWithReferencesResolved loads a file and substitutes every "$ref".
func (s *Service) LoadWithReferencesResolved(ctx context.Context, name string) (*yaml.Node, error) {
	s.mu.Lock()
	if s.loading[name] {
		s.mu.Unlock()
		return nil, fmt.Errorf("circular reference to %s", name)
	}
	s.loading[name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.loading, name)
		s.mu.Unlock()
	}()

	root, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.substitute(ctx, root, root, name, 1)
}

func (s *Service) substitute(ctx context.Context, n, root *yaml.Node, refPath string, lvl int) (*yaml.Node, error) {
	if lvl > maxDepth {
		return nil, errors.New("recursive loop gone awry")
	}

	var err error
	switch n.Kind {
	case yaml.SequenceNode:
		for i, c := range n.Content {
			if n.Content[i], err = s.substitute(ctx, c, root, refPath, lvl+1); err != nil {
				return nil, err
			}
		}
	case yaml.MappingNode:
		var ref *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == "$ref" {
				ref = n.Content[i+1]
				continue
			}
			if n.Content[i+1], err = s.substitute(ctx, n.Content[i+1], root, refPath, lvl+1); err != nil {
				return nil, err
			}
		}
		if ref != nil {
			return s.fetchRef(ctx, ref.Value, root, refPath)
		}
	}
	return n, nil
}

func (s *Service) fetchRef(ctx context.Context, ref string, root *yaml.Node, refPath string) (*yaml.Node, error) {
	file, yPath := ParseRef(ref)

	target := root
	if file != "" {
		var err error
		if target, err = s.loadRef(ctx, file, refPath); err != nil {
			return nil, err
		}
	}
	if yPath == "" {
		return target, nil
	}

	n, err := GetYPath(target, yPath)
	if err != nil {
		where := "yaml file"
		if file != "" {
			where = file
		}
		return nil, fmt.Errorf("%w in %s", err, where)
	}
	return n, nil
}

func (s *Service) loadRef(ctx context.Context, file, refPath string) (*yaml.Node, error) {
	full, err := MakeFullPath(file, refPath)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	cached, ok := s.refs[full]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	n, err := s.LoadWithReferencesResolved(ctx, full)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.refs[full] = n
	s.mu.Unlock()
	return n, nil
}

// GetYPath returns the value at yPath, e.g. "/strings/en/labels".
func GetYPath(n *yaml.Node, yPath string) (*yaml.Node, error) {
	trimmed := strings.TrimPrefix(yPath, "/")
	if trimmed == "" {
		return n, nil
	}
	cur := n
	for depth, key := range strings.Split(trimmed, "/") {
		if depth > maxDepth {
			return nil, errors.New("too deeply nested object")
		}
		next := child(cur, key)
		if next == nil {
			return nil, fmt.Errorf("cannot find '%s'", yPath)
		}
		cur = next
	}
	return cur, nil
}

func child(n *yaml.Node, key string) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				return n.Content[i+1]
			}
		}
	case yaml.SequenceNode:
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(n.Content) {
			return n.Content[i]
		}
	}
	return nil
}

// ParseRef splits "file#/y/path" into its trimmed file and y-path parts.
func ParseRef(ref string) (file, yPath string) {
	file, yPath, _ = strings.Cut(ref, "#")
	return strings.TrimSpace(file), strings.TrimSpace(yPath)
}

// MakeFullPath resolves relativePath against the directory of relativeTo.
// The result must stay inside that directory.
func MakeFullPath(relativePath, relativeTo string) (string, error) {
	dir := path.Dir(relativeTo)

	var full string
	if strings.HasPrefix(relativePath, "/") {
		full = strings.TrimPrefix(path.Clean(relativePath), "/")
	} else {
		full = path.Join(dir, relativePath)
	}

	if dir == "." {
		if full == ".." || strings.HasPrefix(full, "../") {
			return "", fmt.Errorf("%w: %s", ErrEscapesRoot, relativePath)
		}
		return full, nil
	}
	if full != dir && !strings.HasPrefix(full, dir+"/") {
		return "", fmt.Errorf("%w: %s", ErrEscapesRoot, relativePath)
	}
	return full, nil
}
