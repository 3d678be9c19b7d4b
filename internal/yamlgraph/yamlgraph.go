package yamlgraph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/passgraph/internal/config"
	"github.com/specialistvlad/passgraph/internal/ctxlog"
	"github.com/specialistvlad/passgraph/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Extensions are the file extensions the loader picks up when walking
// directories.
var Extensions = []string{".yaml", ".yml"}

type document struct {
	Queues []queueDoc `yaml:"queues"`
	Passes []passDoc  `yaml:"passes"`
}

type queueDoc struct {
	Name  string `yaml:"name"`
	Index int    `yaml:"index"`
}

type passDoc struct {
	Name   string          `yaml:"name"`
	Queue  yaml.Node       `yaml:"queue"`
	Flags  []string        `yaml:"flags"`
	Reads  []dependencyDoc `yaml:"reads"`
	Writes []dependencyDoc `yaml:"writes"`
}

type dependencyDoc struct {
	Resource string `yaml:"resource"`
	AliasOf  string `yaml:"alias_of"`
	First    int    `yaml:"first"`
	Count    int    `yaml:"count"`
}

type sourced struct {
	path string
	doc  document
}

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every YAML file under paths. As with HCL, queues from every
// file are known before pass queues are resolved.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	var docs []sourced
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("yamlgraph: read %s: %w", file, err)
		}
		parsed, err := decodeDocuments(data)
		if err != nil {
			return nil, fmt.Errorf("yamlgraph: %s: %w", file, err)
		}
		for _, d := range parsed {
			docs = append(docs, sourced{path: file, doc: d})
		}
	}

	model, err := translate(docs)
	if err != nil {
		return nil, err
	}
	logger.Debug("YAML loading complete.", "queues", len(model.Queues), "passes", len(model.Passes))
	return model, nil
}

// Parse decodes a single YAML payload, which may hold several documents.
func Parse(data []byte) (*config.Model, error) {
	parsed, err := decodeDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("yamlgraph: %w", err)
	}
	docs := make([]sourced, len(parsed))
	for i, d := range parsed {
		docs[i] = sourced{doc: d}
	}
	return translate(docs)
}

func decodeDocuments(data []byte) ([]document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var docs []document
	for {
		var d document
		err := dec.Decode(&d)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode graph: %w", err)
		}
		docs = append(docs, d)
	}
}

func translate(docs []sourced) (*config.Model, error) {
	model := &config.Model{}
	for _, s := range docs {
		for _, q := range s.doc.Queues {
			model.Queues = append(model.Queues, &config.Queue{Name: q.Name, Index: q.Index})
		}
	}

	for _, s := range docs {
		for _, p := range s.doc.Passes {
			queue, err := resolveQueue(model, &p.Queue)
			if err != nil {
				return nil, fmt.Errorf("yamlgraph: pass %q in %s: %w", p.Name, s.path, err)
			}
			pass := &config.Pass{
				Name:   p.Name,
				Queue:  queue,
				Flags:  p.Flags,
				Source: s.path,
			}
			for _, d := range p.Reads {
				pass.Reads = append(pass.Reads, d.toConfig())
			}
			for _, d := range p.Writes {
				pass.Writes = append(pass.Writes, d.toConfig())
			}
			model.Passes = append(model.Passes, pass)
		}
	}
	return model, nil
}

func (d dependencyDoc) toConfig() *config.Dependency {
	return &config.Dependency{Resource: d.Resource, AliasOf: d.AliasOf, First: d.First, Count: d.Count}
}

// resolveQueue accepts a queue name or an index. An omitted queue selects
// index 0.
func resolveQueue(m *config.Model, n *yaml.Node) (int, error) {
	if n.Kind == 0 {
		return 0, nil
	}
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: queue must be a queue name or index", n.Line)
	}

	switch n.ShortTag() {
	case "!!int":
		var idx int
		if err := n.Decode(&idx); err != nil {
			return 0, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return idx, nil
	case "!!str":
		idx, ok := m.QueueIndex(n.Value)
		if !ok {
			return 0, fmt.Errorf("line %d: unknown queue %q", n.Line, n.Value)
		}
		return idx, nil
	default:
		return 0, fmt.Errorf("line %d: queue must be a queue name or index, got %s", n.Line, n.ShortTag())
	}
}
