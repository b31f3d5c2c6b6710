package mcudb

import (
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	xmlx "github.com/jteeuwen/go-pkg-xmlx"
	"github.com/pkg/errors"
)

// DescriptorExt is the extension of every descriptor file in the database.
const DescriptorExt = ".xml.gz"

// Database gives access to a descriptor database extracted from CubeMX.
type Database struct {
	root string
}

// New returns a Database rooted at the given directory. The directory is not
// accessed until parts are loaded.
func New(root string) *Database {
	return &Database{root: root}
}

// Root returns the database root directory.
func (db *Database) Root() string {
	return db.root
}

// PartPath returns the path of the top-level descriptor of a part.
func (db *Database) PartPath(part string) string {
	return filepath.Join(db.root, "mcu", part+DescriptorExt)
}

// GPIOPath returns the path of the GPIO descriptor for an IP version.
func (db *Database) GPIOPath(version string) string {
	return filepath.Join(db.root, "mcu", "IP", "GPIO-"+version+"_Modes"+DescriptorExt)
}

// readGzipped returns the decompressed content of a file. The file is closed
// before returning.
func readGzipped(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(ErrNotFound, path)
		}
		return nil, errors.Wrapf(err, "mcudb: open %s", path)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return data, nil
}

// loadDocument reads a compressed descriptor and returns its root element.
func loadDocument(path string) (*xmlx.Node, error) {
	data, err := readGzipped(path)
	if err != nil {
		return nil, err
	}
	doc := xmlx.New()
	if err := doc.LoadBytes(data, nil); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if doc.Root != nil {
		for _, n := range doc.Root.Children {
			if n.Type == xmlx.NT_ELEMENT {
				return n, nil
			}
		}
	}
	return nil, &DecodeError{Path: path, Err: errors.New("no root element")}
}

// Descriptors use a default namespace, elements and attributes are matched on
// their local name only.

func hasTag(n *xmlx.Node, tag string) bool {
	return n.Type == xmlx.NT_ELEMENT && n.Name.Local == tag
}

func childElements(n *xmlx.Node, tag string) []*xmlx.Node {
	var out []*xmlx.Node
	for _, c := range n.Children {
		if hasTag(c, tag) {
			out = append(out, c)
		}
	}
	return out
}

func attribute(n *xmlx.Node, name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// requireAttribute is like attribute but fails with a StructuralError naming
// the element when the attribute is absent.
func requireAttribute(n *xmlx.Node, name string) (string, error) {
	v, ok := attribute(n, name)
	if !ok {
		return "", &StructuralError{Tag: n.Name.Local, Attr: name}
	}
	return v, nil
}

// descendant returns the first element below n with the given tag, in
// document order.
func descendant(n *xmlx.Node, tag string) *xmlx.Node {
	for _, c := range n.Children {
		if c.Type != xmlx.NT_ELEMENT {
			continue
		}
		if c.Name.Local == tag {
			return c
		}
		if d := descendant(c, tag); d != nil {
			return d
		}
	}
	return nil
}

func textContent(n *xmlx.Node) string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Type == xmlx.NT_TEXT {
			sb.WriteString(c.Value)
		}
	}
	return strings.TrimSpace(sb.String())
}
