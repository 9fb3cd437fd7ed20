// Package classdump reads decoded class files from YAML or JSON dumps
package classdump

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	bc "name-recon/internal/bytecode"
	"name-recon/internal/logger"
)

// Load reads every dump file under the given paths into one class set.
// Directories are scanned recursively; duplicate class names are an error.
func Load(paths []string, excludePatterns []string) (*bc.ClassSet, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("class dump input: %w", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := ScanDirectory(p, excludePatterns)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, errors.New("no class dump files found")
	}

	results := make([][]*bc.ClassNode, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			classes, err := LoadFile(file)
			if err != nil {
				return err
			}
			results[i] = classes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set, err := bc.NewClassSet()
	if err != nil {
		return nil, err
	}
	for i, classes := range results {
		for _, c := range classes {
			if err := set.Add(c); err != nil {
				return nil, fmt.Errorf("%s: %w", files[i], err)
			}
		}
	}
	logger.Debug("Loaded %d classes from %d dump files", set.Len(), len(files))
	return set, nil
}

// LoadFile reads one dump file
func LoadFile(path string) ([]*bc.ClassNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class dump: %w", err)
	}
	classes, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return classes, nil
}

// Decode parses a dump document. JSON input is accepted as YAML.
func Decode(r io.Reader) ([]*bc.ClassNode, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]*bc.ClassNode, 0, len(doc.Classes))
	for _, cd := range doc.Classes {
		c, err := cd.node()
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", cd.Name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (cd classDoc) node() (*bc.ClassNode, error) {
	if cd.Name == "" {
		return nil, errors.New("missing class name")
	}
	c := &bc.ClassNode{
		Access:     int(cd.Access),
		Name:       cd.Name,
		Super:      cd.Super,
		Interfaces: cd.Interfaces,
	}
	if c.Super == "" && cd.Name != "java/lang/Object" {
		c.Super = "java/lang/Object"
	}

	for _, fd := range cd.Fields {
		if _, err := bc.ParseType(fd.Desc); err != nil {
			return nil, fmt.Errorf("field %s: %w", fd.Name, err)
		}
		c.Fields = append(c.Fields, &bc.FieldNode{Access: int(fd.Access), Name: fd.Name, Desc: fd.Desc})
	}
	for _, md := range cd.Methods {
		a, err := assemble(md.Code, md.TryCatch)
		if err != nil {
			return nil, fmt.Errorf("method %s%s: %w", md.Name, md.Desc, err)
		}
		m, err := a.Method(int(md.Access), md.Name, md.Desc)
		if err != nil {
			return nil, fmt.Errorf("method %s%s: %w", md.Name, md.Desc, err)
		}
		c.Methods = append(c.Methods, m)
	}
	return c, nil
}
