package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io/fs"

	cerrors "github.com/matzehuels/cactus/pkg/errors"
	cactusio "github.com/matzehuels/cactus/pkg/io"
)

// Source provides a tree document.
type Source interface {
	// Name identifies the source in logs and hooks.
	Name() string
	Load(ctx context.Context) (*cactusio.Document, error)
}

// FileSource reads a JSON tree document from a file path.
type FileSource string

func (s FileSource) Name() string { return string(s) }

func (s FileSource) Load(ctx context.Context) (*cactusio.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := cactusio.ImportJSON(string(s))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "tree file %s not found", string(s))
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "load %s", string(s))
	}
	return doc, nil
}

// BytesSource decodes a JSON tree document held in memory, such as an
// uploaded request body.
type BytesSource struct {
	Label string
	Data  []byte
}

func (s BytesSource) Name() string {
	if s.Label == "" {
		return "memory"
	}
	return s.Label
}

func (s BytesSource) Load(ctx context.Context) (*cactusio.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := cactusio.ReadJSON(bytes.NewReader(s.Data))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "decode %s", s.Name())
	}
	return doc, nil
}

// DocumentSource serves an already loaded document.
type DocumentSource struct {
	Label string
	Doc   *cactusio.Document
}

func (s DocumentSource) Name() string { return s.Label }

func (s DocumentSource) Load(context.Context) (*cactusio.Document, error) {
	if s.Doc == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "no document")
	}
	return s.Doc, nil
}
