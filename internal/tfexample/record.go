package tfexample

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFeature is returned when a required feature is absent.
	ErrMissingFeature = errors.New("missing feature")
	// ErrFeatureKind is returned when a feature carries the wrong value list.
	ErrFeatureKind = errors.New("unexpected feature kind")
	// ErrFeatureShape is returned when a scalar feature does not hold exactly one value.
	ErrFeatureShape = errors.New("unexpected feature length")
)

// Record is one dataset entry: an encoded image plus scalar metadata.
type Record struct {
	Image []byte

	License     string
	Tags        string
	Title       string
	Description string
	Owner       string
	ImgSrc      string

	CommentCount int64
	FaveCount    int64
	ViewCount    int64
	Height       int64
	Width        int64
}

// Field describes one required scalar feature of the record schema.
type Field struct {
	Name string
	Kind Kind
}

// Schema lists every feature a Record is parsed from.
var Schema = []Field{
	{"image", KindBytes},
	{"license", KindBytes},
	{"tags", KindBytes},
	{"title", KindBytes},
	{"description", KindBytes},
	{"owner", KindBytes},
	{"img_src", KindBytes},
	{"comment_count", KindInt64},
	{"fave_count", KindInt64},
	{"view_count", KindInt64},
	{"height", KindInt64},
	{"width", KindInt64},
}

// Parse decodes a serialized Example into a Record. Every schema feature must
// be present with the declared kind and exactly one value; extra features are
// ignored.
func Parse(payload []byte) (Record, error) {
	features, err := ParseFeatures(payload)
	if err != nil {
		return Record{}, err
	}

	var rec Record
	for _, field := range Schema {
		f, ok := features[field.Name]
		if !ok {
			return Record{}, fmt.Errorf("%w: %s", ErrMissingFeature, field.Name)
		}
		if f.Kind != field.Kind {
			return Record{}, fmt.Errorf("%w: %s is %s, want %s", ErrFeatureKind, field.Name, f.Kind, field.Kind)
		}
		switch field.Kind {
		case KindBytes:
			if len(f.Bytes) != 1 {
				return Record{}, fmt.Errorf("%w: %s has %d values, want 1", ErrFeatureShape, field.Name, len(f.Bytes))
			}
			rec.setBytes(field.Name, f.Bytes[0])
		case KindInt64:
			if len(f.Int64s) != 1 {
				return Record{}, fmt.Errorf("%w: %s has %d values, want 1", ErrFeatureShape, field.Name, len(f.Int64s))
			}
			rec.setInt64(field.Name, f.Int64s[0])
		}
	}
	return rec, nil
}

// Marshal encodes r as a serialized Example with the schema's feature names.
func Marshal(r Record) []byte {
	features := make(map[string]Feature, len(Schema))
	for _, field := range Schema {
		switch field.Kind {
		case KindBytes:
			features[field.Name] = Feature{Kind: KindBytes, Bytes: [][]byte{r.bytesField(field.Name)}}
		case KindInt64:
			features[field.Name] = Feature{Kind: KindInt64, Int64s: []int64{r.int64Field(field.Name)}}
		}
	}
	return MarshalFeatures(features)
}

func (r *Record) setBytes(name string, v []byte) {
	switch name {
	case "image":
		r.Image = v
	case "license":
		r.License = string(v)
	case "tags":
		r.Tags = string(v)
	case "title":
		r.Title = string(v)
	case "description":
		r.Description = string(v)
	case "owner":
		r.Owner = string(v)
	case "img_src":
		r.ImgSrc = string(v)
	}
}

func (r *Record) setInt64(name string, v int64) {
	switch name {
	case "comment_count":
		r.CommentCount = v
	case "fave_count":
		r.FaveCount = v
	case "view_count":
		r.ViewCount = v
	case "height":
		r.Height = v
	case "width":
		r.Width = v
	}
}

func (r Record) bytesField(name string) []byte {
	switch name {
	case "image":
		return r.Image
	case "license":
		return []byte(r.License)
	case "tags":
		return []byte(r.Tags)
	case "title":
		return []byte(r.Title)
	case "description":
		return []byte(r.Description)
	case "owner":
		return []byte(r.Owner)
	case "img_src":
		return []byte(r.ImgSrc)
	}
	return nil
}

func (r Record) int64Field(name string) int64 {
	switch name {
	case "comment_count":
		return r.CommentCount
	case "fave_count":
		return r.FaveCount
	case "view_count":
		return r.ViewCount
	case "height":
		return r.Height
	case "width":
		return r.Width
	}
	return 0
}
