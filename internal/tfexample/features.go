// Package tfexample decodes and encodes tf.train.Example protobuf messages
// and maps them onto the fixed Record schema.
//
// The wire layout handled here is
//
//	Example   { Features features = 1; }
//	Features  { map<string, Feature> feature = 1; }
//	Feature   { oneof { BytesList bytes_list = 1; FloatList float_list = 2; Int64List int64_list = 3; } }
//	BytesList { repeated bytes value = 1; }
//	FloatList { repeated float value = 1 [packed]; }
//	Int64List { repeated int64 value = 1 [packed]; }
package tfexample

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// Kind identifies which value list a Feature carries.
type Kind int

const (
	KindNone Kind = iota
	KindBytes
	KindFloat
	KindInt64
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes_list"
	case KindFloat:
		return "float_list"
	case KindInt64:
		return "int64_list"
	default:
		return "none"
	}
}

// ErrMalformed wraps every wire-level decoding failure.
var ErrMalformed = errors.New("malformed example")

// Feature holds one decoded feature value list.
type Feature struct {
	Kind   Kind
	Bytes  [][]byte
	Floats []float32
	Int64s []int64
}

const (
	fieldExampleFeatures = 1
	fieldFeaturesMap     = 1
	fieldMapKey          = 1
	fieldMapValue        = 2
	fieldBytesList       = 1
	fieldFloatList       = 2
	fieldInt64List       = 3
	fieldListValue       = 1
)

// ParseFeatures decodes a serialized Example into its feature map. Byte
// slices in the result alias payload.
func ParseFeatures(payload []byte) (map[string]Feature, error) {
	features := make(map[string]Feature)
	err := walk(payload, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldExampleFeatures || typ != protowire.BytesType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("features", n)
		}
		return n, parseFeatureMap(v, features)
	})
	if err != nil {
		return nil, err
	}
	return features, nil
}

func parseFeatureMap(b []byte, into map[string]Feature) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldFeaturesMap || typ != protowire.BytesType {
			return skip(num, typ, b)
		}
		entry, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("feature map entry", n)
		}
		key, feature, err := parseMapEntry(entry)
		if err != nil {
			return 0, err
		}
		into[key] = feature
		return n, nil
	})
}

func parseMapEntry(b []byte) (string, Feature, error) {
	var key string
	var feature Feature
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType || (num != fieldMapKey && num != fieldMapValue) {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("feature map field", n)
		}
		if num == fieldMapKey {
			key = string(v)
			return n, nil
		}
		f, err := parseFeature(v)
		if err != nil {
			return 0, fmt.Errorf("feature %q: %w", key, err)
		}
		feature = f
		return n, nil
	})
	return key, feature, err
}

func parseFeature(b []byte) (Feature, error) {
	var f Feature
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("feature list", n)
		}
		// a later oneof member replaces an earlier one
		var err error
		switch num {
		case fieldBytesList:
			f = Feature{Kind: KindBytes, Bytes: [][]byte{}}
			err = parseBytesList(v, &f)
		case fieldFloatList:
			f = Feature{Kind: KindFloat, Floats: []float32{}}
			err = parseFloatList(v, &f)
		case fieldInt64List:
			f = Feature{Kind: KindInt64, Int64s: []int64{}}
			err = parseInt64List(v, &f)
		}
		return n, err
	})
	return f, err
}

func parseBytesList(b []byte, f *Feature) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldListValue || typ != protowire.BytesType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("bytes value", n)
		}
		f.Bytes = append(f.Bytes, v)
		return n, nil
	})
}

func parseFloatList(b []byte, f *Feature) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldListValue {
			return skip(num, typ, b)
		}
		switch typ {
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return 0, wireError("float value", n)
			}
			f.Floats = append(f.Floats, math.Float32frombits(v))
			return n, nil
		case protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, wireError("packed floats", n)
			}
			for len(packed) > 0 {
				v, m := protowire.ConsumeFixed32(packed)
				if m < 0 {
					return 0, wireError("packed float", m)
				}
				f.Floats = append(f.Floats, math.Float32frombits(v))
				packed = packed[m:]
			}
			return n, nil
		}
		return skip(num, typ, b)
	})
}

func parseInt64List(b []byte, f *Feature) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldListValue {
			return skip(num, typ, b)
		}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, wireError("int64 value", n)
			}
			f.Int64s = append(f.Int64s, int64(v))
			return n, nil
		case protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, wireError("packed int64s", n)
			}
			for len(packed) > 0 {
				v, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return 0, wireError("packed int64", m)
				}
				f.Int64s = append(f.Int64s, int64(v))
				packed = packed[m:]
			}
			return n, nil
		}
		return skip(num, typ, b)
	})
}

// walk iterates the top-level fields of a message. fn receives the bytes
// following the tag and returns how many of them it consumed.
func walk(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return wireError("tag", n)
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		b = b[m:]
	}
	return nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, wireError("unknown field", n)
	}
	return n, nil
}

func wireError(what string, n int) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, what, protowire.ParseError(n))
}

// MarshalFeatures encodes a feature map as a serialized Example. Keys are
// written in sorted order so equal maps encode to equal bytes.
func MarshalFeatures(features map[string]Feature) []byte {
	keys := make([]string, 0, len(features))
	for k := range features {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var featureMap []byte
	for _, k := range keys {
		var entry []byte
		entry = protowire.AppendTag(entry, fieldMapKey, protowire.BytesType)
		entry = protowire.AppendString(entry, k)
		entry = protowire.AppendTag(entry, fieldMapValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, marshalFeature(features[k]))

		featureMap = protowire.AppendTag(featureMap, fieldFeaturesMap, protowire.BytesType)
		featureMap = protowire.AppendBytes(featureMap, entry)
	}

	var out []byte
	out = protowire.AppendTag(out, fieldExampleFeatures, protowire.BytesType)
	return protowire.AppendBytes(out, featureMap)
}

func marshalFeature(f Feature) []byte {
	var list []byte
	var field protowire.Number
	switch f.Kind {
	case KindBytes:
		field = fieldBytesList
		for _, v := range f.Bytes {
			list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
			list = protowire.AppendBytes(list, v)
		}
	case KindFloat:
		field = fieldFloatList
		var packed []byte
		for _, v := range f.Floats {
			packed = protowire.AppendFixed32(packed, math.Float32bits(v))
		}
		list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
		list = protowire.AppendBytes(list, packed)
	case KindInt64:
		field = fieldInt64List
		var packed []byte
		for _, v := range f.Int64s {
			packed = protowire.AppendVarint(packed, uint64(v))
		}
		list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
		list = protowire.AppendBytes(list, packed)
	default:
		return nil
	}

	var out []byte
	out = protowire.AppendTag(out, field, protowire.BytesType)
	return protowire.AppendBytes(out, list)
}
