package manifest

import (
	"bytes"
	"encoding/json"

	"github.com/tressel-dev/tressel/pkg/errors"
)

// document is the raw top-level package.json object with its original key
// order. A manifest carries many fields tressel does not model (main,
// license, repository, exports, ...), and editing the dependency maps must
// not discard them, so Save rewrites the file from this view instead of the
// typed struct.
type document struct {
	keys   []string
	fields map[string]json.RawMessage
}

func parseDocument(data []byte) (*document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrManifestInvalid, err.Error())
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.Wrap(errors.ErrManifestInvalid, "manifest is not a JSON object")
	}
	doc := &document{fields: map[string]json.RawMessage{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrManifestInvalid, err.Error())
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.Wrap(errors.ErrManifestInvalid, "manifest key is not a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrManifestInvalid, err.Error())
		}
		doc.set(key, raw)
	}
	return doc, nil
}

func (d *document) set(key string, raw json.RawMessage) {
	if _, ok := d.fields[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.fields[key] = raw
}

func (d *document) delete(key string) {
	if _, ok := d.fields[key]; !ok {
		return
	}
	delete(d.fields, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// setMap replaces key with values, dropping the field entirely when empty.
func (d *document) setMap(key string, values map[string]string) error {
	if len(values) == 0 {
		d.delete(key)
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	d.set(key, raw)
	return nil
}

// MarshalJSON writes the fields back in their original order. New fields end
// up last.
func (d *document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(d.fields[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
