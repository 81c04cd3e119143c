package mongo

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DecodeDocument maps a generic document, as delivered by change streams,
// onto out using the bson field names. In strict mode fields that out has no
// place for are an error; otherwise they are ignored. Missing fields are
// always left at their zero value.
func DecodeDocument(doc map[string]interface{}, out interface{}, strict bool) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "bson",
		Squash:      true,
		ErrorUnused: strict,
		Result:      out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			dateTimeHook,
			nestedDocumentHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	return nil
}

var timeType = reflect.TypeOf(time.Time{})

func dateTimeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != timeType {
		return data, nil
	}

	switch v := data.(type) {
	case primitive.DateTime:
		return v.Time(), nil
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0), nil
	case string:
		return time.Parse(time.RFC3339, v)
	}

	return data, nil
}

// nestedDocumentHook flattens ordered documents into maps so nested structs
// decode the same way as top-level ones.
func nestedDocumentHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	d, ok := data.(primitive.D)
	if !ok {
		return data, nil
	}

	m := make(map[string]interface{}, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}

	return m, nil
}
