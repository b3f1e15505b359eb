package catalog

import (
	"bytes"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
)

// DefaultEnvelopeField is the field the product API wraps its array in
const DefaultEnvelopeField = "Result"

// ErrMalformed means the payload was neither a product array nor an
// envelope holding one
var ErrMalformed = errors.New("malformed catalog payload")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode accepts either a bare JSON array of products or an object with the
// array under envelopeField. Image paths are normalized and records without
// an Id are dropped.
func Decode(body []byte, envelopeField string) ([]models.Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.Wrap(ErrMalformed, "empty body")
	}

	var arr jsoniter.RawMessage
	switch body[0] {
	case '[':
		arr = body
	case '{':
		var envelope map[string]jsoniter.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		arr = lookupField(envelope, envelopeField)
		if arr == nil {
			return nil, errors.Wrapf(ErrMalformed, "envelope has no %q field", envelopeField)
		}
		arr = bytes.TrimSpace(arr)
		if len(arr) == 0 || arr[0] != '[' {
			return nil, errors.Wrapf(ErrMalformed, "envelope field %q is not an array", envelopeField)
		}
	default:
		return nil, ErrMalformed
	}

	var records []models.Product
	if err := json.Unmarshal(arr, &records); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	products := make([]models.Product, 0, len(records))
	for _, p := range records {
		if strings.TrimSpace(p.ID) == "" {
			continue
		}
		p.Normalize()
		products = append(products, p)
	}
	return products, nil
}

func lookupField(envelope map[string]jsoniter.RawMessage, field string) jsoniter.RawMessage {
	if v, ok := envelope[field]; ok {
		return v
	}
	for k, v := range envelope {
		if strings.EqualFold(k, field) {
			return v
		}
	}
	return nil
}
