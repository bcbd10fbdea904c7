package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ivlev/animkit/internal/timeline"
)

// MarshalJSON encodes v as indented JSON, the form used for request bodies
// and CLI output.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// UnmarshalAnimation decodes a JSON animation, rejecting unknown fields.
func UnmarshalAnimation(data []byte) (Animation, error) {
	var a Animation
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return Animation{}, fmt.Errorf("decode animation: %w", err)
	}
	return a, nil
}

// MarshalMsgpack encodes v with msgpack, reusing the json field names.
func MarshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalMsgpack decodes data produced by MarshalMsgpack into v.
func UnmarshalMsgpack(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// NewBulkRequest builds a bulk evaluation request for tl.
func NewBulkRequest(tl timeline.Timeline, samples []float64) BulkEvaluationRequest {
	s := make([]float64, len(samples))
	copy(s, samples)
	return BulkEvaluationRequest{Timeline: TimelineToSchema(tl), Samples: s}
}

// EvaluateBulk answers a bulk request locally, one sample per requested time
// in request order.
func EvaluateBulk(req BulkEvaluationRequest) ([]EvaluationSample, error) {
	tl, err := TimelineFromSchema(req.Timeline)
	if err != nil {
		return nil, err
	}
	out := make([]EvaluationSample, len(req.Samples))
	for i, t := range req.Samples {
		out[i] = EvaluationSample{T: t, Value: tl.Value(t)}
	}
	return out, nil
}
