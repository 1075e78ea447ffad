package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Decode parses one raw frame.
func Decode(frame []byte) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failure(fmt.Errorf("decode panic: %v", r))
		}
	}()

	dec := json.NewDecoder(bytes.NewReader(frame))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return failure(fmt.Errorf("%w: %v", ErrNotJSON, err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return failure(fmt.Errorf("%w: trailing data after top-level value", ErrNotJSON))
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return failure(ErrNotObject)
	}

	if t, _ := obj["type"].(string); t == "error" {
		return Result{Kind: KindErrorFrame, ErrorFrame: obj}
	}

	id, err := batchID(obj["auid"])
	if err != nil {
		return failure(err)
	}

	events, err := eventRecords(obj["events"])

	return Result{
		Kind:  KindBatch,
		Batch: Batch{ID: id, Events: events, EventsErr: err},
	}
}

func failure(err error) Result {
	return Result{Kind: KindDecodeFailure, Err: err}
}

// batchID accepts a string or a number; an absent or null auid yields "".
func batchID(v any) (string, error) {
	switch id := v.(type) {
	case nil:
		return "", nil
	case string:
		return id, nil
	case json.Number:
		return id.String(), nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrBadAUID, v)
	}
}

func eventRecords(v any) ([]EventRecord, error) {
	if v == nil {
		return []EventRecord{}, nil
	}

	items, ok := v.([]any)
	if !ok {
		return []EventRecord{}, fmt.Errorf("%w: got %T", ErrBadEvents, v)
	}

	records := make([]EventRecord, 0, len(items))
	for i, item := range items {
		payload, ok := item.(map[string]any)
		if !ok {
			records = append(records, EventRecord{
				Raw: item,
				Err: fmt.Errorf("%w: index %d is %T", ErrBadEventItem, i, item),
			})
			continue
		}
		eventType, _ := payload["type"].(string)
		records = append(records, EventRecord{Type: eventType, Payload: payload})
	}

	return records, nil
}
