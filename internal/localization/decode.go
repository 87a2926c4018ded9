package localization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to decode failures. Payload failures come from the host
// summary or a request body; record failures come from the content table.
const (
	PayloadDecodeTextCode = "PAYLOAD_DECODE_FAILED"
	RecordDecodeTextCode  = "RECORD_DECODE_FAILED"
)

// DecodeError reports a missing or mistyped field in a payload or row.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("localization: decode %s: %s", e.Field, e.Reason)
}

func missing(field string) error {
	return &DecodeError{Field: field, Reason: "missing"}
}

func mistyped(field, want string, value any) error {
	return &DecodeError{Field: field, Reason: fmt.Sprintf("expected %s, got %T", want, value)}
}

// DecodePayload parses a host localization summary body. Both "records" and
// "columns" are required. Column-keyed collections may arrive as objects or,
// when the host serialized sequential keys, as arrays indexed by position.
func DecodePayload(data []byte) (Payload, error) {
	payload, err := decodePayload(data)
	if err != nil {
		return Payload{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "localization payload decode failed").
			WithTextCode(PayloadDecodeTextCode)
	}
	return payload, nil
}

// DecodeRecord maps a raw content table row onto a ContentRecord. uid,
// tx_container_parent and CType are required; colPos is optional.
func DecodeRecord(row map[string]any) (ContentRecord, error) {
	record, err := decodeRow(row)
	if err != nil {
		return ContentRecord{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "content record decode failed").
			WithTextCode(RecordDecodeTextCode)
	}
	return record, nil
}

func decodeRow(row map[string]any) (ContentRecord, error) {
	uid, err := requireInt(row, FieldUID, FieldUID)
	if err != nil {
		return ContentRecord{}, err
	}
	parent, err := requireInt(row, FieldContainerParent, FieldContainerParent)
	if err != nil {
		return ContentRecord{}, err
	}
	raw, ok := row[FieldContentType]
	if !ok {
		return ContentRecord{}, missing(FieldContentType)
	}
	ctype, ok := asString(raw)
	if !ok {
		return ContentRecord{}, mistyped(FieldContentType, "string", raw)
	}
	colPos, _, err := optionalInt(row, FieldColumnPosition, FieldColumnPosition)
	if err != nil {
		return ContentRecord{}, err
	}

	fields := make(map[string]any, len(row))
	for key, value := range row {
		if b, isBytes := value.([]byte); isBytes {
			value = string(b)
		}
		fields[key] = value
	}
	return ContentRecord{
		UID:                uid,
		ColumnPosition:     int(colPos),
		ParentContainerUID: parent,
		ContentType:        ctype,
		Fields:             fields,
	}, nil
}

func decodePayload(data []byte) (Payload, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return Payload{}, &DecodeError{Field: "payload", Reason: err.Error()}
	}

	recordsRaw, ok := raw["records"]
	if !ok {
		return Payload{}, missing("records")
	}
	columnsRaw, ok := raw["columns"]
	if !ok {
		return Payload{}, missing("columns")
	}

	records, err := decodeRecordsByColumn(recordsRaw)
	if err != nil {
		return Payload{}, err
	}
	columns, err := decodeColumnSet(columnsRaw)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Records: records, Columns: columns}, nil
}

type keyedValue struct {
	position int
	value    any
}

// positionEntries flattens an object keyed by column position, or a list
// indexed by it, into position/value pairs.
func positionEntries(field string, value any) ([]keyedValue, error) {
	switch typed := value.(type) {
	case map[string]any:
		out := make([]keyedValue, 0, len(typed))
		for key, item := range typed {
			pos, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil {
				return nil, &DecodeError{Field: field + "." + key, Reason: "column position must be an integer"}
			}
			out = append(out, keyedValue{position: pos, value: item})
		}
		return out, nil
	case []any:
		out := make([]keyedValue, 0, len(typed))
		for i, item := range typed {
			out = append(out, keyedValue{position: i, value: item})
		}
		return out, nil
	default:
		return nil, mistyped(field, "object", value)
	}
}

func decodeRecordsByColumn(value any) (RecordsByColumn, error) {
	entries, err := positionEntries("records", value)
	if err != nil {
		return nil, err
	}
	out := make(RecordsByColumn, len(entries))
	for _, entry := range entries {
		field := fmt.Sprintf("records.%d", entry.position)
		items, ok := entry.value.([]any)
		if !ok {
			return nil, mistyped(field, "array", entry.value)
		}
		records := make([]ContentRecord, 0, len(items))
		for i, item := range items {
			itemField := fmt.Sprintf("%s.%d", field, i)
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, mistyped(itemField, "object", item)
			}
			record, err := decodePayloadRecord(itemField, obj)
			if err != nil {
				return nil, err
			}
			record.ColumnPosition = entry.position
			records = append(records, record)
		}
		out[entry.position] = records
	}
	return out, nil
}

// decodePayloadRecord only requires uid: host summaries carry display fields
// rather than the full row.
func decodePayloadRecord(field string, obj map[string]any) (ContentRecord, error) {
	uid, err := requireInt(obj, FieldUID, field+"."+FieldUID)
	if err != nil {
		return ContentRecord{}, err
	}
	parent, _, err := optionalInt(obj, FieldContainerParent, field+"."+FieldContainerParent)
	if err != nil {
		return ContentRecord{}, err
	}
	record := ContentRecord{
		UID:                uid,
		ParentContainerUID: parent,
		Fields:             obj,
	}
	if raw, ok := obj[FieldContentType]; ok {
		ctype, ok := asString(raw)
		if !ok {
			return ContentRecord{}, mistyped(field+"."+FieldContentType, "string", raw)
		}
		record.ContentType = ctype
	}
	return record, nil
}

func decodeColumnSet(value any) (ColumnSet, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return ColumnSet{}, mistyped("columns", "object", value)
	}

	labelsRaw, ok := obj["columns"]
	if !ok {
		return ColumnSet{}, missing("columns.columns")
	}
	entries, err := positionEntries("columns.columns", labelsRaw)
	if err != nil {
		return ColumnSet{}, err
	}
	labels := make(map[int]string, len(entries))
	for _, entry := range entries {
		label, ok := asString(entry.value)
		if !ok {
			return ColumnSet{}, mistyped(fmt.Sprintf("columns.columns.%d", entry.position), "string", entry.value)
		}
		labels[entry.position] = label
	}

	listRaw, ok := obj["columnList"]
	if !ok {
		return ColumnSet{}, missing("columns.columnList")
	}
	var items []any
	switch typed := listRaw.(type) {
	case []any:
		items = typed
	case map[string]any:
		// lists with gaps arrive keyed by index
		entries, err := positionEntries("columns.columnList", typed)
		if err != nil {
			return ColumnSet{}, err
		}
		items = orderedValues(entries)
	default:
		return ColumnSet{}, mistyped("columns.columnList", "array", listRaw)
	}
	list := make([]int, 0, len(items))
	for i, item := range items {
		pos, err := asInt(item)
		if err != nil {
			return ColumnSet{}, mistyped(fmt.Sprintf("columns.columnList.%d", i), "integer", item)
		}
		list = append(list, int(pos))
	}
	return ColumnSet{Labels: labels, List: list}, nil
}

func orderedValues(entries []keyedValue) []any {
	byPos := make(map[int]any, len(entries))
	positions := make([]int, 0, len(entries))
	for _, entry := range entries {
		byPos[entry.position] = entry.value
		positions = append(positions, entry.position)
	}
	slices.Sort(positions)
	out := make([]any, 0, len(positions))
	for _, pos := range positions {
		out = append(out, byPos[pos])
	}
	return out
}

func requireInt(obj map[string]any, key, field string) (int64, error) {
	value, present, err := optionalInt(obj, key, field)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, missing(field)
	}
	return value, nil
}

func optionalInt(obj map[string]any, key, field string) (int64, bool, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	value, err := asInt(raw)
	if err != nil {
		return 0, true, mistyped(field, "integer", raw)
	}
	return value, true, nil
}

func asInt(value any) (int64, error) {
	switch typed := value.(type) {
	case json.Number:
		return strconv.ParseInt(typed.String(), 10, 64)
	case int:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case uint32:
		return int64(typed), nil
	case float64:
		if typed != math.Trunc(typed) {
			return 0, fmt.Errorf("non-integral number %v", typed)
		}
		return int64(typed), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(typed)), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

func asString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case []byte:
		return string(typed), true
	default:
		return "", false
	}
}
