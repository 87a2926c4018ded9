package localization

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
)

// Field names used by the content table and by host payload records.
const (
	FieldUID             = "uid"
	FieldColumnPosition  = "colPos"
	FieldContainerParent = "tx_container_parent"
	FieldContentType     = "CType"
)

// ContentRecord is a projection of one content element row.
type ContentRecord struct {
	UID                int64
	ColumnPosition     int
	ParentContainerUID int64
	ContentType        string
	// Fields holds the original record object. When present it is what gets
	// serialized, so host attributes such as title or icon pass through.
	Fields map[string]any
}

// IsContainerChild reports whether the record points at a parent container.
func (r ContentRecord) IsContainerChild() bool {
	return r.ParentContainerUID != 0
}

// MarshalJSON emits the original fields when known, the typed projection
// otherwise.
func (r ContentRecord) MarshalJSON() ([]byte, error) {
	if r.Fields != nil {
		return json.Marshal(r.Fields)
	}
	return json.Marshal(map[string]any{
		FieldUID:             r.UID,
		FieldColumnPosition:  r.ColumnPosition,
		FieldContainerParent: r.ParentContainerUID,
		FieldContentType:     r.ContentType,
	})
}

func (r ContentRecord) clone() ContentRecord {
	if r.Fields != nil {
		r.Fields = maps.Clone(r.Fields)
	}
	return r
}

// ColumnSet is the column descriptor of a localization summary.
type ColumnSet struct {
	Labels map[int]string `json:"columns"`
	List   []int          `json:"columnList"`
}

// MarshalJSON keeps empty collections as {} and [] instead of null.
func (c ColumnSet) MarshalJSON() ([]byte, error) {
	labels := make(map[string]string, len(c.Labels))
	for pos, label := range c.Labels {
		labels[strconv.Itoa(pos)] = label
	}
	list := c.List
	if list == nil {
		list = []int{}
	}
	return json.Marshal(struct {
		Labels map[string]string `json:"columns"`
		List   []int             `json:"columnList"`
	}{Labels: labels, List: list})
}

func (c ColumnSet) clone() ColumnSet {
	labels := make(map[int]string, len(c.Labels))
	maps.Copy(labels, c.Labels)
	return ColumnSet{Labels: labels, List: slices.Clone(c.List)}
}

// RecordsByColumn groups records by column position.
type RecordsByColumn map[int][]ContentRecord

// Positions returns the column positions in ascending order.
func (r RecordsByColumn) Positions() []int {
	positions := slices.Collect(maps.Keys(r))
	slices.Sort(positions)
	return positions
}

// Count returns the number of records across every column.
func (r RecordsByColumn) Count() int {
	total := 0
	for _, records := range r {
		total += len(records)
	}
	return total
}

// MarshalJSON renders an empty mapping as {}.
func (r RecordsByColumn) MarshalJSON() ([]byte, error) {
	out := make(map[string][]ContentRecord, len(r))
	for pos, records := range r {
		if records == nil {
			records = []ContentRecord{}
		}
		out[strconv.Itoa(pos)] = records
	}
	return json.Marshal(out)
}

func (r RecordsByColumn) clone() RecordsByColumn {
	out := make(RecordsByColumn, len(r))
	for pos, records := range r {
		copied := make([]ContentRecord, len(records))
		for i, record := range records {
			copied[i] = record.clone()
		}
		out[pos] = copied
	}
	return out
}

// Payload is the body of a localization summary response.
type Payload struct {
	Records RecordsByColumn `json:"records"`
	Columns ColumnSet       `json:"columns"`
}

// UnmarshalJSON decodes a host payload through DecodePayload.
func (p *Payload) UnmarshalJSON(data []byte) error {
	decoded, err := DecodePayload(data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Clone returns a deep copy of the payload.
func (p Payload) Clone() Payload {
	return Payload{
		Records: p.Records.clone(),
		Columns: p.Columns.clone(),
	}
}

// UIDSet is a set of content element uids.
type UIDSet map[int64]struct{}

// NewUIDSet builds a set from uids.
func NewUIDSet(uids ...int64) UIDSet {
	set := make(UIDSet, len(uids))
	for _, uid := range uids {
		set[uid] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s UIDSet) Has(uid int64) bool {
	_, ok := s[uid]
	return ok
}
