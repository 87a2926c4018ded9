package localization

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-cms-containers/pkg/interfaces"
)

var ErrContentStoreRequired = errors.New("localization: content store is required")

// ContainerChildrenLabelFormat names the synthetic column injected for each
// container child slot.
const ContainerChildrenLabelFormat = "Container Children (%d)"

// Rebuilder adjusts a localization summary so container children follow
// their parent container and container slots show up as columns.
type Rebuilder struct {
	registry interfaces.ContainerRegistry
	store    ContentStore
}

// NewRebuilder constructs a Rebuilder. A nil registry behaves as an empty
// one.
func NewRebuilder(registry interfaces.ContainerRegistry, store ContentStore) *Rebuilder {
	return &Rebuilder{registry: registry, store: store}
}

// Rebuild returns a new payload. The input is never modified. Store errors
// are returned as-is.
func (r *Rebuilder) Rebuild(ctx context.Context, payload Payload) (Payload, error) {
	out := Payload{
		Records: payload.Records.clone(),
		Columns: RebuildColumns(payload.Columns, r.columnDefinitions()),
	}

	uids := collectUIDs(payload.Records)
	if len(uids) == 0 {
		return out, nil
	}
	containers, err := r.LookupContainerUIDs(ctx, uids)
	if err != nil {
		return Payload{}, err
	}
	if len(containers) == 0 {
		return out, nil
	}
	children, err := r.LookupContainerChildren(ctx, uids)
	if err != nil {
		return Payload{}, err
	}
	if len(children) == 0 {
		return out, nil
	}
	out.Records = FilterRecords(out.Records, containers, children)
	return out, nil
}

// LookupContainerUIDs returns the subset of uids whose content type is a
// registered container. No query is issued when nothing is registered.
func (r *Rebuilder) LookupContainerUIDs(ctx context.Context, uids []int64) (UIDSet, error) {
	tags := r.typeTags()
	if len(uids) == 0 || len(tags) == 0 {
		return UIDSet{}, nil
	}
	if r.store == nil {
		return nil, ErrContentStoreRequired
	}
	found, err := r.store.ContainerUIDs(ctx, uids, tags)
	if err != nil {
		return nil, err
	}
	return NewUIDSet(found...), nil
}

// LookupContainerChildren returns the records among uids that sit inside a
// container, keyed by uid.
func (r *Rebuilder) LookupContainerChildren(ctx context.Context, uids []int64) (map[int64]ContentRecord, error) {
	if len(uids) == 0 {
		return map[int64]ContentRecord{}, nil
	}
	if r.store == nil {
		return nil, ErrContentStoreRequired
	}
	rows, err := r.store.ContainerChildren(ctx, uids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]ContentRecord, len(rows))
	for _, row := range rows {
		if !row.IsContainerChild() {
			continue
		}
		out[row.UID] = row
	}
	return out, nil
}

func (r *Rebuilder) typeTags() []string {
	if r.registry == nil {
		return nil
	}
	return r.registry.GetRegisteredContainerTypeTags()
}

func (r *Rebuilder) columnDefinitions() []interfaces.ContainerColumn {
	if r.registry == nil {
		return nil
	}
	return r.registry.GetAllAvailableColumnDefinitions()
}

// FilterRecords drops every record that is a known container child whose
// parent is in containers. Buckets left empty are removed. records is not
// modified.
func FilterRecords(records RecordsByColumn, containers UIDSet, children map[int64]ContentRecord) RecordsByColumn {
	out := make(RecordsByColumn, len(records))
	for pos, bucket := range records {
		kept := make([]ContentRecord, 0, len(bucket))
		for _, record := range bucket {
			child, ok := children[record.UID]
			if ok && child.IsContainerChild() && containers.Has(child.ParentContainerUID) {
				continue
			}
			kept = append(kept, record.clone())
		}
		if len(kept) == 0 {
			continue
		}
		out[pos] = kept
	}
	return out
}

// RebuildColumns adds one labelled column per container slot. Each slot
// position is prepended to the list, then the list is deduplicated keeping
// the first occurrence. Applying it twice yields the same result.
func RebuildColumns(columns ColumnSet, defs []interfaces.ContainerColumn) ColumnSet {
	out := columns.clone()
	if len(defs) == 0 {
		return out
	}
	list := out.List
	for _, def := range defs {
		out.Labels[def.ColumnPosition] = fmt.Sprintf(ContainerChildrenLabelFormat, def.ColumnPosition)
		list = append([]int{def.ColumnPosition}, list...)
	}
	out.List = dedupeInts(list)
	return out
}

func collectUIDs(records RecordsByColumn) []int64 {
	var uids []int64
	for _, pos := range records.Positions() {
		for _, record := range records[pos] {
			uids = append(uids, record.UID)
		}
	}
	return uids
}

func dedupeInts(values []int) []int {
	out := make([]int, 0, len(values))
	for _, value := range values {
		if !slices.Contains(out, value) {
			out = append(out, value)
		}
	}
	return out
}
