package localization

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-containers/pkg/interfaces"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type stubRegistry struct {
	tags    []string
	columns []interfaces.ContainerColumn
}

func (s stubRegistry) GetRegisteredContainerTypeTags() []string { return s.tags }

func (s stubRegistry) GetAllAvailableColumnDefinitions() []interfaces.ContainerColumn {
	return s.columns
}

var twoColumns = stubRegistry{
	tags: []string{"b13-2cols"},
	columns: []interfaces.ContainerColumn{
		{ColumnPosition: 200, Label: "left"},
		{ColumnPosition: 201, Label: "right"},
	},
}

func record(uid, parent int64) ContentRecord {
	return ContentRecord{UID: uid, ParentContainerUID: parent}
}

func samplePayload() Payload {
	return Payload{
		Records: RecordsByColumn{
			0: {record(1, 0)},
			1: {record(2, 1)},
		},
		Columns: ColumnSet{
			Labels: map[int]string{0: "Main", 1: "Aside"},
			List:   []int{0, 1},
		},
	}
}

func sampleStore() *MemoryContentStore {
	return NewMemoryContentStore(
		ContentRecord{UID: 1, ContentType: "b13-2cols"},
		ContentRecord{UID: 2, ContentType: "text", ParentContainerUID: 1, ColumnPosition: 200},
	)
}

func diffPayload(t *testing.T, want, got Payload) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildDropsChildrenOfPendingContainers(t *testing.T) {
	rebuilder := NewRebuilder(twoColumns, sampleStore())

	got, err := rebuilder.Rebuild(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	want := Payload{
		Records: RecordsByColumn{0: {record(1, 0)}},
		Columns: ColumnSet{
			Labels: map[int]string{
				0:   "Main",
				1:   "Aside",
				200: "Container Children (200)",
				201: "Container Children (201)",
			},
			List: []int{201, 200, 0, 1},
		},
	}
	diffPayload(t, want, got)
}

func TestRebuildKeepsRecordsWhenNoContainerFound(t *testing.T) {
	store := NewMemoryContentStore(
		ContentRecord{UID: 1, ContentType: "text"},
		ContentRecord{UID: 2, ContentType: "text", ParentContainerUID: 1},
	)
	rebuilder := NewRebuilder(twoColumns, store)

	got, err := rebuilder.Rebuild(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	diffPayload(t, Payload{Records: samplePayload().Records}, Payload{Records: got.Records})
	if diff := cmp.Diff([]int{201, 200, 0, 1}, got.Columns.List); diff != "" {
		t.Fatalf("columns not rebuilt (-want +got):\n%s", diff)
	}
	if store.Queries() != 1 {
		t.Fatalf("expected children lookup to be skipped, got %d queries", store.Queries())
	}
}

func TestRebuildKeepsChildrenOfContainersNotInSummary(t *testing.T) {
	store := NewMemoryContentStore(
		ContentRecord{UID: 1, ContentType: "text"},
		ContentRecord{UID: 2, ContentType: "text", ParentContainerUID: 99},
		ContentRecord{UID: 3, ContentType: "b13-2cols"},
	)
	payload := samplePayload()
	payload.Records[2] = []ContentRecord{record(3, 0)}

	got, err := NewRebuilder(twoColumns, store).Rebuild(context.Background(), payload)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if got.Records.Count() != 3 {
		t.Fatalf("expected all records kept, got %d", got.Records.Count())
	}
}

func TestRebuildColumnsOverwritesLabels(t *testing.T) {
	cases := []struct {
		name     string
		position int
		want     ColumnSet
	}{
		{
			name:     "already first",
			position: 5,
			want: ColumnSet{
				Labels: map[int]string{5: "Container Children (5)"},
				List:   []int{5, 0, 1},
			},
		},
		{
			name:     "new position",
			position: 9,
			want: ColumnSet{
				Labels: map[int]string{5: "Old", 9: "Container Children (9)"},
				List:   []int{9, 5, 0, 1},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := ColumnSet{Labels: map[int]string{5: "Old"}, List: []int{5, 0, 1}}
			defs := []interfaces.ContainerColumn{{ColumnPosition: tc.position, Label: "X"}}

			got := RebuildColumns(input, defs)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("columns mismatch (-want +got):\n%s", diff)
			}
			if input.Labels[5] != "Old" || len(input.List) != 3 {
				t.Fatalf("input columns mutated: %+v", input)
			}
		})
	}
}

func TestRebuildColumnsIsIdempotent(t *testing.T) {
	input := ColumnSet{Labels: map[int]string{0: "Main", 200: "Host"}, List: []int{0, 200, 1}}

	once := RebuildColumns(input, twoColumns.columns)
	twice := RebuildColumns(once, twoColumns.columns)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second pass changed columns (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff([]int{201, 200, 0, 1}, once.List); diff != "" {
		t.Fatalf("unexpected list (-want +got):\n%s", diff)
	}
}

func TestRebuildColumnsWithoutDefinitions(t *testing.T) {
	input := ColumnSet{Labels: map[int]string{0: "Main"}, List: []int{0, 0, 1}}
	got := RebuildColumns(input, nil)
	if diff := cmp.Diff(input, got); diff != "" {
		t.Fatalf("expected columns untouched (-want +got):\n%s", diff)
	}
}

func TestRebuildSkipsQueriesWithEmptyRegistry(t *testing.T) {
	store := sampleStore()
	rebuilder := NewRebuilder(stubRegistry{}, store)

	got, err := rebuilder.Rebuild(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	diffPayload(t, samplePayload(), got)
	if store.Queries() != 0 {
		t.Fatalf("expected no queries, got %d", store.Queries())
	}
}

func TestRebuildWithoutRecordsIssuesNoQuery(t *testing.T) {
	store := sampleStore()
	payload := Payload{
		Records: RecordsByColumn{},
		Columns: ColumnSet{Labels: map[int]string{}, List: []int{}},
	}

	got, err := NewRebuilder(twoColumns, store).Rebuild(context.Background(), payload)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(got.Records) != 0 {
		t.Fatalf("expected no records, got %+v", got.Records)
	}
	if len(got.Columns.List) != 2 {
		t.Fatalf("expected container columns, got %+v", got.Columns.List)
	}
	if store.Queries() != 0 {
		t.Fatalf("expected no queries, got %d", store.Queries())
	}
}

func TestRebuildPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	store := sampleStore()
	store.FailWith(boom)

	_, err := NewRebuilder(twoColumns, store).Rebuild(context.Background(), samplePayload())
	if err != boom {
		t.Fatalf("expected store error unchanged, got %v", err)
	}
}

func TestRebuildDoesNotMutateInput(t *testing.T) {
	payload := samplePayload()
	payload.Records[1][0].Fields = map[string]any{"uid": 2, "title": "child"}
	before := payload.Clone()

	got, err := NewRebuilder(twoColumns, sampleStore()).Rebuild(context.Background(), payload)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	diffPayload(t, before, payload)

	got.Records[0][0].UID = 42
	got.Columns.Labels[0] = "changed"
	diffPayload(t, before, payload)
}

func TestRebuildIsIdempotent(t *testing.T) {
	rebuilder := NewRebuilder(twoColumns, sampleStore())

	once, err := rebuilder.Rebuild(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	twice, err := rebuilder.Rebuild(context.Background(), once)
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	diffPayload(t, once, twice)
}

func TestFilterRecordsNeverDropsTopLevelRecords(t *testing.T) {
	records := RecordsByColumn{0: {record(1, 0), record(3, 0)}}
	children := map[int64]ContentRecord{
		1: {UID: 1, ParentContainerUID: 0},
	}

	got := FilterRecords(records, NewUIDSet(1, 3), children)
	diffPayload(t, Payload{Records: records}, Payload{Records: got})
}

func TestFilterRecordsDropsEmptyBuckets(t *testing.T) {
	records := RecordsByColumn{
		0: {record(1, 0)},
		1: {record(2, 1), record(4, 1)},
		2: {},
	}
	children := map[int64]ContentRecord{
		2: {UID: 2, ParentContainerUID: 1},
		4: {UID: 4, ParentContainerUID: 1},
	}

	got := FilterRecords(records, NewUIDSet(1), children)
	if _, ok := got[1]; ok {
		t.Fatalf("expected bucket 1 dropped, got %+v", got[1])
	}
	if _, ok := got[2]; ok {
		t.Fatalf("expected empty bucket 2 dropped")
	}
	if len(got[0]) != 1 {
		t.Fatalf("expected bucket 0 kept, got %+v", got[0])
	}
}

func TestLookupContainerChildrenIgnoresTopLevelRows(t *testing.T) {
	store := sampleStore()
	rebuilder := NewRebuilder(twoColumns, store)

	children, err := rebuilder.LookupContainerChildren(context.Background(), []int64{1, 2, 2})
	if err != nil {
		t.Fatalf("lookup children: %v", err)
	}
	if len(children) != 1 || children[2].ParentContainerUID != 1 {
		t.Fatalf("unexpected children: %+v", children)
	}
}

func TestLookupWithoutStore(t *testing.T) {
	rebuilder := NewRebuilder(twoColumns, nil)
	if _, err := rebuilder.LookupContainerUIDs(context.Background(), []int64{1}); !errors.Is(err, ErrContentStoreRequired) {
		t.Fatalf("expected ErrContentStoreRequired, got %v", err)
	}
}
