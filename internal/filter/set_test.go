package filter

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/lazydash/lazydash/internal/models"
)

func dataTypeOf(s string) models.DataType {
	return models.DataType(s)
}

func TestAddFieldAndSerialize(t *testing.T) {
	s := NewSet()

	if err := s.AddField(nil, "status", nil); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}

	node, ok := s.Root().Get("status")
	if !ok {
		t.Fatal("status not present after AddField")
	}
	leaf, ok := node.(*Leaf)
	if !ok {
		t.Fatal("status is not a leaf")
	}
	if leaf.Value != "" || leaf.Operator != OpEqual {
		t.Errorf("new leaf = {%q, %q}, want {\"\", equal}", leaf.Value, leaf.Operator)
	}

	if err := s.UpdateLeaf(Path{"status"}, LeafValue, "active"); err != nil {
		t.Fatalf("UpdateLeaf failed: %v", err)
	}

	got, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"operator":"AND","filter_item":{"status":{"value":"active","operator":"equal"}}}`
	if string(got) != want {
		t.Errorf("serialized = %s, want %s", got, want)
	}
}

func TestAddFieldErrors(t *testing.T) {
	s := NewSet()
	if err := s.AddField(nil, "", nil); !errors.Is(err, ErrEmptyField) {
		t.Errorf("empty field: err = %v, want ErrEmptyField", err)
	}

	if err := s.AddField(nil, "status", nil); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}
	if err := s.AddField(nil, "status", nil); !errors.Is(err, ErrDuplicateField) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateField", err)
	}

	known := []string{"status", "region"}
	if err := s.AddField(nil, "bogus", known); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown: err = %v, want ErrUnknownField", err)
	}
	if err := s.AddField(nil, "region", known); err != nil {
		t.Errorf("known field rejected: %v", err)
	}
}

func TestAddThenDeleteRestoresKeySet(t *testing.T) {
	s := NewSet()
	for _, code := range []string{"status", "region"} {
		if err := s.AddField(nil, code, nil); err != nil {
			t.Fatalf("AddField(%q) failed: %v", code, err)
		}
	}
	before := s.Root().Keys()

	if err := s.AddField(nil, "category", nil); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}
	if err := s.Delete(Path{"category"}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	after := s.Root().Keys()
	sort.Strings(before)
	sort.Strings(after)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("key set after add+delete = %v, want %v", after, before)
	}
}

func TestAddGroupKeyGeneration(t *testing.T) {
	s := NewSet()

	key, err := s.AddGroup(nil)
	if err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}
	if key != "group_1" {
		t.Errorf("first group key = %q, want group_1", key)
	}

	key, err = s.AddGroup(nil)
	if err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}
	if key != "group_2" {
		t.Errorf("second group key = %q, want group_2", key)
	}

	// Occupied indices are skipped, never collided with.
	if err := s.Delete(Path{"group_1"}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	key, err = s.AddGroup(nil)
	if err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}
	if key != "group_1" {
		t.Errorf("reused group key = %q, want group_1", key)
	}
	if !s.Root().Has("group_2") {
		t.Error("group_2 lost while regenerating group_1")
	}
}

func TestAddGroupOnManuallyOccupiedKey(t *testing.T) {
	s := NewSet()
	s.Root().insert("group_1", NewGroup())

	key, err := s.AddGroup(nil)
	if err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}
	if key != "group_2" {
		t.Errorf("group key = %q, want group_2", key)
	}
}

func TestNestedGroupOperations(t *testing.T) {
	s := NewSet()
	key, err := s.AddGroup(nil)
	if err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}

	groupPath := Path{key}
	if err := s.AddField(groupPath, "region", nil); err != nil {
		t.Fatalf("AddField in group failed: %v", err)
	}
	if err := s.UpdateLeaf(groupPath.Child("region"), LeafOperator, "contains"); err != nil {
		t.Fatalf("UpdateLeaf failed: %v", err)
	}
	if err := s.UpdateGroupOperator(groupPath, LogicOr); err != nil {
		t.Fatalf("UpdateGroupOperator failed: %v", err)
	}

	node, _ := s.Root().Get(key)
	group := node.(*Group)
	if group.Logic != LogicOr {
		t.Errorf("group logic = %q, want OR", group.Logic)
	}
	// The root's own operator is independent of its children's.
	if s.Root().Logic != LogicAnd {
		t.Errorf("root logic = %q, want AND", s.Root().Logic)
	}

	// Deleting the group removes the whole subtree.
	if err := s.Delete(groupPath); err != nil {
		t.Fatalf("Delete group failed: %v", err)
	}
	if s.Root().Has(key) {
		t.Error("group still present after delete")
	}
}

func TestUpdateLeafOnGroupFails(t *testing.T) {
	s := NewSet()
	key, _ := s.AddGroup(nil)

	err := s.UpdateLeaf(Path{key}, LeafValue, "x")
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("err = %v, want ErrTypeMismatch", err)
	}
}

func TestPathNotFound(t *testing.T) {
	s := NewSet()
	if err := s.UpdateLeaf(Path{"missing"}, LeafValue, "x"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("UpdateLeaf err = %v, want ErrPathNotFound", err)
	}
	if err := s.Delete(Path{"missing"}); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Delete err = %v, want ErrPathNotFound", err)
	}
	if _, err := s.AddGroup(Path{"missing"}); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("AddGroup err = %v, want ErrPathNotFound", err)
	}
}

func TestInvalidOperatorRejected(t *testing.T) {
	s := NewSet()
	if err := s.AddField(nil, "status", nil); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}
	err := s.UpdateLeaf(Path{"status"}, LeafOperator, "between")
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
}

func TestRemainingFields(t *testing.T) {
	s := NewSet()
	available := []string{"status", "region", "category"}

	if err := s.AddField(nil, "region", available); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}

	got := s.RemainingFields(nil, available)
	want := []string{"status", "category"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RemainingFields = %v, want %v", got, want)
	}
}

func TestRoundTripStability(t *testing.T) {
	s := NewSet()
	if err := s.AddField(nil, "status", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateLeaf(Path{"status"}, LeafValue, "active"); err != nil {
		t.Fatal(err)
	}
	key, err := s.AddGroup(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddField(Path{key}, "region", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateLeaf(Path{key, "region"}, LeafOperator, "contains"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateLeaf(Path{key, "region"}, LeafValue, "west"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateGroupOperator(Path{key}, LogicOr); err != nil {
		t.Fatal(err)
	}

	first, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	parsed, err := Parse(first)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	second, err := json.Marshal(parsed)
	if err != nil {
		t.Fatalf("re-Marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("round trip diverged:\n first = %s\nsecond = %s", first, second)
	}

	// Twice more for good measure: serialize(parse(serialize(x))) is stable.
	reparsed, err := Parse(second)
	if err != nil {
		t.Fatalf("second Parse failed: %v", err)
	}
	third, err := json.Marshal(reparsed)
	if err != nil {
		t.Fatalf("third Marshal failed: %v", err)
	}
	if string(second) != string(third) {
		t.Errorf("second round trip diverged")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad logic", `{"operator":"XOR","filter_item":{}}`},
		{"bad operator", `{"operator":"AND","filter_item":{"a":{"value":"1","operator":"between"}}}`},
		{"filter_item not object", `{"operator":"AND","filter_item":[]}`},
		{"not json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.in)); err == nil {
				t.Errorf("Parse(%s) succeeded, want error", tt.in)
			}
		})
	}
}

func TestWirePayload(t *testing.T) {
	s := NewSet()
	if got := s.Wire(); len(got) != 0 {
		t.Errorf("empty set Wire() has %d groups, want 0", len(got))
	}

	if err := s.AddField(nil, "status", nil); err != nil {
		t.Fatal(err)
	}
	wire := s.Wire()
	if len(wire) != 1 {
		t.Fatalf("Wire() has %d groups, want 1", len(wire))
	}
	data, err := json.Marshal(wire)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `[{"operator":"AND","filter_item":{"status":{"value":"","operator":"equal"}}}]`
	if string(data) != want {
		t.Errorf("wire payload = %s, want %s", data, want)
	}
}

func TestLeaves(t *testing.T) {
	s := NewSet()
	if err := s.AddField(nil, "status", nil); err != nil {
		t.Fatal(err)
	}
	key, _ := s.AddGroup(nil)
	if err := s.AddField(Path{key}, "region", nil); err != nil {
		t.Fatal(err)
	}

	leaves := s.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("Leaves() returned %d entries, want 2", len(leaves))
	}
	if !reflect.DeepEqual(leaves[0].Path, Path{"status"}) {
		t.Errorf("first leaf path = %v, want [status]", leaves[0].Path)
	}
	if !reflect.DeepEqual(leaves[1].Path, Path{key, "region"}) {
		t.Errorf("second leaf path = %v, want [%s region]", leaves[1].Path, key)
	}
}

func TestStore(t *testing.T) {
	st := NewStore()

	a := st.Get("orders__default")
	if a == nil || !a.IsEmpty() {
		t.Fatal("first Get should create an empty set")
	}
	if st.Get("orders__default") != a {
		t.Error("Get returned a different set for the same target")
	}

	if err := a.AddField(nil, "status", nil); err != nil {
		t.Fatal(err)
	}
	if got := st.Targets(); !reflect.DeepEqual(got, []string{"orders__default"}) {
		t.Errorf("Targets = %v", got)
	}

	st.Reset("orders__default")
	if !st.Get("orders__default").IsEmpty() {
		t.Error("set survived Reset")
	}
}

func TestOperatorsForType(t *testing.T) {
	tests := []struct {
		dataType     string
		wantContains bool
		wantOrdering bool
	}{
		{"Text", true, false},
		{"Number", false, true},
		{"Date", false, true},
		{"DateTime", false, true},
		{"Timestamptz", false, true},
		{"Bool", false, false},
		{"Unknowable", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			ops := OperatorsForType(dataTypeOf(tt.dataType))
			if got := hasOp(ops, OpContains); got != tt.wantContains {
				t.Errorf("contains offered = %v, want %v", got, tt.wantContains)
			}
			if got := hasOp(ops, OpGreaterThan); got != tt.wantOrdering {
				t.Errorf("greater_than offered = %v, want %v", got, tt.wantOrdering)
			}
		})
	}
}

func hasOp(ops []Operator, op Operator) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}
