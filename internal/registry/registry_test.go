package registry

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-containers/internal/runtimeconfig"
	"github.com/goliatone/go-cms-containers/pkg/interfaces"
)

func twoColumns() ContainerDefinition {
	return ContainerDefinition{
		CType: "b13-2cols",
		Label: "Two columns",
		Grid: [][]ColumnDefinition{
			{{Name: "left", ColumnPosition: 201}, {Name: "right", ColumnPosition: 202}},
		},
	}
}

func TestRegistry_RegisterAndEnumerate(t *testing.T) {
	reg := New()
	if err := reg.Register(twoColumns()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(ContainerDefinition{
		CType: "b13-tabs",
		Label: "Tabs",
		Grid: [][]ColumnDefinition{
			{{Name: "header", ColumnPosition: 300}},
			{{Name: "body", ColumnPosition: 301}},
		},
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tags := reg.GetRegisteredContainerTypeTags()
	if len(tags) != 2 || tags[0] != "b13-2cols" || tags[1] != "b13-tabs" {
		t.Fatalf("unexpected type tags %v", tags)
	}

	columns := reg.GetAllAvailableColumnDefinitions()
	want := []interfaces.ContainerColumn{
		{ColumnPosition: 201, Label: "left"},
		{ColumnPosition: 202, Label: "right"},
		{ColumnPosition: 300, Label: "header"},
		{ColumnPosition: 301, Label: "body"},
	}
	if len(columns) != len(want) {
		t.Fatalf("expected %d columns got %d (%v)", len(want), len(columns), columns)
	}
	for i := range want {
		if columns[i] != want[i] {
			t.Fatalf("column %d: expected %+v got %+v", i, want[i], columns[i])
		}
	}

	if _, ok := reg.Get("b13-tabs"); !ok {
		t.Fatalf("expected b13-tabs to be registered")
	}
	if _, ok := reg.Get("text"); ok {
		t.Fatalf("expected text not to be a container")
	}
}

func TestRegistry_AcceptsUnderscoreAndMixedCaseTypes(t *testing.T) {
	reg := New()
	for _, ctype := range []string{"b13_2cols", "mask_container", "b13-2colsWithHeader"} {
		def := twoColumns()
		def.CType = ctype
		if err := reg.Register(def); err != nil {
			t.Fatalf("Register(%q) error = %v", ctype, err)
		}
	}

	tags := reg.GetRegisteredContainerTypeTags()
	want := []string{"b13_2cols", "mask_container", "b13-2colsWithHeader"}
	if len(tags) != len(want) {
		t.Fatalf("expected tags %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("expected tags %v, got %v", want, tags)
		}
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	reg := New()
	if err := reg.Register(twoColumns()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(twoColumns()); !errors.Is(err, ErrContainerExists) {
		t.Fatalf("expected ErrContainerExists, got %v", err)
	}
}

func TestRegistry_RejectsInvalidDefinitions(t *testing.T) {
	cases := map[string]ContainerDefinition{
		"missing ctype": {Label: "x", Grid: twoColumns().Grid},
		"ctype spaces":  {CType: "Two Cols!", Label: "x", Grid: twoColumns().Grid},
		"missing label": {CType: "b13-2cols", Grid: twoColumns().Grid},
		"missing grid":  {CType: "b13-2cols", Label: "x"},
		"empty row":     {CType: "b13-2cols", Label: "x", Grid: [][]ColumnDefinition{{}}},
		"negative colpos": {CType: "b13-2cols", Label: "x", Grid: [][]ColumnDefinition{
			{{Name: "left", ColumnPosition: -1}},
		}},
		"unnamed column": {CType: "b13-2cols", Label: "x", Grid: [][]ColumnDefinition{
			{{ColumnPosition: 200}},
		}},
	}
	for name, def := range cases {
		t.Run(name, func(t *testing.T) {
			err := New().Register(def)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
		})
	}
}

func TestRegistry_ValidationReportsField(t *testing.T) {
	err := New().Register(ContainerDefinition{Label: "x", Grid: twoColumns().Grid})
	issues, ok := goerrors.GetValidationErrors(err)
	if !ok {
		t.Fatalf("expected validation issues, got %v", err)
	}
	found := false
	for _, issue := range issues {
		if issue.Field == "ctype" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ctype issue, got %v", issues)
	}
}

func TestRegistry_EmptyRegistryDeclaresNothing(t *testing.T) {
	reg := New()
	if tags := reg.GetRegisteredContainerTypeTags(); len(tags) != 0 {
		t.Fatalf("expected no type tags, got %v", tags)
	}
	if columns := reg.GetAllAvailableColumnDefinitions(); len(columns) != 0 {
		t.Fatalf("expected no columns, got %v", columns)
	}
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	reg := New()
	if err := reg.Register(twoColumns()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	def, _ := reg.Get("b13-2cols")
	def.Grid[0][0].ColumnPosition = 999

	again, _ := reg.Get("b13-2cols")
	if again.Grid[0][0].ColumnPosition != 201 {
		t.Fatalf("expected registry to be isolated from caller mutation")
	}
}

func TestNewFromConfig(t *testing.T) {
	reg, err := NewFromConfig(runtimeconfig.ContainersConfig{
		Definitions: []runtimeconfig.ContainerDefinitionConfig{
			{
				CType: " b13-2cols ",
				Label: "Two columns",
				Grid: [][]runtimeconfig.ColumnDefinitionConfig{
					{{Name: "left", ColumnPosition: 201}},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	if _, ok := reg.Get("b13-2cols"); !ok {
		t.Fatalf("expected trimmed ctype to be registered")
	}

	_, err = NewFromConfig(runtimeconfig.ContainersConfig{
		Definitions: []runtimeconfig.ContainerDefinitionConfig{{CType: "b13-2cols"}},
	})
	if err == nil {
		t.Fatal("expected invalid config to fail")
	}
}
