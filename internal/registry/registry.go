package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-containers/internal/runtimeconfig"
	"github.com/goliatone/go-cms-containers/pkg/interfaces"
)

var (
	ErrContainerExists = errors.New("registry: container type already registered")
	ErrRegistryNil     = errors.New("registry: registry is nil")
)

const definitionInvalidMessage = "container definition invalid"

// ctypePattern accepts the identifiers hosts use for content types, such as
// b13-2cols, mask_container or b13-2colsWithHeader.
var ctypePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ColumnDefinition is a child slot inside a container grid.
type ColumnDefinition struct {
	Name           string `json:"name"`
	ColumnPosition int    `json:"colPos"`
}

// Validate implements validation.Validatable.
func (c ColumnDefinition) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.ColumnPosition, validation.Min(0)),
	)
}

// ContainerDefinition describes one container content element.
type ContainerDefinition struct {
	CType       string               `json:"ctype"`
	Label       string               `json:"label"`
	Description string               `json:"description,omitempty"`
	Grid        [][]ColumnDefinition `json:"grid"`
}

// Validate implements validation.Validatable.
func (d ContainerDefinition) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.CType, validation.Required,
			validation.Match(ctypePattern).ErrorObject(validation.NewError("containers.registry.ctype_invalid", "ctype must contain only letters, digits, underscores or dashes"))),
		validation.Field(&d.Label, validation.Required),
		validation.Field(&d.Grid, validation.Required, validation.Each(validation.By(validateRow))),
	)
}

// Columns flattens the grid row by row.
func (d ContainerDefinition) Columns() []ColumnDefinition {
	var out []ColumnDefinition
	for _, row := range d.Grid {
		out = append(out, row...)
	}
	return out
}

func validateRow(value any) error {
	row, _ := value.([]ColumnDefinition)
	if len(row) == 0 {
		return validation.NewError("containers.registry.grid_row_empty", "grid row must contain at least one column")
	}
	for _, column := range row {
		if err := column.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Registry keeps container definitions in registration order. It satisfies
// interfaces.ContainerRegistry.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]ContainerDefinition
}

var _ interfaces.ContainerRegistry = (*Registry)(nil)

// New constructs an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]ContainerDefinition),
	}
}

// NewFromConfig registers every configured definition in order.
func NewFromConfig(cfg runtimeconfig.ContainersConfig) (*Registry, error) {
	reg := New()
	for _, defCfg := range cfg.Definitions {
		if err := reg.Register(definitionFromConfig(defCfg)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func definitionFromConfig(cfg runtimeconfig.ContainerDefinitionConfig) ContainerDefinition {
	def := ContainerDefinition{
		CType:       strings.TrimSpace(cfg.CType),
		Label:       strings.TrimSpace(cfg.Label),
		Description: cfg.Description,
		Grid:        make([][]ColumnDefinition, 0, len(cfg.Grid)),
	}
	for _, rowCfg := range cfg.Grid {
		row := make([]ColumnDefinition, 0, len(rowCfg))
		for _, col := range rowCfg {
			row = append(row, ColumnDefinition{
				Name:           strings.TrimSpace(col.Name),
				ColumnPosition: col.ColumnPosition,
			})
		}
		def.Grid = append(def.Grid, row)
	}
	return def
}

// Register validates and records a container definition.
func (r *Registry) Register(def ContainerDefinition) error {
	if r == nil {
		return ErrRegistryNil
	}
	if err := def.Validate(); err != nil {
		return goerrors.FromOzzoValidation(err, definitionInvalidMessage)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]ContainerDefinition)
	}
	if _, exists := r.entries[def.CType]; exists {
		return fmt.Errorf("%w: %s", ErrContainerExists, def.CType)
	}
	r.entries[def.CType] = cloneDefinition(def)
	r.order = append(r.order, def.CType)
	return nil
}

// Get returns the definition registered for ctype.
func (r *Registry) Get(ctype string) (ContainerDefinition, bool) {
	if r == nil {
		return ContainerDefinition{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.entries[strings.TrimSpace(ctype)]
	if !ok {
		return ContainerDefinition{}, false
	}
	return cloneDefinition(def), true
}

// List returns every definition in registration order.
func (r *Registry) List() []ContainerDefinition {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ContainerDefinition, 0, len(r.order))
	for _, ctype := range r.order {
		out = append(out, cloneDefinition(r.entries[ctype]))
	}
	return out
}

// GetRegisteredContainerTypeTags implements interfaces.ContainerRegistry.
func (r *Registry) GetRegisteredContainerTypeTags() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// GetAllAvailableColumnDefinitions implements interfaces.ContainerRegistry.
// Columns are not deduplicated across containers.
func (r *Registry) GetAllAvailableColumnDefinitions() []interfaces.ContainerColumn {
	var out []interfaces.ContainerColumn
	for _, def := range r.List() {
		for _, column := range def.Columns() {
			out = append(out, interfaces.ContainerColumn{
				ColumnPosition: column.ColumnPosition,
				Label:          column.Name,
			})
		}
	}
	return out
}

func cloneDefinition(def ContainerDefinition) ContainerDefinition {
	grid := make([][]ColumnDefinition, len(def.Grid))
	for i, row := range def.Grid {
		grid[i] = append([]ColumnDefinition(nil), row...)
	}
	def.Grid = grid
	return def
}
