package interfaces

// ContainerColumn describes a column position that holds the children of a
// container element.
type ContainerColumn struct {
	ColumnPosition int    `json:"colPos"`
	Label          string `json:"label"`
}

// ContainerRegistry exposes the container facts the localization summary
// depends on. Implementations are read-only from the consumer's point of view.
type ContainerRegistry interface {
	// GetRegisteredContainerTypeTags returns the content type tags (CType)
	// that identify container elements.
	GetRegisteredContainerTypeTags() []string
	// GetAllAvailableColumnDefinitions returns every container child column
	// in registration order.
	GetAllAvailableColumnDefinitions() []ContainerColumn
}
