package semaphore

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// InventoryType says where an inventory's hosts come from.
type InventoryType string

// Inventory types.
const (
	InventoryStatic     InventoryType = "static"
	InventoryStaticYAML InventoryType = "static-yaml"
	InventoryFile       InventoryType = "file"
)

// Inventory is a set of hosts a template runs against.
type Inventory struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	ProjectID    int           `json:"project_id"`
	Inventory    string        `json:"inventory"`
	SSHKeyID     int           `json:"ssh_key_id"`
	BecomeKeyID  int           `json:"become_key_id"`
	Type         InventoryType `json:"type"`
	HolderID     int           `json:"holder_id"`
	RepositoryID int           `json:"repository_id"`
}

// InventoryCreate is the request body for creating an inventory.
// For InventoryFile, Inventory is a path inside the repository.
type InventoryCreate struct {
	ProjectID    int           `json:"project_id"`
	Name         string        `json:"name"`
	Inventory    string        `json:"inventory"`
	SSHKeyID     int           `json:"ssh_key_id"`
	BecomeKeyID  int           `json:"become_key_id,omitempty"`
	Type         InventoryType `json:"type"`
	RepositoryID int           `json:"repository_id,omitempty"`
}

// Validate checks the request before it is sent.
func (i InventoryCreate) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required),
		validation.Field(&i.Type, validation.Required,
			validation.In(InventoryStatic, InventoryStaticYAML, InventoryFile)),
		validation.Field(&i.SSHKeyID, validation.Required, validation.Min(1)),
		validation.Field(&i.BecomeKeyID, validation.Min(0)),
		validation.Field(&i.Inventory, validation.When(i.Type == InventoryFile, validation.Required)),
	)
}

// ListInventories returns the inventories of a project.
func (c *Client) ListInventories(ctx context.Context, projectID int) ([]Inventory, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "inventory"))
	if err != nil {
		return nil, err
	}
	return unmarshalList[Inventory](data, "inventory list")
}

// CreateInventory creates an inventory.
func (c *Client) CreateInventory(ctx context.Context, projectID int, inv *InventoryCreate) (*Inventory, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if inv == nil {
		return nil, invalidRequest("inventory", errNilRequest)
	}
	if err := inv.Validate(); err != nil {
		return nil, invalidRequest("inventory", err)
	}

	body := *inv
	body.ProjectID = projectID
	data, err := c.post(ctx, projectPath(projectID, "inventory"), &body)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Inventory](data, "created inventory")
}

// DeleteInventory deletes an inventory.
func (c *Client) DeleteInventory(ctx context.Context, projectID, inventoryID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if inventoryID <= 0 {
		return ErrInvalidInventoryID
	}

	_, err := c.delete(ctx, projectPath(projectID, "inventory", inventoryID))
	return err
}
