package semaphore

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// KeyType is the kind of credential an access key stores.
type KeyType string

// Access key types.
const (
	KeyTypeNone          KeyType = "none"
	KeyTypeSSH           KeyType = "ssh"
	KeyTypeLoginPassword KeyType = "login_password"
)

// KeySSH is the secret of an ssh key.
type KeySSH struct {
	Login      string `json:"login"`
	Passphrase string `json:"passphrase"`
	PrivateKey string `json:"private_key"`
}

// KeyLoginPassword is the secret of a login/password key.
type KeyLoginPassword struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Key is an access key used by repositories, inventories and templates.
// The server never returns secret values; LoginPassword and SSH come back empty.
type Key struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Type           KeyType          `json:"type"`
	ProjectID      int              `json:"project_id"`
	String         string           `json:"string,omitempty"`
	OverrideSecret bool             `json:"override_secret"`
	LoginPassword  KeyLoginPassword `json:"login_password"`
	SSH            KeySSH           `json:"ssh"`
}

// KeyCreate is the request body for creating an access key.
// SSH must be set for KeyTypeSSH and LoginPassword for KeyTypeLoginPassword.
type KeyCreate struct {
	Name           string
	Type           KeyType
	OverrideSecret bool
	LoginPassword  *KeyLoginPassword
	SSH            *KeySSH
}

// Validate checks the request before it is sent.
func (k KeyCreate) Validate() error {
	return validation.ValidateStruct(&k,
		validation.Field(&k.Name, validation.Required),
		validation.Field(&k.Type, validation.Required,
			validation.In(KeyTypeNone, KeyTypeSSH, KeyTypeLoginPassword).
				Error("must be one of: none, ssh, login_password")),
		validation.Field(&k.SSH, validation.When(k.Type == KeyTypeSSH,
			validation.Required.Error("must be set for key type ssh"))),
		validation.Field(&k.LoginPassword, validation.When(k.Type == KeyTypeLoginPassword,
			validation.Required.Error("must be set for key type login_password"))),
	)
}

// keyCreateBody is the wire form of KeyCreate. The server expects both secret
// objects to be present, with the unused one left empty.
type keyCreateBody struct {
	ID             int              `json:"id"`
	ProjectID      int              `json:"project_id"`
	Name           string           `json:"name"`
	Type           KeyType          `json:"type"`
	OverrideSecret bool             `json:"override_secret"`
	LoginPassword  KeyLoginPassword `json:"login_password"`
	SSH            KeySSH           `json:"ssh"`
}

func (k KeyCreate) body(projectID int) keyCreateBody {
	b := keyCreateBody{
		ProjectID:      projectID,
		Name:           k.Name,
		Type:           k.Type,
		OverrideSecret: k.OverrideSecret,
	}
	if k.Type == KeyTypeSSH && k.SSH != nil {
		b.SSH = *k.SSH
	}
	if k.Type == KeyTypeLoginPassword && k.LoginPassword != nil {
		b.LoginPassword = *k.LoginPassword
	}
	return b
}

// ListKeysOptions filters and orders ListKeys.
type ListKeysOptions struct {
	Type  KeyType
	Sort  string
	Order SortOrder
}

// ListKeys returns the access keys of a project. opts may be nil.
func (c *Client) ListKeys(ctx context.Context, projectID int, opts *ListKeysOptions) ([]Key, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	path := projectPath(projectID, "keys")
	if opts != nil {
		path = withQuery(path, map[string]string{
			"Key type": string(opts.Type),
			"sort":     opts.Sort,
			"order":    string(opts.Order),
		})
	}

	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return unmarshalList[Key](data, "key list")
}

// CreateKey creates an access key. The server sometimes answers with an empty
// body; the key is then looked up by name.
func (c *Client) CreateKey(ctx context.Context, projectID int, key *KeyCreate) (*Key, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if key == nil {
		return nil, invalidRequest("key", errNilRequest)
	}
	if err := key.Validate(); err != nil {
		return nil, invalidRequest("key", err)
	}

	data, err := c.post(ctx, projectPath(projectID, "keys"), key.body(projectID))
	if err != nil {
		return nil, err
	}
	if !isEmptyBody(data) {
		return unmarshalResponse[Key](data, "created key")
	}

	keys, err := c.ListKeys(ctx, projectID, nil)
	if err != nil {
		return nil, err
	}
	created, ok := findByName(keys, key.Name, func(k Key) string { return k.Name }, func(k Key) int { return k.ID })
	if !ok {
		return nil, fmt.Errorf("%w: created key %q not listed", ErrNotFound, key.Name)
	}
	return created, nil
}

// DeleteKey deletes an access key.
func (c *Client) DeleteKey(ctx context.Context, projectID, keyID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if keyID <= 0 {
		return ErrInvalidKeyID
	}

	_, err := c.delete(ctx, projectPath(projectID, "keys", keyID))
	return err
}
