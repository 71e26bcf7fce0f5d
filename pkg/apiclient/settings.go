package apiclient

import (
	"time"
)

// Preferences are the display settings with defaults filled in.
type Preferences struct {
	MaxLevel   int    `json:"maxLevel"`
	DateFormat string `json:"dateFormat"`
}

// Setting is a raw stored setting.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// SetSettingRequest is the body of a setting update.
type SetSettingRequest struct {
	Value string `json:"value"`
}

// Preferences returns the display settings.
func (c *Client) Preferences() (*Preferences, error) {
	return getResource[Preferences](c, "/api/v1/preferences")
}

// SetPreferences stores the display settings.
func (c *Client) SetPreferences(p Preferences) (*Preferences, error) {
	return updateResource[Preferences](c, "/api/v1/preferences", p)
}

// ListSettings returns every stored setting.
func (c *Client) ListSettings() ([]Setting, error) {
	return listResources[Setting](c, "/api/v1/settings")
}

// GetSetting returns a stored setting.
func (c *Client) GetSetting(key string) (*Setting, error) {
	return getResource[Setting](c, resourcePath("/api/v1/settings/%s", key))
}

// SetSetting stores a setting. It returns nil without error when the value
// cleared the setting, such as an empty matrix selection.
func (c *Client) SetSetting(key, value string) (*Setting, error) {
	var s Setting
	if err := c.put(resourcePath("/api/v1/settings/%s", key), SetSettingRequest{Value: value}, &s); err != nil {
		return nil, err
	}
	if s.Key == "" {
		return nil, nil
	}
	return &s, nil
}

// DeleteSetting removes a stored setting.
func (c *Client) DeleteSetting(key string) error {
	return deleteResource(c, resourcePath("/api/v1/settings/%s", key))
}
