package domain

import "time"

type ClientStatus string

const (
	ClientActive  ClientStatus = "active"
	ClientBlocked ClientStatus = "blocked"
)

type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	AvatarURL string
	Status    ClientStatus
	Deleted   bool
	CreatedAt time.Time

	// Favorites is a membership set of trip IDs; order is irrelevant and
	// duplicates never appear.
	Favorites []string
}

func (c Client) IsFavorite(tripID string) bool {
	for _, id := range c.Favorites {
		if id == tripID {
			return true
		}
	}
	return false
}

// ToggleFavorite returns the favorite set with tripID flipped. A toggle
// rather than an absolute set keeps replayed/rolled-back applications
// self-correcting.
func ToggleFavorite(favorites []string, tripID string) []string {
	out := make([]string, 0, len(favorites)+1)
	found := false
	for _, id := range favorites {
		if id == tripID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, tripID)
	}
	return out
}

type ClientPatch struct {
	Name      *string
	Email     *string
	Phone     *string
	AvatarURL *string
	Status    *ClientStatus
	Deleted   *bool
}

func (p ClientPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return ErrInvalidPatch
	}
	return nil
}

func (p ClientPatch) Apply(c Client) Client {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.AvatarURL != nil {
		c.AvatarURL = *p.AvatarURL
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Deleted != nil {
		c.Deleted = *p.Deleted
	}
	return c
}
