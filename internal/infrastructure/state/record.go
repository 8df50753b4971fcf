// Package state persists the client's single session record. Two stores are
// provided: a JSON file (the default) and a shared Redis key for kiosk and
// headless deployments. Both decode through the same versioned migration so
// legacy record layouts are upgraded once, at load time.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

const recordVersion = 1

// decodeRecord parses a stored session record, migrating legacy layouts to
// the current shape. The returned bool reports whether a migration was
// applied and the record should be rewritten.
func decodeRecord(data []byte) (*ports.PersistedSession, bool, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, fmt.Errorf("state: corrupt session record: %w", err)
	}

	switch probe.Version {
	case recordVersion:
		var rec ports.PersistedSession
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, false, fmt.Errorf("state: corrupt session record: %w", err)
		}
		return &rec, false, nil
	case 0:
		rec, err := migrateV0(data)
		if err != nil {
			return nil, false, err
		}
		return rec, true, nil
	default:
		return nil, false, fmt.Errorf("state: unsupported session record version %d", probe.Version)
	}
}

func encodeRecord(rec *ports.PersistedSession) ([]byte, error) {
	out := *rec
	out.Version = recordVersion
	return json.Marshal(&out)
}

// Version 0 records predate the structured department reference: the user
// carried a flat department_id and the top-level keys were camel-cased.
type v0Record struct {
	User            *v0User `json:"user"`
	AccessToken     string  `json:"accessToken"`
	RefreshToken    string  `json:"refreshToken"`
	IsAuthenticated bool    `json:"isAuthenticated"`
}

type v0User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	DepartmentID string `json:"department_id"`
	IsActive     bool   `json:"isActive"`
}

func migrateV0(data []byte) (*ports.PersistedSession, error) {
	var old v0Record
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, fmt.Errorf("state: corrupt legacy session record: %w", err)
	}

	rec := &ports.PersistedSession{
		Version:      recordVersion,
		AccessToken:  old.AccessToken,
		RefreshToken: old.RefreshToken,
	}
	if old.User != nil {
		actor := &domain.Actor{
			ID:       old.User.ID,
			Name:     old.User.Name,
			Email:    old.User.Email,
			Role:     old.User.Role,
			IsActive: old.User.IsActive,
		}
		if old.User.DepartmentID != "" {
			actor.Department = &domain.Department{ID: old.User.DepartmentID}
		}
		rec.User = actor
	}
	// The stored flag may disagree with the credentials; the invariant
	// decides.
	rec.IsAuthenticated = rec.User != nil && rec.AccessToken != ""
	return rec, nil
}
