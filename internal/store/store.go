// Package store persists documents as versioned instruction lists.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/planform/planform/backend-go/internal/codec"
	"github.com/planform/planform/backend-go/internal/config"
	"github.com/planform/planform/backend-go/internal/floor"
)

var ErrNotFound = errors.New("document not found")

// Content is what one document version holds: the shape instructions and
// the floor plan drawn over them.
type Content struct {
	Instructions []codec.Instruction `json:"instructions"`
	Floor        floor.Plan          `json:"floor"`
}

// Document is the latest version of a stored document.
type Document struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version int    `json:"version"`
	Content
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary lists a document without its contents.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store keeps every saved version; reads return the latest.
type Store interface {
	Create(ctx context.Context, name string, c Content) (*Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	Save(ctx context.Context, id string, c Content) (*Document, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close()
}

// Open returns the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite":
		return NewSQLite(ctx, cfg.SQLitePath)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// encode returns the instruction and floor-plan columns of c.
func (c Content) encode() (list, plan []byte, err error) {
	instructions := c.Instructions
	if instructions == nil {
		instructions = []codec.Instruction{}
	}
	if list, err = json.Marshal(instructions); err != nil {
		return nil, nil, fmt.Errorf("marshal instructions: %w", err)
	}
	fp := c.Floor
	if fp.Corners == nil {
		fp.Corners = []floor.PlanCorner{}
	}
	if fp.Walls == nil {
		fp.Walls = []floor.PlanWall{}
	}
	if plan, err = json.Marshal(fp); err != nil {
		return nil, nil, fmt.Errorf("marshal floor plan: %w", err)
	}
	return list, plan, nil
}

func decodeContent(list, plan []byte) (Content, error) {
	var c Content
	if err := json.Unmarshal(list, &c.Instructions); err != nil {
		return Content{}, fmt.Errorf("unmarshal instructions: %w", err)
	}
	if len(plan) > 0 {
		if err := json.Unmarshal(plan, &c.Floor); err != nil {
			return Content{}, fmt.Errorf("unmarshal floor plan: %w", err)
		}
	}
	return c, nil
}
