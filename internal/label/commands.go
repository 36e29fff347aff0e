package label

import (
	"fmt"

	"github.com/planform/planform/backend-go/internal/geom"
)

// AddLabel adds a label; Undo removes it.
type AddLabel struct {
	labeler *Labeler
	label   Label
}

func NewAddLabel(l *Labeler, lbl Label) *AddLabel {
	return &AddLabel{labeler: l, label: lbl}
}

func (c *AddLabel) Execute() error { return c.labeler.Add(c.label) }

func (c *AddLabel) Undo() error {
	_, err := c.labeler.Remove(c.label.ShapeID)
	return err
}

// RemoveLabel removes the label of a shape; Undo puts it back.
type RemoveLabel struct {
	labeler *Labeler
	shapeID string
	saved   *Label
}

func NewRemoveLabel(l *Labeler, shapeID string) *RemoveLabel {
	return &RemoveLabel{labeler: l, shapeID: shapeID}
}

func (c *RemoveLabel) Execute() error {
	lbl, err := c.labeler.Remove(c.shapeID)
	if err != nil {
		return err
	}
	c.saved = &lbl
	return nil
}

func (c *RemoveLabel) Undo() error {
	if c.saved == nil {
		return fmt.Errorf("%w: %s was never removed", ErrLabelNotFound, c.shapeID)
	}
	return c.labeler.Add(*c.saved)
}

// MoveLabel moves a label between two recorded positions.
type MoveLabel struct {
	labeler  *Labeler
	shapeID  string
	from, to geom.Point
}

func NewMoveLabel(l *Labeler, shapeID string, from, to geom.Point) *MoveLabel {
	return &MoveLabel{labeler: l, shapeID: shapeID, from: from, to: to}
}

func (c *MoveLabel) Execute() error { return c.labeler.SetPosition(c.shapeID, c.to) }
func (c *MoveLabel) Undo() error    { return c.labeler.SetPosition(c.shapeID, c.from) }

// EditLabel changes label text.
type EditLabel struct {
	labeler  *Labeler
	shapeID  string
	from, to string
}

func NewEditLabel(l *Labeler, shapeID, from, to string) *EditLabel {
	return &EditLabel{labeler: l, shapeID: shapeID, from: from, to: to}
}

func (c *EditLabel) Execute() error { return c.labeler.SetText(c.shapeID, c.to) }
func (c *EditLabel) Undo() error    { return c.labeler.SetText(c.shapeID, c.from) }
