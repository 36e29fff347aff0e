package engine

import "github.com/planform/planform/backend-go/internal/codec"

// SampleInstructions is a small two-room plan with furniture, used by the
// playground.
func SampleInstructions() []codec.Instruction {
	return []codec.Instruction{
		{Command: "BEGIN_CONTAINER", Parameters: map[string]any{
			"positionX": 300.0, "positionY": 200.0, "width": 400.0, "height": 240.0,
			"rotation": 0.0, "labelText": "Living room",
		}},
		{Command: "CREATE_RECTANGLE", Parameters: map[string]any{
			"positionX": -100.0, "positionY": 40.0, "width": 140.0, "height": 60.0,
			"rotation": 0.0, "color": 0x8e7cc3, "labelText": "Sofa",
		}},
		{Command: "CREATE_ELLIPSE", Parameters: map[string]any{
			"positionX": 90.0, "positionY": -30.0, "width": 80.0, "height": 80.0,
			"rotation": 0.0, "color": 0xe69138,
		}},
		{Command: codec.CommandEndContainer},
		{Command: "CREATE_POLYGON", Parameters: map[string]any{
			"positionX": 620.0, "positionY": 200.0, "width": 160.0, "height": 160.0,
			"rotation": 0.0, "polygonPoints": []any{-80.0, 80.0, 0.0, -80.0, 80.0, 80.0},
			"labelText": "Study",
		}},
		{Command: "CREATE_ARC", Parameters: map[string]any{
			"positionX": 520.0, "positionY": 110.0, "width": 60.0, "height": 60.0,
			"rotation": 0.0, "arcRadius": 30.0, "arcStartAngle": 0.0, "arcEndAngle": 90.0,
		}},
	}
}
