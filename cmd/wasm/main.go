//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/planform/planform/backend-go/internal/engine"
)

var eng *engine.Engine

func main() {
	var err error
	eng, err = engine.NewEngine()
	if err != nil {
		js.Global().Get("console").Call("error", "planform engine: "+err.Error())
		return
	}

	editor := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	editor.Set("loadDocument", js.FuncOf(loadDocument))
	editor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	editor.Set("addShape", js.FuncOf(addShape))
	editor.Set("removeShape", js.FuncOf(removeShape))
	editor.Set("setLabel", js.FuncOf(setLabel))
	editor.Set("group", js.FuncOf(group))
	editor.Set("select", js.FuncOf(selectShape))
	editor.Set("deselect", js.FuncOf(deselect))
	editor.Set("pointerDown", js.FuncOf(pointerDown))
	editor.Set("pointerMove", js.FuncOf(pointerMove))
	editor.Set("pointerUp", js.FuncOf(pointerUp))
	editor.Set("addCorner", js.FuncOf(addCorner))
	editor.Set("removeCorner", js.FuncOf(removeCorner))
	editor.Set("moveCorner", js.FuncOf(moveCorner))
	editor.Set("addWall", js.FuncOf(addWall))
	editor.Set("removeWall", js.FuncOf(removeWall))
	editor.Set("loadFloorPlan", js.FuncOf(loadFloorPlan))
	editor.Set("undo", js.FuncOf(undo))
	editor.Set("redo", js.FuncOf(redo))
	editor.Set("subscribe", js.FuncOf(subscribe))

	// --- Queries (frontend ← backend) ---
	editor.Set("render", js.FuncOf(render))
	editor.Set("hitTest", js.FuncOf(hitTest))
	editor.Set("getOverlay", js.FuncOf(getOverlay))
	editor.Set("getSelection", js.FuncOf(getSelection))
	editor.Set("getHistoryState", js.FuncOf(getHistoryState))
	editor.Set("exportDocument", js.FuncOf(exportDocument))
	editor.Set("getFloorPlan", js.FuncOf(getFloorPlan))

	js.Global().Set("planformEditor", editor)
	js.Global().Set("planformWasmReady", js.ValueOf(true))

	select {}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

func result(err error) interface{} {
	if err != nil {
		return fail(err)
	}
	return ok()
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("instructions JSON")
	}
	return warningsResult(eng.LoadDocument(args[0].String()))
}

func warningsResult(warnings []string, err error) interface{} {
	if err != nil {
		return fail(err)
	}
	list := make([]interface{}, len(warnings))
	for i, w := range warnings {
		list[i] = w
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "warnings": list})
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	return result(eng.LoadSampleDocument())
}

func addShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("shape JSON")
	}
	id, err := eng.AddShape(args[0].String())
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "shapeId": id})
}

func removeShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("shape id")
	}
	return result(eng.RemoveShape(args[0].String()))
}

func setLabel(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("shape id or text")
	}
	return result(eng.SetLabel(args[0].String(), args[1].String()))
}

func group(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("shape ids JSON")
	}
	id, err := eng.Group(args[0].String())
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "shapeId": id})
}

func selectShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("shape id")
	}
	return result(eng.Select(args[0].String()))
}

func deselect(this js.Value, args []js.Value) interface{} {
	eng.Deselect()
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("coordinates")
	}
	g, err := eng.PointerDown(args[0].Float(), args[1].Float())
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "gesture": string(g)})
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.PointerMove(args[0].Float(), args[1].Float()))
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	eng.PointerUp()
	return nil
}

// addCorner takes (x, y) or (x, y, shapeId).
func addCorner(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("coordinates")
	}
	shapeID := ""
	if len(args) > 2 && args[2].Type() == js.TypeString {
		shapeID = args[2].String()
	}
	id, err := eng.AddCorner(args[0].Float(), args[1].Float(), shapeID)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "cornerId": id})
}

func removeCorner(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("corner id")
	}
	return result(eng.RemoveCorner(args[0].Int()))
}

func moveCorner(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return missing("corner id or coordinates")
	}
	return result(eng.MoveCorner(args[0].Int(), args[1].Float(), args[2].Float()))
}

func addWall(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("corner ids")
	}
	id, err := eng.AddWall(args[0].Int(), args[1].Int())
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "wallId": id})
}

func removeWall(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("wall id")
	}
	return result(eng.RemoveWall(args[0].Int()))
}

func loadFloorPlan(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("floor plan JSON")
	}
	return warningsResult(eng.LoadFloorPlan(args[0].String()))
}

func undo(this js.Value, args []js.Value) interface{} {
	return result(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return result(eng.Redo())
}

// subscribe registers a JS callback that receives every editor event as a
// JSON string. It returns a function that unsubscribes.
func subscribe(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return missing("callback")
	}
	cb := args[0]
	stop := eng.Subscribe(func(ev string) { cb.Invoke(ev) })

	var release js.Func
	release = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		stop()
		release.Release()
		return nil
	})
	return release
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getOverlay(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetOverlay())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelection())
}

func getHistoryState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetHistoryState())
}

func exportDocument(this js.Value, args []js.Value) interface{} {
	doc, err := eng.ExportDocument()
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(doc)
}

func getFloorPlan(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetFloorPlan())
}
