package model

import "strings"

// ControlTypes maps macOS AXRole values to the control-type taxonomy used
// in capture records. Windows UI Automation already reports these names
// (with a "Control" suffix), see NormalizeControlType.
var ControlTypes = map[string]string{
	"AXButton":      "Button",
	"AXStaticText":  "Text",
	"AXLink":        "Hyperlink",
	"AXImage":       "Image",
	"AXTextField":   "Edit",
	"AXTextArea":    "Edit",
	"AXComboBox":    "ComboBox",
	"AXPopUpButton": "ComboBox",
	"AXCheckBox":    "CheckBox",
	"AXSwitch":      "CheckBox",
	"AXRadioButton": "RadioButton",
	"AXMenu":        "Menu",
	"AXMenuBar":     "MenuBar",
	"AXMenuItem":    "MenuItem",
	"AXMenuBarItem": "MenuItem",
	"AXTabGroup":    "Tab",
	"AXList":        "List",
	"AXTable":       "Table",
	"AXOutline":     "Tree",
	"AXRow":         "DataItem",
	"AXCell":        "DataItem",
	"AXGroup":       "Group",
	"AXSplitGroup":  "Pane",
	"AXScrollArea":  "Pane",
	"AXScrollBar":   "ScrollBar",
	"AXSlider":      "Slider",
	"AXToolbar":     "ToolBar",
	"AXWebArea":     "Document",
	"AXWindow":      "Window",
}

// NormalizeControlType converts a raw platform role or control-type name to
// the record taxonomy. Unknown or empty values map to UnknownType.
func NormalizeControlType(raw string) string {
	if raw == "" {
		return UnknownType
	}
	if t, ok := ControlTypes[raw]; ok {
		return t
	}
	if strings.HasPrefix(raw, "AX") {
		return UnknownType
	}
	// UIA: "ButtonControl" -> "Button"
	if t := strings.TrimSuffix(raw, "Control"); t != "" {
		return t
	}
	return UnknownType
}
