// Package testutil builds markup fixtures for driver/extract/group tests
// using gomponents, the same HTML-construction library the teacher wires
// components through (daaku-cssm's Collector.C/R return gomponents.Node
// class attributes). Grounded on daaku-cssm/cssm.go's h.Class usage.
package testutil

import (
	"bytes"

	"github.com/maragudk/gomponents"
	h "github.com/maragudk/gomponents/html"
)

// Div renders a single <div class="..."> fixture with the given
// space-separated class list, the shape internal/extract.Extract scans
// for.
func Div(classAttr string) []byte {
	return Render(h.Div(h.Class(classAttr)))
}

// DivWithDx renders a <div dx-text="..."> fixture, the shape
// internal/extract.Extract's scanDxAttrs scans for.
func DivWithDx(attrName, value string) []byte {
	return Render(h.Div(gomponents.Attr(attrName, value)))
}

// Render serializes a gomponents.Node tree to bytes, panicking on error
// since fixture construction failures indicate a test-authoring bug, not
// a runtime condition.
func Render(node gomponents.Node) []byte {
	var buf bytes.Buffer
	if err := node.Render(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
