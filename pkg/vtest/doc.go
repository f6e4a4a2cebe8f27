// Package vtest provides testing helpers for sitekit components.
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	vtest.ExpectContains(t, ui.Heading(ui.HeadingProps{Level: 1}, g.Text("Hi")), "<h1")
//	vtest.ExpectNotContains(t, node, "placeholder")
//	vtest.ExpectEmpty(t, kit.Icon(ui.IconProps{Name: "missing"}))
//
// # Deterministic IDs
//
// Sections attach a fresh id to each list item. Swap in SequentialIDs to get
// stable output:
//
//	kit := ui.DefaultKit()
//	kit.NewID = vtest.SequentialIDs("p")
//	// ids: p-1, p-2, ...
package vtest
