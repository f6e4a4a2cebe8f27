// Package ui contains the presentational components of a marketing site.
//
// Every component is a stateless function from props to a gomponents node.
// Components that need collaborators (links, icons, list ids) are methods on
// Kit; the rest are plain functions.
//
//	kit := ui.DefaultKit()
//
//	page := h.Main(
//	    kit.Hero(ui.HeroProps{Block: *home.Hero, Mobile: obs.Matches()}),
//	    ui.Spacing(ui.SpacingProps{Size: "lg"}),
//	    kit.Latest(ui.LatestProps{Block: home.Latest[0]}),
//	)
package ui
