// Package voronoi lays out a calendar month as a mosaic of convex cells.
//
// # Overview
//
// Each day of a month becomes one cell of a bounded Voronoi diagram. The
// diagram is computed inside a padded rectangle and is fully determined by
// the day count, the year and month, the canvas size and the cell size
// variance bounds. Rendering the same month twice yields byte-identical
// path data.
//
// The pipeline runs in stages, each taking the previous stage's output and
// returning a fresh slice:
//
//  1. [Bounds] derives the working rectangle from the canvas size.
//  2. [SeedFor] and [NewRand] build a deterministic random stream.
//  3. [GenerateSeeds] places one seed per day with a constrained random walk.
//  4. [Relax] nudges seeds toward their cell centroids.
//  5. [BuildDiagram] clips the rectangle against every bisector half-plane.
//  6. [SelectLabel] and [Repel] reserve the cell nearest the centre for the
//     month name and push its neighbours away.
//  7. [Inset], [Chaikin] and [PathData] turn polygons into smooth SVG paths.
//
// [Generate] runs all stages and returns one [Cell] per day, in day order:
// cells[i].DayIndex == i for every i.
//
// # Determinism
//
// The random stream is a linear congruential generator seeded from a 32-bit
// string hash of "<days>-<year>-<month0>", where month0 is zero-based. No
// other entropy is used.
//
// # Concurrency
//
// All functions are pure. Concurrent calls with any inputs are safe.
package voronoi
