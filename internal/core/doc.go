// Package core links the salon, city, state and category tables and builds
// the view models the site is rendered from.
//
// The package has no I/O. Callers hand it decoded entities and receive new
// values back; nothing here modifies its inputs.
//
// # Phases
//
// Linking runs as a fixed sequence of synchronous phases:
//
//  1. [Resolve] indexes cities, states and categories by id and backfills
//     each city's state name.
//  2. [Infer] reads a candidate city and state from the address of salons
//     that carry neither id and matches them by name, ignoring case.
//  3. [Aggregate] counts salons per city, state and category, and cities
//     per state, using strict id equality.
//  4. [Project] builds [SalonView], [CityView], [StateView] and
//     [CategoryView] values with slugs and membership lists.
//
// [Link] runs the first three phases:
//
//	g := core.Link(salons, cities, states, categories)
//	ds := core.Project(g)
//
// # Counts
//
// Project's membership lists also accept salons matched only by city or
// state name. A view therefore carries two counts: SalonCount, which is
// len(SalonIDs), and IndexedSalonCount, the strict count from Aggregate.
// [Report] summarizes the references that could not be resolved at all.
package core
