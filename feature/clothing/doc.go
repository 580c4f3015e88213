// Package clothing migrates customization items from a source game install
// into a destination install.
//
// # Run
//
// Service.Run performs one complete migration:
//
//  1. Lock the output root and recreate it empty.
//  2. Load the template catalog and container table the output starts from.
//  3. Index the item names already present at the destination.
//  4. Discover the destination languages and load the source strings.
//  5. Reconcile every source catalog of the profile with core/reconcile,
//     cloning archives and merging display texts along the way.
//  6. Write the catalog, the container table and one string file per
//     destination language.
//  7. Record per-item outcomes and optionally publish the output tree.
//
// # Subpackages
//
//   - models: customization item tables.
//   - naming: archive names and string keys.
//   - localize: string merging and string file sizing.
//   - container: container metadata conversion.
//   - clone: archive rebuilding.
//   - reconcile: profiles and the reconcile adapter.
//   - ledger: outcome persistence.
package clothing
