// Package schema reads the optional widget catalog, a file holding one
// example object per EDM widget type, and the EDM colors.list palette.
//
// The catalog is only a reference. Transforms never require it; loading one
// lets [Catalog.Validate] flag unknown widget classes and lets
// [Catalog.Register] mark extra classes as known so their fonts are scaled.
package schema
