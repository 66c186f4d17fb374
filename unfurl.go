// Package unfurl extracts structured page metadata from HTML documents.
// It collects title, description, canonical URL, favicons, Open Graph,
// Twitter Card, oEmbed and JSON-LD data into a single nested tree.
//
// This package contains domain types, the metadata schema and the pure
// structuring logic, following Ben Johnson's Standard Package Layout.
// Implementations that depend on third-party libraries live in
// subdirectories named after their primary dependency (e.g., html/,
// etree/, sqlite/, rod/).
package unfurl
