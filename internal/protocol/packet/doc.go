// Package packet is the schema-driven packet definition engine.
//
// A Shape pairs a version-keyed field schema with the names a caller may
// use to set fields: canonical names, aliases, and composites that derive
// several canonical fields from one value (a Vector position, an enum name,
// a bit range). Records, variant cases and packet bodies are all Shapes.
//
// Construction resolves sources in three phases: direct values (canonical or
// alias), full composites, then merge composites. Two sources that produce
// different values for one canonical field are a configuration error; equal
// values are accepted. There is no implicit precedence between sources.
package packet
