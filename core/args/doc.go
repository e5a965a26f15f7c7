// Package args turns flat request arguments into nested structures.
//
// Query and form keys use bracket syntax for sequences and nested mappings:
//
//	tags[]=a&user[name]=Bob&user[address][city]=Oslo
//
// normalizes to
//
//	{"tags": ["a"], "user": {"name": "Bob", "address": {"city": "Oslo"}}}
//
// Malformed keys (unbalanced brackets, empty names, a base name used both as
// a scalar and a mapping) fail with a *MalformedArgumentError.
package args
