// Package hls renders backend-neutral precisions and named types as
// declarations for a high-level-synthesis C++ target.
//
// ARCHITECTURE:
//
// Two numeric-library dialects are supported, selected once per run:
//
//	[ir.Precision] → PrecisionConverter(ap) → Precision{Dialect: ap} → "ap_fixed<16,6>"
//	               → PrecisionConverter(ac) → Precision{Dialect: ac} → "ac_fixed<16,6,true>"
//
// Named types follow the same path one level up:
//
//	[ir.Type] → TypeConverter → Type{Form: plain|compressed|exponent|packed} → "typedef ..."
//
// CLOSED VARIANTS:
//
// Precision and Type are tagged unions. The dialect tag is an explicit field,
// so "already converted" is a structural test rather than a naming
// convention, and every renderer is an exhaustive switch over the tags.
//
// IDEMPOTENCE:
//
// Converting a value that already carries the target dialect returns the
// same pointer. Converting a value tagged with the other dialect is an error:
// a run never mixes dialects.
//
// Converters hold no mutable state and are safe for concurrent use. Converted
// values are never mutated after construction.
package hls
