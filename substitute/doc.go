// Package substitute rewrites the displays referenced by embedded windows
// and inlines embedded displays into their parent.
//
// A [Rules] table, usually loaded from YAML, maps referenced display paths to
// new ones and rewrites macro values:
//
//	paths:
//	  - from: motor.edl
//	    to: motor-v2.edl
//	macros:
//	  - name: P
//	    match: SR01
//	    value: SR02
//
// [Engine.Apply] rewrites a single document. [Engine.ApplyRecursive] follows
// embedded windows into the files they reference, rewriting and saving each
// file at most once, and detects embedding cycles. [Engine.Inline] replaces
// static embedded windows by a group holding the embedded display's objects.
//
// Files are read and written through a [FileSystem]; [MemFS] keeps them in
// memory.
package substitute
