// Package dbdiscovery locates an existing index directory for a starting
// path without ever creating one: it checks start_dir/.codesearch.db, then
// each ancestor up to a fixed depth, then a per-user global fallback under
// ~/.codesearch keyed by a slug of the starting path. A candidate directory
// is only reported as a
// hit once it passes an integrity check (manifest.json parses, and
// vectors/, fts/, meta/ all exist as directories); a candidate that exists
// but fails the check is skipped and logged with the specific missing
// piece rather than silently accepted or silently ignored.
package dbdiscovery
