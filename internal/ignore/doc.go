// Package ignore decides which files a walk over a source tree should
// skip. Rules layer in order, each able to override the last: a built-in
// always-excluded set and default glob patterns, then a .gitignore chain,
// then .ignore, then .codesearchignore, then any custom patterns supplied
// by the caller.
package ignore
