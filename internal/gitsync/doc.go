// Package gitsync pushes the data file to a git remote after each
// sampling cycle.
//
// It shells out to the git binary rather than embedding a git
// implementation: the host is assumed to have a working clone with
// credentials already configured, and the data file is the only thing
// staged. Every failure here is logged and swallowed; a broken remote
// never blocks sampling.
package gitsync
