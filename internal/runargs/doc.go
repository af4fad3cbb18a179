// SPDX-License-Identifier: MPL-2.0

// Package runargs derives the interpreter runtime flags forwarded to a child script.
//
// The derivation is pure: the host's own runtime flags and execution mode are passed in
// as a HostMode value instead of being read from process-wide state. The effective flag
// list is built in a fixed order (fixed-up host flags, transpilation loader, caller
// extras) so that later flags override earlier ones under the interpreter's rules.
package runargs
