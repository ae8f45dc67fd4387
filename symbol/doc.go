// Package symbol implements the scoped symbol table of the assembler.
//
// Scopes form a tree rooted at the global scope. The assembler pushes a
// scope when it enters a scoping block and pops it on exit; a scope is
// found again by name on every later pass, so symbols defined in a scope
// keep their values between passes.
//
// Constants and labels may only change value between passes. Every such
// change, and every reference to a symbol that has no value yet, is
// recorded so the pass driver knows another pass is needed.
package symbol
